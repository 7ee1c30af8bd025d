package console

import (
	"context"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/notify"
)

func (a *App) patientMenu(ctx context.Context) error {
	for {
		a.printf("\n--- Patient ---\n1. Register\n2. Log in\n3. Back\n")
		choice, err := a.choose("Choose: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = a.registerPatient()
		case 2:
			err = a.patientLogin(ctx)
		case 3:
			return nil
		default:
			a.printf("Invalid choice.\n")
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) registerPatient() error {
	var fields [4]string
	for i, label := range []string{"Name: ", "Email: ", "Phone: ", "Address: "} {
		v, err := a.prompt(label)
		if err != nil {
			return err
		}
		fields[i] = v
	}

	p, err := a.svc.RegisterPatient(fields[0], fields[1], fields[2], fields[3])
	if err != nil {
		a.report(err)
		return nil
	}
	a.printf("Registered. Your patient ID is %s.\n", p.ID)
	return nil
}

func (a *App) patientLogin(ctx context.Context) error {
	id, err := a.prompt("Patient ID: ")
	if err != nil {
		return err
	}
	p, err := a.svc.Patient(id)
	if err != nil {
		a.report(err)
		return nil
	}
	a.printf("Welcome, %s.\n", p.Name)
	if err := a.selectPatientChannel(p.ID); err != nil {
		return err
	}
	return a.patientSession(ctx, p.ID)
}

func (a *App) selectPatientChannel(patientID string) error {
	ch, err := a.chooseChannel([]notify.Channel{notify.ChannelEmail, notify.ChannelSMS, notify.ChannelWhatsApp})
	if err != nil {
		return err
	}
	if err := a.svc.SetPatientChannel(patientID, ch); err != nil {
		a.report(err)
	}
	return nil
}

func (a *App) patientSession(ctx context.Context, patientID string) error {
	for {
		a.printf("\n--- Patient %s ---\n1. Doctors and open slots\n2. Book appointment\n3. My appointments\n4. Consultation history\n5. Change notification channel\n6. Log out\n", patientID)
		choice, err := a.choose("Choose: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			a.listOpenSlots()
		case 2:
			err = a.book(ctx, patientID)
		case 3:
			a.listPatientAppointments(patientID)
		case 4:
			a.listHistory(patientID)
		case 5:
			err = a.selectPatientChannel(patientID)
		case 6:
			return nil
		default:
			a.printf("Invalid choice.\n")
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) listOpenSlots() {
	for _, av := range a.svc.DoctorsWithAvailability() {
		a.printf("%s - %s (%s)\n", av.Doctor.ID, av.Doctor.Name, av.Doctor.Specialization)
		if len(av.Slots) == 0 {
			a.printf("  no open slots\n")
		}
		for _, sl := range av.Slots {
			a.printSlot(sl)
		}
	}
}

func (a *App) book(ctx context.Context, patientID string) error {
	a.listOpenSlots()
	slotID, err := a.prompt("Slot ID to book: ")
	if err != nil {
		return err
	}
	appt, err := a.svc.BookAppointment(ctx, patientID, slotID)
	if err != nil {
		a.report(err)
		return nil
	}
	a.printf("Booked appointment %s.\n", appt.ID)
	return nil
}

func (a *App) listPatientAppointments(patientID string) {
	appts, err := a.svc.PatientAppointments(patientID)
	if err != nil {
		a.report(err)
		return
	}
	if len(appts) == 0 {
		a.printf("No appointments yet.\n")
	}
	for _, ap := range appts {
		a.printAppointment(ap)
	}
}

func (a *App) listHistory(patientID string) {
	history, err := a.svc.ConsultationHistory(patientID)
	if err != nil {
		a.report(err)
		return
	}
	if len(history) == 0 {
		a.printf("No consultation history yet.\n")
	}
	for _, h := range history {
		a.printf("[%s] %s | appointment %s | %s\n  Diagnosis: %s\n  Notes: %s\n",
			h.Record.ID, appointment.FormatDisplayDate(h.Record.Date), h.Record.AppointmentID,
			orDash(h.DoctorName), orDash(h.Record.Diagnosis), orDash(h.Record.Notes))
	}
}

func (a *App) printAppointment(ap appointment.Appointment) {
	line := ap.ID + " | slot " + ap.SlotID + " | patient " + ap.PatientID + " | " + string(ap.Status)
	if sl, err := a.svc.Slot(ap.SlotID); err == nil {
		line += " | " + appointment.FormatDisplayDate(sl.Date) + " " + sl.Start.String()
	}
	a.printf("%s\n", line)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
