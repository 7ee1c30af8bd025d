package console

import (
	"context"
	"errors"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/notify"
)

func (a *App) doctorLogin(ctx context.Context) error {
	id, err := a.prompt("Doctor ID: ")
	if err != nil {
		return err
	}
	d, err := a.svc.Doctor(id)
	if err != nil {
		a.report(err)
		return nil
	}
	a.printf("Welcome, %s.\n", d.Name)
	if err := a.selectDoctorChannel(d.ID); err != nil {
		return err
	}
	return a.doctorSession(ctx, d.ID)
}

func (a *App) selectDoctorChannel(doctorID string) error {
	ch, err := a.chooseChannel([]notify.Channel{notify.ChannelSMS, notify.ChannelEmail, notify.ChannelWhatsApp})
	if err != nil {
		return err
	}
	if err := a.svc.SetDoctorChannel(doctorID, ch); err != nil {
		a.report(err)
	}
	return nil
}

func (a *App) doctorSession(ctx context.Context, doctorID string) error {
	for {
		a.printf("\n--- Doctor %s ---\n1. My schedule\n2. Add slot\n3. Remove slot\n4. My appointments\n5. Complete consultation\n6. Change notification channel\n7. Log out\n", doctorID)
		choice, err := a.choose("Choose: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			a.listSchedule(doctorID)
		case 2:
			err = a.addSlot(doctorID)
		case 3:
			err = a.removeSlot(doctorID)
		case 4:
			a.listDoctorAppointments(doctorID)
		case 5:
			err = a.complete(ctx, doctorID)
		case 6:
			err = a.selectDoctorChannel(doctorID)
		case 7:
			return nil
		default:
			a.printf("Invalid choice.\n")
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) listSchedule(doctorID string) {
	slots, err := a.svc.DoctorSchedule(doctorID)
	if err != nil {
		a.report(err)
		return
	}
	if len(slots) == 0 {
		a.printf("No slots yet.\n")
	}
	for _, sl := range slots {
		a.printSlot(sl)
	}
}

// addSlot reprompts on malformed dates or times. An empty date cancels.
func (a *App) addSlot(doctorID string) error {
	for {
		date, err := a.prompt("Date (DD-MM-YYYY, empty to cancel): ")
		if err != nil {
			return err
		}
		if date == "" {
			return nil
		}
		start, err := a.prompt("Start (HH:mm): ")
		if err != nil {
			return err
		}
		end, err := a.prompt("End (HH:mm): ")
		if err != nil {
			return err
		}

		d, s, e, err := appointment.ParseSlotInput(date, start, end)
		var perr *appointment.ParseError
		if errors.As(err, &perr) {
			a.report(err)
			continue
		}

		slot, err := a.svc.AddSlot(doctorID, d, s, e)
		if err != nil {
			a.report(err)
			return nil
		}
		a.printf("Added slot %s.\n", slot.ID)
		return nil
	}
}

func (a *App) removeSlot(doctorID string) error {
	a.listSchedule(doctorID)
	slotID, err := a.prompt("Slot ID to remove: ")
	if err != nil {
		return err
	}
	if err := a.svc.RemoveSlot(doctorID, slotID); err != nil {
		a.report(err)
		return nil
	}
	a.printf("Removed slot %s.\n", slotID)
	return nil
}

func (a *App) listDoctorAppointments(doctorID string) {
	appts, err := a.svc.DoctorAppointments(doctorID)
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

func (a *App) complete(ctx context.Context, doctorID string) error {
	a.listDoctorAppointments(doctorID)
	apptID, err := a.prompt("Appointment ID to complete: ")
	if err != nil {
		return err
	}
	diagnosis, err := a.prompt("Diagnosis: ")
	if err != nil {
		return err
	}
	notes, err := a.prompt("Notes: ")
	if err != nil {
		return err
	}

	record, err := a.svc.CompleteConsultation(ctx, doctorID, apptID, diagnosis, notes)
	if err != nil {
		a.report(err)
		return nil
	}
	a.printf("Consultation recorded as %s.\n", record.ID)
	return nil
}
