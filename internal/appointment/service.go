package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hackgods/clinic-scheduling/internal/notify"
	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

const (
	EventAppointmentBooked    = "APPOINTMENT_BOOKED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
	EventSlotAdded            = "SLOT_ADDED"
	EventSlotRemoved          = "SLOT_REMOVED"
)

var (
	ErrSlotNotAvailable        = errors.New("slot is already booked")
	ErrSlotNotOwned            = errors.New("slot belongs to another doctor")
	ErrAppointmentNotOwned     = errors.New("appointment belongs to another doctor")
	ErrAppointmentCompleted    = errors.New("appointment is already completed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidTimeRange        = errors.New("slot end time must be after start time")
	ErrNameRequired            = errors.New("name is required")
)

// Notifier delivers one message to one recipient. Delivery problems are the notifier's to log.
type Notifier interface {
	Deliver(ctx context.Context, ch notify.Channel, recipient, message string)
}

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *logging.Logger
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointment: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With("component", "appointment"),
		now:      time.Now,
	}
}

// RegisterPatient issues a patient id and stores the new patient.
func (s *Service) RegisterPatient(name, email, phone, address string) (Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Patient{}, ErrNameRequired
	}
	if err := checkFields(name, email, phone, address); err != nil {
		return Patient{}, err
	}

	id, err := s.repo.GenerateID(KindPatient)
	if err != nil {
		return Patient{}, fmt.Errorf("generate patient id: %w", err)
	}

	p := Patient{
		ID:      id,
		Name:    name,
		Email:   strings.TrimSpace(email),
		Phone:   strings.TrimSpace(phone),
		Address: strings.TrimSpace(address),
		Channel: DefaultPatientChannel,
	}
	if err := s.repo.AddPatient(p); err != nil {
		return Patient{}, fmt.Errorf("save patient: %w", err)
	}

	s.logger.Info("patient registered", "patient_id", p.ID)
	return p, nil
}

// CreateDoctor issues a doctor id and stores the new doctor.
func (s *Service) CreateDoctor(name, specialization string) (Doctor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Doctor{}, ErrNameRequired
	}
	if err := checkFields(name, specialization); err != nil {
		return Doctor{}, err
	}

	id, err := s.repo.GenerateID(KindDoctor)
	if err != nil {
		return Doctor{}, fmt.Errorf("generate doctor id: %w", err)
	}

	d := Doctor{
		ID:             id,
		Name:           name,
		Specialization: strings.TrimSpace(specialization),
		Channel:        DefaultDoctorChannel,
	}
	if err := s.repo.AddDoctor(d); err != nil {
		return Doctor{}, fmt.Errorf("save doctor: %w", err)
	}

	s.logger.Info("doctor created", "doctor_id", d.ID)
	return d, nil
}

func (s *Service) SetPatientChannel(patientID string, ch notify.Channel) error {
	return s.repo.SetPatientChannel(patientID, ch)
}

func (s *Service) SetDoctorChannel(doctorID string, ch notify.Channel) error {
	return s.repo.SetDoctorChannel(doctorID, ch)
}

// BookAppointment reserves an open slot for a patient. The patient and the slot's doctor are
// attached as observers and both receive the booking confirmation.
func (s *Service) BookAppointment(ctx context.Context, patientID, slotID string) (Appointment, error) {
	if _, err := s.repo.GetPatient(patientID); err != nil {
		return Appointment{}, err
	}

	slot, err := s.repo.GetSlot(slotID)
	if err != nil {
		return Appointment{}, err
	}
	if !slot.Available {
		s.logger.Info("booking rejected", "slot_id", slotID, "patient_id", patientID, "reason", ErrSlotNotAvailable)
		return Appointment{}, ErrSlotNotAvailable
	}

	// A slot whose doctor is gone can be loaded but never booked.
	doctor, err := s.repo.GetDoctor(slot.DoctorID)
	if err != nil {
		s.logger.Info("booking rejected", "slot_id", slotID, "patient_id", patientID, "doctor_id", slot.DoctorID, "reason", err)
		return Appointment{}, err
	}

	id, err := s.repo.GenerateID(KindAppointment)
	if err != nil {
		return Appointment{}, fmt.Errorf("generate appointment id: %w", err)
	}

	appt := NewAppointment(id, patientID, slotID, s.now())
	appt.Attach(PatientRef(patientID))
	appt.Attach(DoctorRef(doctor.ID))

	booked := slot
	booked.Available = false
	if err := s.repo.UpdateSlot(booked); err != nil {
		return Appointment{}, fmt.Errorf("mark slot booked: %w", err)
	}
	if err := s.repo.AddAppointment(appt); err != nil {
		// Undo the slot write so memory and disk still agree that the slot is open.
		if undoErr := s.repo.UpdateSlot(slot); undoErr != nil {
			s.logger.Error("restore slot after failed booking", "slot_id", slotID, "error", undoErr)
		}
		return Appointment{}, fmt.Errorf("save appointment: %w", err)
	}

	s.logEvent(appt.ID, EventAppointmentBooked, "slot_id", slotID, "patient_id", patientID)

	msg := fmt.Sprintf("Booking confirmed! Appointment ID: %s with %s on %s",
		appt.ID, doctor.Name, FormatDisplayDate(slot.Date))
	s.notifyObservers(ctx, appt, msg)

	return appt, nil
}

// AddSlot publishes a new open slot for doctorID.
func (s *Service) AddSlot(doctorID string, date time.Time, start, end Clock) (ScheduleSlot, error) {
	if _, err := s.repo.GetDoctor(doctorID); err != nil {
		return ScheduleSlot{}, err
	}
	if !start.Before(end) {
		return ScheduleSlot{}, ErrInvalidTimeRange
	}

	id, err := s.repo.GenerateID(KindSlot)
	if err != nil {
		return ScheduleSlot{}, fmt.Errorf("generate slot id: %w", err)
	}

	slot := ScheduleSlot{
		ID:        id,
		DoctorID:  doctorID,
		Date:      DateOf(date),
		Start:     start,
		End:       end,
		Available: true,
	}
	if err := s.repo.AddSlot(slot); err != nil {
		return ScheduleSlot{}, fmt.Errorf("save slot: %w", err)
	}

	s.logger.Info(EventSlotAdded, "slot_id", id, "doctor_id", doctorID)
	return slot, nil
}

// RemoveSlot deletes one of doctorID's slots while it is still open.
func (s *Service) RemoveSlot(doctorID, slotID string) error {
	slot, err := s.repo.GetSlot(slotID)
	if err != nil {
		return err
	}
	if slot.DoctorID != doctorID {
		return ErrSlotNotOwned
	}
	if !slot.Available {
		return ErrSlotNotAvailable
	}

	if err := s.repo.RemoveSlot(slotID); err != nil {
		return fmt.Errorf("remove slot: %w", err)
	}

	s.logger.Info(EventSlotRemoved, "slot_id", slotID, "doctor_id", doctorID)
	return nil
}

// CompleteConsultation records the outcome of an appointment held by doctorID and moves it to
// Completed, notifying the patient and the doctor.
func (s *Service) CompleteConsultation(ctx context.Context, doctorID, appointmentID, diagnosis, notes string) (ConsultationRecord, error) {
	if _, err := s.repo.GetDoctor(doctorID); err != nil {
		return ConsultationRecord{}, err
	}

	appt, err := s.repo.GetAppointment(appointmentID)
	if err != nil {
		return ConsultationRecord{}, err
	}

	slot, err := s.repo.GetSlot(appt.SlotID)
	if err != nil || slot.DoctorID != doctorID {
		s.logger.Info("completion rejected", "appointment_id", appointmentID, "doctor_id", doctorID, "reason", ErrAppointmentNotOwned)
		return ConsultationRecord{}, ErrAppointmentNotOwned
	}
	if appt.Status == StatusCompleted {
		return ConsultationRecord{}, ErrAppointmentCompleted
	}
	if err := checkFields(diagnosis, notes); err != nil {
		return ConsultationRecord{}, err
	}

	completed := appt
	if _, err := s.repo.GetPatient(appt.PatientID); err == nil {
		completed.Attach(PatientRef(appt.PatientID))
	}
	completed.Attach(DoctorRef(doctorID))
	if err := completed.Transition(StatusCompleted); err != nil {
		return ConsultationRecord{}, err
	}

	id, err := s.repo.GenerateID(KindHistory)
	if err != nil {
		return ConsultationRecord{}, fmt.Errorf("generate history id: %w", err)
	}
	record := ConsultationRecord{
		ID:            id,
		AppointmentID: appt.ID,
		Date:          DateOf(s.now()),
		Diagnosis:     strings.TrimSpace(diagnosis),
		Notes:         strings.TrimSpace(notes),
	}

	if err := s.repo.AddAppointment(completed); err != nil {
		return ConsultationRecord{}, fmt.Errorf("save appointment: %w", err)
	}
	if err := s.repo.AddConsultationRecord(record); err != nil {
		if undoErr := s.repo.AddAppointment(appt); undoErr != nil {
			s.logger.Error("restore appointment after failed completion", "appointment_id", appt.ID, "error", undoErr)
		}
		return ConsultationRecord{}, fmt.Errorf("save consultation record: %w", err)
	}

	s.logEvent(appt.ID, EventAppointmentCompleted, "record_id", record.ID, "doctor_id", doctorID)
	s.notifyObservers(ctx, completed, "Appointment status changed to: "+string(completed.Status))

	return record, nil
}

// Notify delivers message to one patient or doctor through their selected channel.
func (s *Service) Notify(ctx context.Context, ref ObserverRef, message string) error {
	ch, addr, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Deliver(ctx, ch, addr, message)
	}
	return nil
}

// notifyObservers delivers message once to every observer attached to appt, in attachment order.
func (s *Service) notifyObservers(ctx context.Context, appt Appointment, message string) {
	if s.notifier == nil {
		return
	}
	for _, ref := range appt.Observers() {
		ch, addr, err := s.resolve(ref)
		if err != nil {
			s.logger.Warn("observer not resolvable, skipped", "appointment_id", appt.ID, "kind", ref.Kind, "id", ref.ID, "error", err)
			continue
		}
		s.notifier.Deliver(ctx, ch, addr, message)
	}
}

func (s *Service) resolve(ref ObserverRef) (notify.Channel, string, error) {
	switch ref.Kind {
	case ObserverPatient:
		p, err := s.repo.GetPatient(ref.ID)
		if err != nil {
			return "", "", err
		}
		return p.Channel, p.ContactFor(p.Channel), nil
	case ObserverDoctor:
		d, err := s.repo.GetDoctor(ref.ID)
		if err != nil {
			return "", "", err
		}
		return d.Channel, d.ContactFor(d.Channel), nil
	default:
		return "", "", fmt.Errorf("unknown observer kind %q", ref.Kind)
	}
}

func (s *Service) logEvent(appointmentID, eventType string, attrs ...any) {
	s.logger.Info(eventType, append([]any{"appointment_id", appointmentID}, attrs...)...)
}

func checkFields(fields ...string) error {
	for _, f := range fields {
		if err := checkField(f); err != nil {
			return err
		}
	}
	return nil
}
