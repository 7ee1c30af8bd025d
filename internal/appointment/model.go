package appointment

import (
	"slices"
	"time"

	"github.com/hackgods/clinic-scheduling/internal/notify"
)

type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "Booked"
	StatusCompleted AppointmentStatus = "Completed"
)

func (s AppointmentStatus) Valid() bool {
	return s == StatusBooked || s == StatusCompleted
}

// Default channels for newly created or reloaded users. Channel choice is not persisted.
const (
	DefaultPatientChannel = notify.ChannelEmail
	DefaultDoctorChannel  = notify.ChannelSMS
)

type Patient struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
	Channel notify.Channel
}

// ContactFor returns the address a message on ch is sent to.
// Email goes to the email address; phone-based channels go to the phone number when one is known.
func (p Patient) ContactFor(ch notify.Channel) string {
	if ch != notify.ChannelEmail && p.Phone != "" {
		return p.Phone
	}
	return p.Email
}

type Doctor struct {
	ID             string
	Name           string
	Specialization string
	Channel        notify.Channel
}

// ContactFor returns the doctor's name; doctors are addressed by name on every channel.
func (d Doctor) ContactFor(notify.Channel) string {
	return d.Name
}

type ScheduleSlot struct {
	ID        string
	DoctorID  string
	Date      time.Time
	Start     Clock
	End       Clock
	Available bool
}

type Appointment struct {
	ID          string
	PatientID   string
	SlotID      string
	BookingDate time.Time
	Status      AppointmentStatus

	observers []ObserverRef
}

// NewAppointment returns a Booked appointment with no observers.
func NewAppointment(id, patientID, slotID string, bookedOn time.Time) Appointment {
	return Appointment{
		ID:          id,
		PatientID:   patientID,
		SlotID:      slotID,
		BookingDate: DateOf(bookedOn),
		Status:      StatusBooked,
	}
}

type ConsultationRecord struct {
	ID            string
	AppointmentID string
	Date          time.Time
	Diagnosis     string
	Notes         string
}

type ObserverKind string

const (
	ObserverPatient ObserverKind = "patient"
	ObserverDoctor  ObserverKind = "doctor"
)

// ObserverRef points at a patient or doctor by id. It is resolved to an address at broadcast time.
type ObserverRef struct {
	Kind ObserverKind
	ID   string
}

func PatientRef(id string) ObserverRef { return ObserverRef{Kind: ObserverPatient, ID: id} }
func DoctorRef(id string) ObserverRef  { return ObserverRef{Kind: ObserverDoctor, ID: id} }

// Attach adds ref to the observer set. Attaching an already attached observer is a no-op
// and reports false.
func (a *Appointment) Attach(ref ObserverRef) bool {
	if slices.Contains(a.observers, ref) {
		return false
	}
	a.observers = append(slices.Clone(a.observers), ref)
	return true
}

// Detach removes ref. Detaching an unknown observer is a no-op.
func (a *Appointment) Detach(ref ObserverRef) {
	i := slices.Index(a.observers, ref)
	if i < 0 {
		return
	}
	a.observers = slices.Delete(slices.Clone(a.observers), i, i+1)
}

// Observers returns the attached observers in attachment order.
func (a Appointment) Observers() []ObserverRef {
	return slices.Clone(a.observers)
}

// Transition moves the appointment to status. Only Booked -> Completed is allowed.
func (a *Appointment) Transition(to AppointmentStatus) error {
	if a.Status == StatusCompleted {
		return ErrAppointmentCompleted
	}
	if a.Status != StatusBooked || to != StatusCompleted {
		return ErrInvalidStatusTransition
	}
	a.Status = to
	return nil
}

func (a Appointment) clone() Appointment {
	a.observers = slices.Clone(a.observers)
	return a
}

// PatientSummary counts a patient's appointments and consultations.
type PatientSummary struct {
	Patient       Patient
	Appointments  int
	Consultations int
}

// DoctorAvailability is a doctor with the slots still open for booking.
type DoctorAvailability struct {
	Doctor Doctor
	Slots  []ScheduleSlot
}

// HistoryEntry is a consultation record joined with the appointment, slot and doctor it belongs to.
// Slot and DoctorName are zero when the referenced records are missing.
type HistoryEntry struct {
	Record      ConsultationRecord
	Appointment Appointment
	Slot        ScheduleSlot
	DoctorName  string
}
