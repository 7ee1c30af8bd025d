package appointment

import (
	"errors"

	"github.com/hackgods/clinic-scheduling/internal/notify"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrRecordNotFound      = errors.New("consultation record not found")

	ErrInvalidField = errors.New("field must not contain '|' or line breaks")
)

// Repository is everything the workflow layer needs from the data store.
// Every mutating call persists before returning; a failed write leaves memory untouched.
type Repository interface {
	GenerateID(kind IDKind) (string, error)

	AddPatient(p Patient) error
	AddDoctor(d Doctor) error
	AddSlot(s ScheduleSlot) error
	UpdateSlot(s ScheduleSlot) error
	RemoveSlot(id string) error
	AddAppointment(a Appointment) error
	AddConsultationRecord(r ConsultationRecord) error

	SetPatientChannel(id string, ch notify.Channel) error
	SetDoctorChannel(id string, ch notify.Channel) error

	GetPatient(id string) (Patient, error)
	GetDoctor(id string) (Doctor, error)
	GetSlot(id string) (ScheduleSlot, error)
	GetAppointment(id string) (Appointment, error)
	GetConsultationRecord(id string) (ConsultationRecord, error)

	AllPatients() []Patient
	AllDoctors() []Doctor
	AllSlots() []ScheduleSlot
	AllAppointments() []Appointment
	AllConsultationRecords() []ConsultationRecord

	SlotsForDoctor(doctorID string) []ScheduleSlot
	AvailableSlots() []ScheduleSlot
	AppointmentsForPatient(patientID string) []Appointment
	AppointmentsForDoctor(doctorID string) []Appointment
	ConsultationHistoryForPatient(patientID string) []ConsultationRecord
	RecordForAppointment(appointmentID string) (ConsultationRecord, error)
}
