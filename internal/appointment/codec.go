package appointment

import (
	"fmt"
	"strconv"
	"strings"
)

const fieldSep = "|"

// ParseError reports a malformed stored line or a malformed user entry.
type ParseError struct {
	Source string // file path, or "input"
	Line   int    // 1-based, zero for user input
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func joinFields(fields ...string) ([]byte, error) {
	for _, f := range fields {
		if err := checkField(f); err != nil {
			return nil, err
		}
	}
	return []byte(strings.Join(fields, fieldSep)), nil
}

func checkField(f string) error {
	if strings.ContainsAny(f, fieldSep+"\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidField, f)
	}
	return nil
}

func splitFields(entity string, text []byte, want int) ([]string, error) {
	parts := strings.Split(string(text), fieldSep)
	if len(parts) != want {
		return nil, fmt.Errorf("%s: want %d fields, got %d", entity, want, len(parts))
	}
	if parts[0] == "" {
		return nil, fmt.Errorf("%s: empty id", entity)
	}
	return parts, nil
}

// Patient: id|name|email|phone|address

func (p Patient) MarshalText() ([]byte, error) {
	return joinFields(p.ID, p.Name, p.Email, p.Phone, p.Address)
}

func (p *Patient) UnmarshalText(text []byte) error {
	f, err := splitFields("patient", text, 5)
	if err != nil {
		return err
	}
	*p = Patient{
		ID:      f[0],
		Name:    f[1],
		Email:   f[2],
		Phone:   f[3],
		Address: f[4],
		Channel: DefaultPatientChannel,
	}
	return nil
}

// Doctor: id|name|specialization

func (d Doctor) MarshalText() ([]byte, error) {
	return joinFields(d.ID, d.Name, d.Specialization)
}

func (d *Doctor) UnmarshalText(text []byte) error {
	f, err := splitFields("doctor", text, 3)
	if err != nil {
		return err
	}
	*d = Doctor{
		ID:             f[0],
		Name:           f[1],
		Specialization: f[2],
		Channel:        DefaultDoctorChannel,
	}
	return nil
}

// ScheduleSlot: id|doctorId|date|start|end|available

func (s ScheduleSlot) MarshalText() ([]byte, error) {
	return joinFields(
		s.ID,
		s.DoctorID,
		FormatDate(s.Date),
		s.Start.String(),
		s.End.String(),
		strconv.FormatBool(s.Available),
	)
}

func (s *ScheduleSlot) UnmarshalText(text []byte) error {
	f, err := splitFields("slot", text, 6)
	if err != nil {
		return err
	}
	date, err := ParseDate(f[2])
	if err != nil {
		return fmt.Errorf("slot %s: %w", f[0], err)
	}
	start, err := ParseClock(f[3])
	if err != nil {
		return fmt.Errorf("slot %s: start: %w", f[0], err)
	}
	end, err := ParseClock(f[4])
	if err != nil {
		return fmt.Errorf("slot %s: end: %w", f[0], err)
	}
	available, err := strconv.ParseBool(f[5])
	if err != nil {
		return fmt.Errorf("slot %s: invalid availability %q", f[0], f[5])
	}
	*s = ScheduleSlot{
		ID:        f[0],
		DoctorID:  f[1],
		Date:      date,
		Start:     start,
		End:       end,
		Available: available,
	}
	return nil
}

// Appointment: id|patientId|slotId|bookingDate|status

func (a Appointment) MarshalText() ([]byte, error) {
	return joinFields(a.ID, a.PatientID, a.SlotID, FormatDate(a.BookingDate), string(a.Status))
}

func (a *Appointment) UnmarshalText(text []byte) error {
	f, err := splitFields("appointment", text, 5)
	if err != nil {
		return err
	}
	booked, err := ParseDate(f[3])
	if err != nil {
		return fmt.Errorf("appointment %s: %w", f[0], err)
	}
	status := AppointmentStatus(f[4])
	if !status.Valid() {
		return fmt.Errorf("appointment %s: unknown status %q", f[0], f[4])
	}
	*a = Appointment{
		ID:          f[0],
		PatientID:   f[1],
		SlotID:      f[2],
		BookingDate: booked,
		Status:      status,
	}
	return nil
}

// ConsultationRecord: id|appointmentId|date|diagnosis|notes

func (r ConsultationRecord) MarshalText() ([]byte, error) {
	return joinFields(r.ID, r.AppointmentID, FormatDate(r.Date), r.Diagnosis, r.Notes)
}

func (r *ConsultationRecord) UnmarshalText(text []byte) error {
	f, err := splitFields("consultation record", text, 5)
	if err != nil {
		return err
	}
	date, err := ParseDate(f[2])
	if err != nil {
		return fmt.Errorf("consultation record %s: %w", f[0], err)
	}
	*r = ConsultationRecord{
		ID:            f[0],
		AppointmentID: f[1],
		Date:          date,
		Diagnosis:     f[3],
		Notes:         f[4],
	}
	return nil
}
