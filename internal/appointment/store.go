package appointment

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/notify"
	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

// Store owns every entity collection and its backing file. Each mutation rewrites the whole
// file for the affected collection before the in-memory state changes.
//
// Store is not safe for concurrent use; the application drives it from a single goroutine.
type Store struct {
	files  db.Layout
	logger *logging.Logger
	now    func() time.Time

	counters     Counters
	patients     map[string]Patient
	doctors      map[string]Doctor
	slots        map[string]ScheduleSlot
	appointments map[string]Appointment
	records      map[string]ConsultationRecord

	seeded bool
}

var _ Repository = (*Store)(nil)

type StoreOption func(*Store)

func WithLogger(logger *logging.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for sample slot dates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// OpenStore loads all collections from files. When no doctors exist afterwards the store is
// seeded with sample doctors and slots, which are persisted immediately.
func OpenStore(files db.Layout, opts ...StoreOption) (*Store, error) {
	s := &Store{
		files:  files,
		logger: logging.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "store")

	if err := s.load(); err != nil {
		return nil, err
	}

	if len(s.doctors) == 0 {
		if err := s.seedSampleData(); err != nil {
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
		s.seeded = true
	}

	s.logger.Info("store loaded",
		"patients", len(s.patients),
		"doctors", len(s.doctors),
		"slots", len(s.slots),
		"appointments", len(s.appointments),
		"records", len(s.records),
		"seeded", s.seeded,
	)
	return s, nil
}

func (s *Store) load() error {
	var err error
	if s.counters, err = s.loadCounters(); err != nil {
		return fmt.Errorf("load counters: %w", err)
	}
	if s.patients, err = loadCollection[Patient](s.files.Patients, func(p Patient) string { return p.ID }); err != nil {
		return fmt.Errorf("load patients: %w", err)
	}
	if s.doctors, err = loadCollection[Doctor](s.files.Doctors, func(d Doctor) string { return d.ID }); err != nil {
		return fmt.Errorf("load doctors: %w", err)
	}
	if s.slots, err = loadCollection[ScheduleSlot](s.files.Slots, func(sl ScheduleSlot) string { return sl.ID }); err != nil {
		return fmt.Errorf("load slots: %w", err)
	}
	if s.appointments, err = loadCollection[Appointment](s.files.Appointments, func(a Appointment) string { return a.ID }); err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}
	if s.records, err = loadCollection[ConsultationRecord](s.files.Histories, func(r ConsultationRecord) string { return r.ID }); err != nil {
		return fmt.Errorf("load consultation records: %w", err)
	}

	s.reconcileCounters()
	s.checkReferences()
	return nil
}

// loadCounters falls back to all ones when the file is missing or malformed. A file that
// exists but cannot be read is an error, like any other collection.
func (s *Store) loadCounters() (Counters, error) {
	lines, err := readLines(s.files.Counters)
	if err != nil {
		return Counters{}, err
	}
	if lines == nil {
		return defaultCounters(), nil
	}
	c, ok := parseCounters(lines)
	if !ok {
		s.logger.Warn("counters file malformed, using defaults", "path", s.files.Counters)
		return defaultCounters(), nil
	}
	return c, nil
}

// reconcileCounters raises any counter that would re-issue an id already present on disk.
func (s *Store) reconcileCounters() {
	bump := func(kind IDKind, ids []string) {
		for _, id := range ids {
			n, ok := idNumber(kind, id)
			if ok && n >= s.counters[kind] {
				s.logger.Warn("counter behind stored ids, raising", "kind", kind.Prefix(), "counter", s.counters[kind], "id", id)
				s.counters[kind] = n + 1
			}
		}
	}
	bump(KindPatient, slices.Collect(maps.Keys(s.patients)))
	bump(KindDoctor, slices.Collect(maps.Keys(s.doctors)))
	bump(KindSlot, slices.Collect(maps.Keys(s.slots)))
	bump(KindAppointment, slices.Collect(maps.Keys(s.appointments)))
	bump(KindHistory, slices.Collect(maps.Keys(s.records)))
}

func (s *Store) checkReferences() {
	for _, sl := range s.slots {
		if _, ok := s.doctors[sl.DoctorID]; !ok {
			s.logger.Warn("slot references unknown doctor", "slot_id", sl.ID, "doctor_id", sl.DoctorID)
		}
	}
	for _, a := range s.appointments {
		if _, ok := s.patients[a.PatientID]; !ok {
			s.logger.Warn("appointment references unknown patient", "appointment_id", a.ID, "patient_id", a.PatientID)
		}
		if _, ok := s.slots[a.SlotID]; !ok {
			s.logger.Warn("appointment references unknown slot", "appointment_id", a.ID, "slot_id", a.SlotID)
		}
	}
	for _, r := range s.records {
		if _, ok := s.appointments[r.AppointmentID]; !ok {
			s.logger.Warn("consultation record references unknown appointment", "record_id", r.ID, "appointment_id", r.AppointmentID)
		}
	}
}

// Seeded reports whether sample data was created when the store was opened.
func (s *Store) Seeded() bool { return s.seeded }

// Counters returns the next sequence number per kind.
func (s *Store) Counters() Counters { return s.counters }

// GenerateID issues the next id of kind. The whole counter set is persisted as one unit.
func (s *Store) GenerateID(kind IDKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown id kind %d", kind)
	}

	next := s.counters
	n := next[kind]
	next[kind]++

	if err := writeFileAtomic(s.files.Counters, next.marshal()); err != nil {
		s.logger.Error("persist counters failed", "error", err)
		return "", err
	}
	s.counters = next
	return FormatID(kind, n), nil
}

func (s *Store) AddPatient(p Patient) error {
	if p.ID == "" {
		return fmt.Errorf("add patient: empty id")
	}
	if p.Channel == "" {
		p.Channel = DefaultPatientChannel
	}
	next, err := withPut(s.files.Patients, s.patients, p.ID, p)
	if err != nil {
		return s.writeFailed("patients", err)
	}
	s.patients = next
	s.logger.Debug("patient saved", "patient_id", p.ID)
	return nil
}

func (s *Store) AddDoctor(d Doctor) error {
	if d.ID == "" {
		return fmt.Errorf("add doctor: empty id")
	}
	if d.Channel == "" {
		d.Channel = DefaultDoctorChannel
	}
	next, err := withPut(s.files.Doctors, s.doctors, d.ID, d)
	if err != nil {
		return s.writeFailed("doctors", err)
	}
	s.doctors = next
	s.logger.Debug("doctor saved", "doctor_id", d.ID)
	return nil
}

// AddSlot inserts or replaces a slot. The owning doctor must exist.
func (s *Store) AddSlot(sl ScheduleSlot) error {
	if sl.ID == "" {
		return fmt.Errorf("add slot: empty id")
	}
	if _, ok := s.doctors[sl.DoctorID]; !ok {
		return fmt.Errorf("add slot %s: %w", sl.ID, ErrDoctorNotFound)
	}
	sl.Date = DateOf(sl.Date)
	next, err := withPut(s.files.Slots, s.slots, sl.ID, sl)
	if err != nil {
		return s.writeFailed("slots", err)
	}
	s.slots = next
	s.logger.Debug("slot saved", "slot_id", sl.ID, "doctor_id", sl.DoctorID, "available", sl.Available)
	return nil
}

// UpdateSlot replaces an existing slot and rewrites the slot file.
func (s *Store) UpdateSlot(sl ScheduleSlot) error {
	if _, ok := s.slots[sl.ID]; !ok {
		return ErrSlotNotFound
	}
	return s.AddSlot(sl)
}

// RemoveSlot deletes a slot. Unknown ids are a no-op.
func (s *Store) RemoveSlot(id string) error {
	if _, ok := s.slots[id]; !ok {
		return nil
	}
	next, err := withDelete(s.files.Slots, s.slots, id)
	if err != nil {
		return s.writeFailed("slots", err)
	}
	s.slots = next
	s.logger.Debug("slot removed", "slot_id", id)
	return nil
}

// AddAppointment inserts or replaces an appointment. Its patient and slot must exist.
func (s *Store) AddAppointment(a Appointment) error {
	if a.ID == "" {
		return fmt.Errorf("add appointment: empty id")
	}
	if !a.Status.Valid() {
		return fmt.Errorf("add appointment %s: unknown status %q", a.ID, a.Status)
	}
	if _, ok := s.patients[a.PatientID]; !ok {
		return fmt.Errorf("add appointment %s: %w", a.ID, ErrPatientNotFound)
	}
	if _, ok := s.slots[a.SlotID]; !ok {
		return fmt.Errorf("add appointment %s: %w", a.ID, ErrSlotNotFound)
	}
	a.BookingDate = DateOf(a.BookingDate)
	next, err := withPut(s.files.Appointments, s.appointments, a.ID, a.clone())
	if err != nil {
		return s.writeFailed("appointments", err)
	}
	s.appointments = next
	s.logger.Debug("appointment saved", "appointment_id", a.ID, "status", a.Status)
	return nil
}

// AddConsultationRecord inserts or replaces a record. Its appointment must exist.
func (s *Store) AddConsultationRecord(r ConsultationRecord) error {
	if r.ID == "" {
		return fmt.Errorf("add consultation record: empty id")
	}
	if _, ok := s.appointments[r.AppointmentID]; !ok {
		return fmt.Errorf("add consultation record %s: %w", r.ID, ErrAppointmentNotFound)
	}
	r.Date = DateOf(r.Date)
	next, err := withPut(s.files.Histories, s.records, r.ID, r)
	if err != nil {
		return s.writeFailed("consultation records", err)
	}
	s.records = next
	s.logger.Debug("consultation record saved", "record_id", r.ID, "appointment_id", r.AppointmentID)
	return nil
}

func (s *Store) writeFailed(collection string, err error) error {
	s.logger.Error("persist failed, in-memory state unchanged", "collection", collection, "error", err)
	return err
}

// SetPatientChannel changes the patient's delivery channel. Channel choice lives in memory only.
func (s *Store) SetPatientChannel(id string, ch notify.Channel) error {
	if !ch.Valid() {
		return fmt.Errorf("unknown notification channel %q", ch)
	}
	p, ok := s.patients[id]
	if !ok {
		return ErrPatientNotFound
	}
	p.Channel = ch
	s.patients[id] = p
	return nil
}

// SetDoctorChannel changes the doctor's delivery channel. Channel choice lives in memory only.
func (s *Store) SetDoctorChannel(id string, ch notify.Channel) error {
	if !ch.Valid() {
		return fmt.Errorf("unknown notification channel %q", ch)
	}
	d, ok := s.doctors[id]
	if !ok {
		return ErrDoctorNotFound
	}
	d.Channel = ch
	s.doctors[id] = d
	return nil
}

func (s *Store) GetPatient(id string) (Patient, error) {
	p, ok := s.patients[id]
	if !ok {
		return Patient{}, ErrPatientNotFound
	}
	return p, nil
}

func (s *Store) GetDoctor(id string) (Doctor, error) {
	d, ok := s.doctors[id]
	if !ok {
		return Doctor{}, ErrDoctorNotFound
	}
	return d, nil
}

func (s *Store) GetSlot(id string) (ScheduleSlot, error) {
	sl, ok := s.slots[id]
	if !ok {
		return ScheduleSlot{}, ErrSlotNotFound
	}
	return sl, nil
}

func (s *Store) GetAppointment(id string) (Appointment, error) {
	a, ok := s.appointments[id]
	if !ok {
		return Appointment{}, ErrAppointmentNotFound
	}
	return a.clone(), nil
}

func (s *Store) GetConsultationRecord(id string) (ConsultationRecord, error) {
	r, ok := s.records[id]
	if !ok {
		return ConsultationRecord{}, ErrRecordNotFound
	}
	return r, nil
}

func (s *Store) AllPatients() []Patient {
	return sortedValues(s.patients, nil)
}

func (s *Store) AllDoctors() []Doctor {
	return sortedValues(s.doctors, nil)
}

func (s *Store) AllSlots() []ScheduleSlot {
	return sortedValues(s.slots, nil)
}

func (s *Store) AllAppointments() []Appointment {
	return cloneAll(sortedValues(s.appointments, nil))
}

func (s *Store) AllConsultationRecords() []ConsultationRecord {
	return sortedValues(s.records, nil)
}

// SlotsForDoctor is computed from the slot collection on every call.
func (s *Store) SlotsForDoctor(doctorID string) []ScheduleSlot {
	return sortedValues(s.slots, func(sl ScheduleSlot) bool { return sl.DoctorID == doctorID })
}

func (s *Store) AvailableSlots() []ScheduleSlot {
	return sortedValues(s.slots, func(sl ScheduleSlot) bool { return sl.Available })
}

func (s *Store) AppointmentsForPatient(patientID string) []Appointment {
	return cloneAll(sortedValues(s.appointments, func(a Appointment) bool { return a.PatientID == patientID }))
}

// AppointmentsForDoctor joins through each appointment's slot.
func (s *Store) AppointmentsForDoctor(doctorID string) []Appointment {
	return cloneAll(sortedValues(s.appointments, func(a Appointment) bool {
		sl, ok := s.slots[a.SlotID]
		return ok && sl.DoctorID == doctorID
	}))
}

// ConsultationHistoryForPatient joins each record through its appointment.
func (s *Store) ConsultationHistoryForPatient(patientID string) []ConsultationRecord {
	return sortedValues(s.records, func(r ConsultationRecord) bool {
		a, ok := s.appointments[r.AppointmentID]
		return ok && a.PatientID == patientID
	})
}

func (s *Store) RecordForAppointment(appointmentID string) (ConsultationRecord, error) {
	for _, r := range s.records {
		if r.AppointmentID == appointmentID {
			return r, nil
		}
	}
	return ConsultationRecord{}, ErrRecordNotFound
}

// sortedValues returns the values of m accepted by keep (all when keep is nil), ordered by id.
func sortedValues[T any](m map[string]T, keep func(T) bool) []T {
	out := make([]T, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		v := m[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func cloneAll(as []Appointment) []Appointment {
	for i := range as {
		as[i] = as[i].clone()
	}
	return as
}
