package appointment

var sampleDoctors = []struct {
	name           string
	specialization string
}{
	{"Dr. Ahmad Yani", "Cardiology"},
	{"Dr. Siti Rahma", "Pediatrics"},
	{"Dr. Budi Santoso", "Orthopedics"},
}

var sampleSlots = []struct {
	doctor     int // index into sampleDoctors
	daysAhead  int
	start, end Clock
}{
	{0, 1, NewClock(9, 0), NewClock(10, 0)},
	{0, 1, NewClock(10, 0), NewClock(11, 0)},
	{1, 2, NewClock(14, 0), NewClock(15, 0)},
	{2, 3, NewClock(11, 0), NewClock(12, 0)},
}

// seedSampleData creates three doctors and four open slots. Ids come from the counters,
// so a fresh store gets D001-D003 and S001-S004.
func (s *Store) seedSampleData() error {
	today := DateOf(s.now())

	doctorIDs := make([]string, len(sampleDoctors))
	for i, sd := range sampleDoctors {
		id, err := s.GenerateID(KindDoctor)
		if err != nil {
			return err
		}
		if err := s.AddDoctor(Doctor{ID: id, Name: sd.name, Specialization: sd.specialization}); err != nil {
			return err
		}
		doctorIDs[i] = id
	}

	for _, ss := range sampleSlots {
		id, err := s.GenerateID(KindSlot)
		if err != nil {
			return err
		}
		slot := ScheduleSlot{
			ID:        id,
			DoctorID:  doctorIDs[ss.doctor],
			Date:      today.AddDate(0, 0, ss.daysAhead),
			Start:     ss.start,
			End:       ss.end,
			Available: true,
		}
		if err := s.AddSlot(slot); err != nil {
			return err
		}
	}

	s.logger.Info("sample data seeded", "doctors", len(sampleDoctors), "slots", len(sampleSlots))
	return nil
}
