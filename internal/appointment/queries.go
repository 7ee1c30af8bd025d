package appointment

// Read-side helpers for the console. None of them mutate state.

func (s *Service) Patient(id string) (Patient, error) { return s.repo.GetPatient(id) }
func (s *Service) Doctor(id string) (Doctor, error)   { return s.repo.GetDoctor(id) }
func (s *Service) Slot(id string) (ScheduleSlot, error) {
	return s.repo.GetSlot(id)
}
func (s *Service) Appointment(id string) (Appointment, error) {
	return s.repo.GetAppointment(id)
}

func (s *Service) Doctors() []Doctor { return s.repo.AllDoctors() }

// DoctorsWithAvailability lists every doctor with their open slots; doctors without open slots
// are included with an empty list.
func (s *Service) DoctorsWithAvailability() []DoctorAvailability {
	doctors := s.repo.AllDoctors()
	out := make([]DoctorAvailability, 0, len(doctors))
	for _, d := range doctors {
		var open []ScheduleSlot
		for _, sl := range s.repo.SlotsForDoctor(d.ID) {
			if sl.Available {
				open = append(open, sl)
			}
		}
		out = append(out, DoctorAvailability{Doctor: d, Slots: open})
	}
	return out
}

// DoctorSchedule lists all of a doctor's slots, booked or not.
func (s *Service) DoctorSchedule(doctorID string) ([]ScheduleSlot, error) {
	if _, err := s.repo.GetDoctor(doctorID); err != nil {
		return nil, err
	}
	return s.repo.SlotsForDoctor(doctorID), nil
}

func (s *Service) DoctorAppointments(doctorID string) ([]Appointment, error) {
	if _, err := s.repo.GetDoctor(doctorID); err != nil {
		return nil, err
	}
	return s.repo.AppointmentsForDoctor(doctorID), nil
}

func (s *Service) PatientAppointments(patientID string) ([]Appointment, error) {
	if _, err := s.repo.GetPatient(patientID); err != nil {
		return nil, err
	}
	return s.repo.AppointmentsForPatient(patientID), nil
}

// ConsultationHistory returns the patient's records joined with appointment, slot and doctor.
func (s *Service) ConsultationHistory(patientID string) ([]HistoryEntry, error) {
	if _, err := s.repo.GetPatient(patientID); err != nil {
		return nil, err
	}

	records := s.repo.ConsultationHistoryForPatient(patientID)
	out := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		entry := HistoryEntry{Record: r}
		if a, err := s.repo.GetAppointment(r.AppointmentID); err == nil {
			entry.Appointment = a
			if sl, err := s.repo.GetSlot(a.SlotID); err == nil {
				entry.Slot = sl
				if d, err := s.repo.GetDoctor(sl.DoctorID); err == nil {
					entry.DoctorName = d.Name
				}
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *Service) PatientSummaries() []PatientSummary {
	patients := s.repo.AllPatients()
	out := make([]PatientSummary, 0, len(patients))
	for _, p := range patients {
		out = append(out, PatientSummary{
			Patient:       p,
			Appointments:  len(s.repo.AppointmentsForPatient(p.ID)),
			Consultations: len(s.repo.ConsultationHistoryForPatient(p.ID)),
		})
	}
	return out
}
