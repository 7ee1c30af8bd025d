package main

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/notify"
	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	logger := logging.New(cfg.LogLevel).With("app", "seed")

	files, err := db.OpenDataDir(cfg.DataDir)
	if err != nil {
		log.Fatalf("data dir error: %v", err)
	}
	store, err := appointment.OpenStore(files, appointment.WithLogger(logger))
	if err != nil {
		log.Fatalf("load store: %v", err)
	}

	// Seeding creates no appointments, so nothing is ever delivered.
	dispatcher := notify.NewDispatcher(io.Discard, nil, cfg.NotifyTimeout, logger)
	svc := appointment.NewService(store, dispatcher, logger)

	gofakeit.Seed(time.Now().UnixNano())

	doctors, err := seedDoctors(svc, cfg.SeedDoctors)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedSlots(svc, doctors, cfg.SeedSlotsPerDoctor, time.Now()); err != nil {
		log.Fatalf("seed slots: %v", err)
	}
	if err := seedPatients(context.Background(), svc, cfg.SeedPatients); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Printf("seed complete, counters now %v", store.Counters())
}

func seedDoctors(svc *appointment.Service, count int) ([]appointment.Doctor, error) {
	log.Printf("seeding %d doctors", count)

	doctors := make([]appointment.Doctor, 0, count)
	for i := 0; i < count; i++ {
		name := "Dr. " + gofakeit.Name()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		d, err := svc.CreateDoctor(name, spec)
		if errors.Is(err, appointment.ErrInvalidField) {
			continue
		}
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}

	log.Println("doctors seeded")
	return doctors, nil
}

// seedSlots gives each doctor perDoctor hour-long slots on the working days after from.
func seedSlots(svc *appointment.Service, doctors []appointment.Doctor, perDoctor int, from time.Time) error {
	log.Printf("seeding %d slots for each of %d doctors", perDoctor, len(doctors))

	for _, d := range doctors {
		day := appointment.DateOf(from)
		for n := 0; n < perDoctor; {
			day = day.AddDate(0, 0, 1)
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			hour := gofakeit.Number(8, 16)
			if _, err := svc.AddSlot(d.ID, day, appointment.NewClock(hour, 0), appointment.NewClock(hour+1, 0)); err != nil {
				return err
			}
			n++
		}
	}

	log.Println("slots seeded")
	return nil
}

func seedPatients(ctx context.Context, svc *appointment.Service, count int) error {
	log.Printf("seeding %d patients", count)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		addr := gofakeit.Address()
		_, err := svc.RegisterPatient(gofakeit.Name(), gofakeit.Email(), gofakeit.Phone(), addr.Street+", "+addr.City)
		if errors.Is(err, appointment.ErrInvalidField) {
			continue
		}
		if err != nil {
			return err
		}

		if (i+1)%100 == 0 {
			log.Printf("patients seeded: %d/%d", i+1, count)
		}
	}

	log.Println("patients seeded")
	return nil
}
