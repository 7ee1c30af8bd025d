package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/notify"
	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

// App is the interactive menu loop. It owns prompting and formatting only; every decision
// is made by the appointment service.
type App struct {
	svc    *appointment.Service
	in     *bufio.Scanner
	out    io.Writer
	logger *logging.Logger
}

func New(svc *appointment.Service, in io.Reader, out io.Writer, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Default()
	}
	return &App{
		svc:    svc,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.With("component", "console", "session_id", uuid.NewString()),
	}
}

// Run drives the main menu until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("console session started")
	defer a.logger.Info("console session ended")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		a.printf("\n=== Clinic Scheduling ===\n1. Patient\n2. Doctor\n3. Directory\n4. Exit\n")
		choice, err := a.choose("Choose: ")
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case 1:
			err = a.patientMenu(ctx)
		case 2:
			err = a.doctorLogin(ctx)
		case 3:
			err = a.directoryMenu()
		case 4:
			a.printf("Goodbye.\n")
			return nil
		default:
			a.printf("Invalid choice.\n")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func (a *App) directoryMenu() error {
	for {
		a.printf("\n--- Directory ---\n1. All doctors\n2. All patients\n3. Back\n")
		choice, err := a.choose("Choose: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			for i, av := range a.svc.DoctorsWithAvailability() {
				a.printf("%d. %s | %s | %s | open slots: %d\n", i+1, av.Doctor.ID, av.Doctor.Name, av.Doctor.Specialization, len(av.Slots))
			}
		case 2:
			summaries := a.svc.PatientSummaries()
			if len(summaries) == 0 {
				a.printf("No patients registered yet.\n")
			}
			for i, s := range summaries {
				a.printf("%d. %s | %s | %s | appointments: %d | consultations: %d\n",
					i+1, s.Patient.ID, s.Patient.Name, s.Patient.Email, s.Appointments, s.Consultations)
			}
		case 3:
			return nil
		default:
			a.printf("Invalid choice.\n")
		}
	}
}

func (a *App) chooseChannel(options []notify.Channel) (notify.Channel, error) {
	a.printf("Notification channel:\n")
	for i, ch := range options {
		a.printf("%d. %s\n", i+1, ch.Label())
	}
	choice, err := a.choose("Choose: ")
	if err != nil {
		return "", err
	}
	if choice < 1 || choice > len(options) {
		a.printf("Using default %s.\n", options[0].Label())
		return options[0], nil
	}
	return options[choice-1], nil
}

func (a *App) printSlot(sl appointment.ScheduleSlot) {
	status := "open"
	if !sl.Available {
		status = "booked"
	}
	a.printf("  [%s] %s | %s - %s | %s\n", sl.ID, appointment.FormatDisplayDate(sl.Date), sl.Start, sl.End, status)
}

// report prints a one-line reason for a rejected operation.
func (a *App) report(err error) {
	var perr *appointment.ParseError
	switch {
	case errors.As(err, &perr):
		a.printf("Invalid input: %v\n", perr.Err)
	case errors.Is(err, appointment.ErrPatientNotFound),
		errors.Is(err, appointment.ErrDoctorNotFound),
		errors.Is(err, appointment.ErrSlotNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, appointment.ErrSlotNotAvailable),
		errors.Is(err, appointment.ErrSlotNotOwned),
		errors.Is(err, appointment.ErrAppointmentNotOwned),
		errors.Is(err, appointment.ErrAppointmentCompleted),
		errors.Is(err, appointment.ErrInvalidTimeRange),
		errors.Is(err, appointment.ErrInvalidField),
		errors.Is(err, appointment.ErrNameRequired):
		a.printf("Rejected: %v\n", err)
	default:
		a.logger.Error("operation failed", "error", err)
		a.printf("Failed: %v\n", err)
	}
}

func (a *App) prompt(label string) (string, error) {
	a.printf("%s", label)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(a.in.Text()), nil
}

// choose reads a menu number; anything unparsable becomes 0, which no menu accepts.
func (a *App) choose(label string) (int, error) {
	s, err := a.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
