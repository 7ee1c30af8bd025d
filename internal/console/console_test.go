package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/notify"
	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

func newTestApp(t *testing.T, script ...string) (*App, *appointment.Store, *bytes.Buffer) {
	t.Helper()

	store, err := appointment.OpenStore(db.NewLayout(t.TempDir()), appointment.WithLogger(logging.Discard()))
	require.NoError(t, err)

	var out bytes.Buffer
	dispatcher := notify.NewDispatcher(&out, nil, time.Second, logging.Discard())
	svc := appointment.NewService(store, dispatcher, logging.Discard())

	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	return New(svc, in, &out, logging.Discard()), store, &out
}

func TestRunBookAndCompleteFlow(t *testing.T) {
	app, store, out := newTestApp(t,
		"1", "1", "Rina", "rina@example.com", "0812", "Jl. Merdeka 1",
		"2", "P001", "1",
		"2", "S001",
		"6", "3",
		"2", "D001", "1",
		"5", "A001", "Flu", "Rest",
		"7",
		"4",
	)

	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Registered. Your patient ID is P001.")
	assert.Contains(t, text, "Booked appointment A001.")
	assert.Contains(t, text, "[EMAIL] Sending to rina@example.com: Booking confirmed! Appointment ID: A001 with Dr. Ahmad Yani")
	assert.Contains(t, text, "Consultation recorded as H001.")
	assert.Contains(t, text, "[SMS] Sending to Dr. Ahmad Yani: Appointment status changed to: Completed")
	assert.Contains(t, text, "Goodbye.")

	appt, err := store.GetAppointment("A001")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, appt.Status)

	slot, err := store.GetSlot("S001")
	require.NoError(t, err)
	assert.False(t, slot.Available)
}

func TestRunReportsRejectedBooking(t *testing.T) {
	app, _, out := newTestApp(t,
		"1", "1", "Rina", "rina@example.com", "0812", "Jl. Merdeka 1",
		"2", "P001", "1",
		"2", "S001",
		"2", "S001",
		"2", "S999",
		"6", "3", "4",
	)

	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Equal(t, 1, strings.Count(text, "Booked appointment"))
	assert.Contains(t, text, "Rejected: slot is already booked")
	assert.Contains(t, text, "Rejected: slot not found")
}

func TestAddSlotRepromptsOnMalformedInput(t *testing.T) {
	app, store, out := newTestApp(t,
		"2", "D001", "1",
		"2", "31-02-2026", "09:00", "10:00",
		"20-10-2026", "9am", "10:00",
		"20-10-2026", "09:00", "10:00",
		"7", "4",
	)

	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.Equal(t, 2, strings.Count(text, "Invalid input:"))
	assert.Contains(t, text, "Added slot S005.")

	slot, err := store.GetSlot("S005")
	require.NoError(t, err)
	assert.Equal(t, "D001", slot.DoctorID)
	assert.Equal(t, appointment.NewClock(9, 0), slot.Start)
	assert.True(t, slot.Available)
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	app, _, out := newTestApp(t, "1", "2")

	require.NoError(t, app.Run(context.Background()))
	assert.NotContains(t, out.String(), "Goodbye.")
}

func TestRunIgnoresInvalidChoices(t *testing.T) {
	app, _, out := newTestApp(t, "9", "abc", "4")

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid choice."))
	assert.Contains(t, out.String(), "Goodbye.")
}

func TestUnknownLoginIsReported(t *testing.T) {
	app, _, out := newTestApp(t, "2", "D404", "1", "2", "P404", "3", "4")

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Rejected: doctor not found")
	assert.Contains(t, out.String(), "Rejected: patient not found")
}
