package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/notify"
)

func TestAttachIsIdempotent(t *testing.T) {
	a := NewAppointment("A001", "P001", "S001", time.Now())

	assert.True(t, a.Attach(PatientRef("P001")))
	assert.True(t, a.Attach(DoctorRef("D001")))
	assert.False(t, a.Attach(PatientRef("P001")))

	assert.Equal(t, []ObserverRef{PatientRef("P001"), DoctorRef("D001")}, a.Observers())
}

func TestDetach(t *testing.T) {
	a := NewAppointment("A001", "P001", "S001", time.Now())
	a.Attach(PatientRef("P001"))
	a.Attach(DoctorRef("D001"))

	a.Detach(DoctorRef("D009"))
	assert.Len(t, a.Observers(), 2)

	a.Detach(PatientRef("P001"))
	a.Detach(PatientRef("P001"))
	assert.Equal(t, []ObserverRef{DoctorRef("D001")}, a.Observers())
}

func TestObserversDoNotAliasCopies(t *testing.T) {
	a := NewAppointment("A001", "P001", "S001", time.Now())
	a.Attach(PatientRef("P001"))

	b := a.clone()
	b.Attach(DoctorRef("D001"))

	assert.Len(t, a.Observers(), 1)
	assert.Len(t, b.Observers(), 2)
}

func TestTransition(t *testing.T) {
	a := NewAppointment("A001", "P001", "S001", time.Now())
	require.Equal(t, StatusBooked, a.Status)

	assert.ErrorIs(t, a.Transition(StatusBooked), ErrInvalidStatusTransition)
	require.NoError(t, a.Transition(StatusCompleted))
	assert.Equal(t, StatusCompleted, a.Status)
	assert.ErrorIs(t, a.Transition(StatusCompleted), ErrAppointmentCompleted)
	assert.ErrorIs(t, a.Transition(StatusBooked), ErrAppointmentCompleted)
}

func TestNewAppointmentTruncatesBookingDate(t *testing.T) {
	a := NewAppointment("A001", "P001", "S001", time.Date(2026, 10, 19, 17, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), a.BookingDate)
}

func TestContactFor(t *testing.T) {
	p := Patient{Email: "rina@example.com", Phone: "0812"}
	assert.Equal(t, "rina@example.com", p.ContactFor(notify.ChannelEmail))
	assert.Equal(t, "0812", p.ContactFor(notify.ChannelSMS))
	assert.Equal(t, "0812", p.ContactFor(notify.ChannelWhatsApp))

	noPhone := Patient{Email: "andi@example.com"}
	assert.Equal(t, "andi@example.com", noPhone.ContactFor(notify.ChannelSMS))

	d := Doctor{Name: "Dr. Siti Rahma"}
	assert.Equal(t, "Dr. Siti Rahma", d.ContactFor(notify.ChannelEmail))
}
