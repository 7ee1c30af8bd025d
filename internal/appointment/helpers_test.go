package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/notify"
	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

var testNow = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := OpenStore(db.NewLayout(dir), WithLogger(logging.Discard()), WithClock(fixedClock))
	require.NoError(t, err)
	return s
}

type delivery struct {
	channel   notify.Channel
	recipient string
	message   string
}

type recordingNotifier struct {
	deliveries []delivery
}

func (r *recordingNotifier) Deliver(_ context.Context, ch notify.Channel, recipient, message string) {
	r.deliveries = append(r.deliveries, delivery{channel: ch, recipient: recipient, message: message})
}

func newTestService(t *testing.T, s *Store) (*Service, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	svc := NewService(s, n, logging.Discard())
	svc.now = fixedClock
	return svc, n
}

func withoutObservers(as []Appointment) []Appointment {
	out := make([]Appointment, len(as))
	for i, a := range as {
		a.observers = nil
		out[i] = a
	}
	return out
}
