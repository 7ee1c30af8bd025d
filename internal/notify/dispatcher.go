package notify

import (
	"context"
	"fmt"
	"io"
	netmail "net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

// Dispatcher prints every message on its channel and, for email, also hands it to
// an EmailSender when one is configured. Delivery never fails the caller.
type Dispatcher struct {
	out     io.Writer
	email   EmailSender
	timeout time.Duration
	logger  *logging.Logger
}

// NewDispatcher builds a dispatcher writing to out. email may be nil.
func NewDispatcher(out io.Writer, email EmailSender, timeout time.Duration, logger *logging.Logger) *Dispatcher {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		out:     out,
		email:   email,
		timeout: timeout,
		logger:  logger,
	}
}

// Deliver sends message to recipient through ch.
func (d *Dispatcher) Deliver(ctx context.Context, ch Channel, recipient, message string) {
	deliveryID := uuid.NewString()
	log := d.logger.With("delivery_id", deliveryID, "channel", string(ch), "recipient", recipient)

	if !ch.Valid() {
		log.Error("notify: unknown channel, message dropped")
		return
	}

	if _, err := fmt.Fprintf(d.out, "[%s] Sending to %s: %s\n", ch.Label(), recipient, message); err != nil {
		log.Error("notify: console delivery failed", "error", err)
	}

	if ch == ChannelEmail && d.email != nil {
		// Doctors are addressed by name, which no mail provider accepts.
		if _, err := netmail.ParseAddress(recipient); err != nil {
			log.Debug("notify: recipient is not an email address, console only")
			return
		}

		sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		if err := d.email.Send(sendCtx, appointmentEmail(recipient, deliveryID, message)); err != nil {
			log.Error("notify: email delivery failed", "error", err)
			return
		}
	}

	log.Info("notification delivered")
}
