package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/hackgods/clinic-scheduling/pkg/logging"
)

const (
	emailCategory       = "clinic-appointment"
	defaultEmailSubject = "Clinic appointment update"
)

// EmailSender sends one clinic notification email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is an appointment notification addressed to a patient's email address.
// DeliveryID ties the provider's event stream back to the dispatcher log line.
type EmailMessage struct {
	To         string
	Subject    string
	Body       string
	DeliveryID string
}

// appointmentEmail wraps a notification text in the clinic's email layout. The subject
// follows the kind of event the text announces.
func appointmentEmail(to, deliveryID, text string) EmailMessage {
	subject := defaultEmailSubject
	switch {
	case strings.HasPrefix(text, "Booking confirmed"):
		subject = "Your clinic appointment is booked"
	case strings.HasPrefix(text, "Appointment status changed"):
		subject = "Your clinic appointment has been updated"
	}
	return EmailMessage{
		To:         to,
		Subject:    subject,
		Body:       text + "\n\nPlease arrive ten minutes before your slot.",
		DeliveryID: deliveryID,
	}
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender delivers clinic emails through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *logging.Logger
}

func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("notify: sendgrid api key is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("notify: sendgrid sender address is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Clinic Scheduling"
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger.With("component", "sendgrid"),
	}, nil
}

func (s *SendGridSender) buildMail(msg EmailMessage) *mail.SGMailV3 {
	htmlBody := "<p>" + strings.ReplaceAll(html.EscapeString(msg.Body), "\n", "<br>") + "</p>"

	m := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail("", msg.To), msg.Body, htmlBody)
	m.AddCategories(emailCategory)
	if msg.DeliveryID != "" {
		m.Personalizations[0].SetCustomArg("delivery_id", msg.DeliveryID)
	}
	return m
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return errors.New("notify: sendgrid client not configured")
	}

	resp, err := s.client.SendWithContext(ctx, s.buildMail(msg))
	if err != nil {
		return fmt.Errorf("notify: sendgrid send to %s: %w", msg.To, err)
	}
	if resp.StatusCode/100 != 2 {
		s.logger.Error("sendgrid rejected message", "status", resp.StatusCode, "body", resp.Body, "delivery_id", msg.DeliveryID)
		return fmt.Errorf("notify: sendgrid status %d for %s", resp.StatusCode, msg.To)
	}

	s.logger.Debug("email accepted", "delivery_id", msg.DeliveryID, "status", resp.StatusCode)
	return nil
}
