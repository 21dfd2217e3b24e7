package notify

import (
	"context"
	"strconv"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// Message is the content mailed to every recipient.
type Message struct {
	From    Recipient
	Subject string
	HTML    string
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, msg Message, to Recipient) error
}

// SendGridSender sends through the SendGrid v3 API with all tracking disabled.
type SendGridSender struct {
	client *sendgrid.Client
}

// NewSendGridSender creates a sender authenticated with apiKey.
func NewSendGridSender(apiKey string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey)}
}

// BuildMail assembles the SendGrid payload for msg and to.
func BuildMail(msg Message, to Recipient) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(msg.From.Name, msg.From.Email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(to.Name, to.Email))
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/html", msg.HTML))

	ts := mail.NewTrackingSettings()
	ts.SetClickTracking(mail.NewClickTrackingSetting().SetEnable(false).SetEnableText(false))
	ts.SetOpenTracking(mail.NewOpenTrackingSetting().SetEnable(false))
	ts.SetSubscriptionTracking(mail.NewSubscriptionTrackingSetting().SetEnable(false))
	m.SetTrackingSettings(ts)
	return m
}

// Send implements Sender.
func (s *SendGridSender) Send(ctx context.Context, msg Message, to Recipient) error {
	resp, err := s.client.SendWithContext(ctx, BuildMail(msg, to))
	if err != nil {
		return errors.DeliveryError("send failed").
			WithCause(err).
			WithContext("recipient", to.Email).
			Build()
	}
	if resp.StatusCode >= 300 {
		return errors.DeliveryError("send rejected").
			WithContext("recipient", to.Email).
			WithContext("status", strconv.Itoa(resp.StatusCode)).
			WithContext("body", resp.Body).
			Build()
	}
	return nil
}
