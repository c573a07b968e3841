package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridProvider delivers through the SendGrid v3 API.
type SendGridProvider struct {
	client   *sendgrid.Client
	from     *mail.Email
	mailerID string
}

// NewSendGridProvider returns nil when apiKey is empty.
func NewSendGridProvider(apiKey, fromAddr, fromName string) *SendGridProvider {
	if apiKey == "" {
		return nil
	}
	return &SendGridProvider{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromAddr),
		mailerID: fromName + " Reservation System",
	}
}

func (p *SendGridProvider) Send(ctx context.Context, e Email) error {
	if p == nil || p.client == nil {
		return ErrNotConfigured
	}
	resp, err := p.client.SendWithContext(ctx, p.message(e))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// message builds a transactional message with tracking switched off.
// Microsoft recipients get extra categories, which keeps them out of the
// junk folder more often.
func (p *SendGridProvider) message(e Email) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(p.from)
	m.SetReplyTo(p.from)
	m.Subject = e.Subject

	pers := mail.NewPersonalization()
	pers.AddTos(mail.NewEmail("", e.To))
	m.AddPersonalizations(pers)

	text := e.Text
	if text == "" {
		text = e.Subject
	}
	m.AddContent(mail.NewContent("text/plain", text))
	if e.HTML != "" {
		m.AddContent(mail.NewContent("text/html", e.HTML))
	}

	m.SetHeader("X-Mailer", p.mailerID)
	m.SetHeader("X-Priority", "3")

	ts := mail.NewTrackingSettings()
	ts.SetClickTracking(mail.NewClickTrackingSetting().SetEnable(false).SetEnableText(false))
	ts.SetOpenTracking(mail.NewOpenTrackingSetting().SetEnable(false))
	ts.SetSubscriptionTracking(mail.NewSubscriptionTrackingSetting().SetEnable(false))
	m.SetTrackingSettings(ts)

	if IsMicrosoft(e.To) {
		m.AddCategories("transactional", "reservation")
		pers.SetCustomArg("message_type", "reservation")
		pers.SetCustomArg("domain_type", "microsoft")
	}
	return m
}
