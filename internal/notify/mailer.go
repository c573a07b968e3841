package notify

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/booking"
	"github.com/iliyamo/glamping-reservation/internal/model"
)

// Mailer renders the lifecycle emails and hands them to a Provider.  It
// implements booking.Notifier.
type Mailer struct {
	provider Provider
	brand    string
	location string
	owner    string
	adminURL string
	hold     time.Duration
	payment  booking.PaymentDetails
}

// MailerConfig is the copy and addressing used by a Mailer.
type MailerConfig struct {
	Brand      string
	Location   string
	OwnerEmail string
	AdminURL   string
	Hold       time.Duration
	Payment    booking.PaymentDetails
}

func NewMailer(p Provider, cfg MailerConfig) *Mailer {
	if cfg.Brand == "" {
		cfg.Brand = "Montesereno Glamping"
	}
	if cfg.Hold <= 0 {
		cfg.Hold = 24 * time.Hour
	}
	if cfg.Payment.DepositPercent <= 0 {
		cfg.Payment.DepositPercent = 50
	}
	return &Mailer{
		provider: p,
		brand:    cfg.Brand,
		location: cfg.Location,
		owner:    cfg.OwnerEmail,
		adminURL: cfg.AdminURL,
		hold:     cfg.Hold,
		payment:  cfg.Payment,
	}
}

type mailData struct {
	R         model.Reservation
	C         model.Cabin
	Brand     string
	Location  string
	AdminURL  string
	HoldHours int
	Percent   int
	Deposit   int64
	Balance   int64
	Pay       booking.PaymentDetails
	Formal    bool
}

func (m *Mailer) data(r model.Reservation, c model.Cabin) mailData {
	deposit := booking.Deposit(r.TotalPrice, m.payment.DepositPercent)
	return mailData{
		R:         r,
		C:         c,
		Brand:     m.brand,
		Location:  m.location,
		AdminURL:  m.adminURL,
		HoldHours: int(m.hold / time.Hour),
		Percent:   m.payment.DepositPercent,
		Deposit:   deposit,
		Balance:   r.TotalPrice - deposit,
		Pay:       m.payment,
		Formal:    IsMicrosoft(r.GuestEmail),
	}
}

// Render executes the named template for a reservation.
func (m *Mailer) Render(name string, r model.Reservation, c model.Cabin) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, m.data(r, c)); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (m *Mailer) send(ctx context.Context, tmpl, to, subject string, r model.Reservation, c model.Cabin) error {
	if to == "" {
		return fmt.Errorf("%s: empty recipient", tmpl)
	}
	html, err := m.Render(tmpl, r, c)
	if err != nil {
		return err
	}
	return m.provider.Send(ctx, Email{To: to, Subject: subject, HTML: html})
}

func (m *Mailer) GuestReceived(ctx context.Context, r model.Reservation, c model.Cabin) error {
	subject := fmt.Sprintf("Reserva Recibida - %s - %s", r.ConfirmationCode, m.brand)
	return m.send(ctx, "received", r.GuestEmail, subject, r, c)
}

func (m *Mailer) GuestConfirmed(ctx context.Context, r model.Reservation, c model.Cabin) error {
	subject := fmt.Sprintf("¡Reserva Confirmada! - %s - %s", r.ConfirmationCode, m.brand)
	return m.send(ctx, "confirmed", r.GuestEmail, subject, r, c)
}

func (m *Mailer) GuestExpired(ctx context.Context, r model.Reservation, c model.Cabin) error {
	subject := fmt.Sprintf("Reserva Expirada - %s - %s", r.ConfirmationCode, m.brand)
	return m.send(ctx, "expired", r.GuestEmail, subject, r, c)
}

func (m *Mailer) OwnerNotified(ctx context.Context, r model.Reservation, c model.Cabin) error {
	subject := fmt.Sprintf("Nueva Reserva Pendiente - %s", r.ConfirmationCode)
	return m.send(ctx, "owner", m.owner, subject, r, c)
}

var _ booking.Notifier = (*Mailer)(nil)
