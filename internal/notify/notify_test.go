package notify

import (
	"context"
	"errors"
	"io"
	"log"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/booking"
	"github.com/iliyamo/glamping-reservation/internal/model"
)

type captureProvider struct {
	sent []Email
	err  error
}

func (p *captureProvider) Send(_ context.Context, e Email) error {
	p.sent = append(p.sent, e)
	return p.err
}

func sampleReservation(t *testing.T, email string) (model.Reservation, model.Cabin) {
	t.Helper()
	in, _ := model.ParseDate("2024-06-14")
	out, _ := model.ParseDate("2024-06-16")
	r := model.Reservation{
		ID:               7,
		CabinID:          1,
		GuestName:        "Ana <Gómez>",
		GuestEmail:       email,
		GuestPhone:       "+57 300 123 4567",
		CheckIn:          in,
		CheckOut:         out,
		Guests:           2,
		TotalPrice:       900000,
		Status:           model.StatusPending,
		ConfirmationCode: "A1B2C3D4",
	}
	return r, model.Cabin{ID: 1, Name: "Cabaña Principal"}
}

func newTestMailer(p Provider) *Mailer {
	return NewMailer(p, MailerConfig{
		Brand:      "Montesereno Glamping",
		OwnerEmail: "owner@example.com",
		Payment: booking.PaymentDetails{
			DepositPercent: 50,
			Holder:         "TITULAR",
			Accounts:       []string{"BANCOLOMBIA - Ahorros: 0001"},
			Nequi:          "3000000000",
			WhatsApp:       "+57 313 000 0000",
		},
	})
}

func TestDomainAndMicrosoft(t *testing.T) {
	cases := []struct {
		addr   string
		domain string
		ms     bool
	}{
		{"guest@Gmail.com", "gmail.com", false},
		{"guest@outlook.com", "outlook.com", true},
		{"guest@hotmail.es", "hotmail.es", true},
		{"guest@live.com.co", "live.com.co", true},
		{"guest@msn.com", "msn.com", true},
		{"no-at-sign", "", false},
		{"trailing@", "", false},
	}
	for _, c := range cases {
		if got := Domain(c.addr); got != c.domain {
			t.Errorf("Domain(%q) = %q, want %q", c.addr, got, c.domain)
		}
		if got := IsMicrosoft(c.addr); got != c.ms {
			t.Errorf("IsMicrosoft(%q) = %v, want %v", c.addr, got, c.ms)
		}
	}
}

func TestLongDate(t *testing.T) {
	d, _ := model.ParseDate("2024-06-15")
	if got := LongDate(d); got != "sábado, 15 de junio de 2024" {
		t.Fatalf("LongDate = %q", got)
	}
}

func TestMailerSubjectsAndRecipients(t *testing.T) {
	p := &captureProvider{}
	m := newTestMailer(p)
	r, c := sampleReservation(t, "ana@gmail.com")
	ctx := context.Background()

	if err := m.GuestReceived(ctx, r, c); err != nil {
		t.Fatal(err)
	}
	if err := m.OwnerNotified(ctx, r, c); err != nil {
		t.Fatal(err)
	}
	if err := m.GuestConfirmed(ctx, r, c); err != nil {
		t.Fatal(err)
	}
	if err := m.GuestExpired(ctx, r, c); err != nil {
		t.Fatal(err)
	}

	want := []struct{ to, subject string }{
		{"ana@gmail.com", "Reserva Recibida - A1B2C3D4 - Montesereno Glamping"},
		{"owner@example.com", "Nueva Reserva Pendiente - A1B2C3D4"},
		{"ana@gmail.com", "¡Reserva Confirmada! - A1B2C3D4 - Montesereno Glamping"},
		{"ana@gmail.com", "Reserva Expirada - A1B2C3D4 - Montesereno Glamping"},
	}
	if len(p.sent) != len(want) {
		t.Fatalf("sent %d emails, want %d", len(p.sent), len(want))
	}
	for i, w := range want {
		if p.sent[i].To != w.to || p.sent[i].Subject != w.subject {
			t.Errorf("email %d = (%s, %q), want (%s, %q)", i, p.sent[i].To, p.sent[i].Subject, w.to, w.subject)
		}
	}
}

func TestReceivedBody(t *testing.T) {
	m := newTestMailer(&captureProvider{})
	r, c := sampleReservation(t, "ana@gmail.com")
	html, err := m.Render("received", r, c)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		"A1B2C3D4",
		"$900.000 COP",
		"$450.000 COP",
		"viernes, 14 de junio de 2024",
		"BANCOLOMBIA - Ahorros: 0001",
		"https://wa.me/573130000000",
		"Ana &lt;Gómez&gt;",
		"24 horas",
	} {
		if !strings.Contains(html, s) {
			t.Errorf("received email missing %q", s)
		}
	}
	if strings.Contains(html, "Ana <Gómez>") {
		t.Error("guest name was not escaped")
	}
}

func TestReceivedFormalForMicrosoft(t *testing.T) {
	m := newTestMailer(&captureProvider{})
	r, c := sampleReservation(t, "ana@hotmail.com")
	html, err := m.Render("received", r, c)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Estimado/a") {
		t.Error("microsoft recipients should get the formal copy")
	}
}

func TestConfirmedBalance(t *testing.T) {
	m := newTestMailer(&captureProvider{})
	r, c := sampleReservation(t, "ana@gmail.com")
	r.TotalPrice = 350001
	html, err := m.Render("confirmed", r, c)
	if err != nil {
		t.Fatal(err)
	}
	// deposit rounds half up to 175.001, leaving 175.000
	if !strings.Contains(html, "$175.000 COP (se paga al momento del check-in)") {
		t.Error("balance line missing or wrong")
	}
}

func TestOwnerWithoutAddressFails(t *testing.T) {
	p := &captureProvider{}
	m := NewMailer(p, MailerConfig{})
	r, c := sampleReservation(t, "ana@gmail.com")
	if err := m.OwnerNotified(context.Background(), r, c); err == nil {
		t.Fatal("expected error for missing owner address")
	}
	if len(p.sent) != 0 {
		t.Fatal("nothing should have been sent")
	}
}

func TestDomainRouter(t *testing.T) {
	quiet := log.New(io.Discard, "", 0)

	t.Run("routes microsoft domains", func(t *testing.T) {
		def, ms := &captureProvider{}, &captureProvider{}
		r := &DomainRouter{Default: def, Microsoft: ms, Logger: quiet}
		_ = r.Send(context.Background(), Email{To: "a@outlook.com"})
		_ = r.Send(context.Background(), Email{To: "b@gmail.com"})
		if len(ms.sent) != 1 || ms.sent[0].To != "a@outlook.com" {
			t.Errorf("microsoft provider got %v", ms.sent)
		}
		if len(def.sent) != 1 || def.sent[0].To != "b@gmail.com" {
			t.Errorf("default provider got %v", def.sent)
		}
	})

	t.Run("falls back once", func(t *testing.T) {
		def := &captureProvider{err: errors.New("down")}
		fb := &captureProvider{}
		r := &DomainRouter{Default: def, Fallback: fb, Logger: quiet}
		if err := r.Send(context.Background(), Email{To: "b@gmail.com"}); err != nil {
			t.Fatalf("fallback should have absorbed the error: %v", err)
		}
		if len(fb.sent) != 1 {
			t.Fatalf("fallback sent %d", len(fb.sent))
		}
	})

	t.Run("both fail", func(t *testing.T) {
		def := &captureProvider{err: errors.New("down")}
		fb := &captureProvider{err: errors.New("also down")}
		r := &DomainRouter{Default: def, Fallback: fb, Logger: quiet}
		if err := r.Send(context.Background(), Email{To: "b@gmail.com"}); err == nil {
			t.Fatal("expected error")
		}
		if len(def.sent) != 1 || len(fb.sent) != 1 {
			t.Fatalf("attempts: default %d, fallback %d", len(def.sent), len(fb.sent))
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		r := &DomainRouter{}
		if err := r.Send(context.Background(), Email{To: "b@gmail.com"}); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestSMTPProviderBuildsMessage(t *testing.T) {
	var gotAddr string
	var gotMsg []byte
	p := NewSMTPProvider("smtp.example.com", 0, "user", "pass", "from@example.com", "Montesereno Glamping")
	p.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotMsg = addr, msg
		if from != "from@example.com" || len(to) != 1 || to[0] != "guest@example.com" {
			t.Errorf("envelope from=%s to=%v", from, to)
		}
		return nil
	}
	err := p.Send(context.Background(), Email{To: "guest@example.com", Subject: "¡Reserva Confirmada!", HTML: "<p>hola</p>"})
	if err != nil {
		t.Fatal(err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %s", gotAddr)
	}
	msg := string(gotMsg)
	for _, s := range []string{"To: guest@example.com\r\n", "Subject: =?utf-8?b?", "Content-Type: text/html; charset=utf-8\r\n\r\n<p>hola</p>"} {
		if !strings.Contains(msg, s) {
			t.Errorf("message missing %q:\n%s", s, msg)
		}
	}
}

func TestSMTPProviderHonoursContext(t *testing.T) {
	p := NewSMTPProvider("smtp.example.com", 25, "", "", "from@example.com", "")
	block := make(chan struct{})
	defer close(block)
	p.send = func(string, smtp.Auth, string, []string, []byte) error { <-block; return nil }
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Send(ctx, Email{To: "x@example.com"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestUnconfiguredProviders(t *testing.T) {
	if NewSendGridProvider("", "a@b.c", "x") != nil {
		t.Error("sendgrid without key should be nil")
	}
	if NewSMTPProvider("", 0, "", "", "", "") != nil {
		t.Error("smtp without host should be nil")
	}
	var sg *SendGridProvider
	if err := sg.Send(context.Background(), Email{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("nil sendgrid err = %v", err)
	}
}

func TestSendGridMessage(t *testing.T) {
	p := NewSendGridProvider("SG.key", "owner@example.com", "Montesereno Glamping")
	m := p.message(Email{To: "guest@hotmail.com", Subject: "Hola", HTML: "<p>x</p>"})
	if m.Subject != "Hola" || m.From.Address != "owner@example.com" {
		t.Fatalf("subject/from = %q / %q", m.Subject, m.From.Address)
	}
	if len(m.Content) != 2 || m.Content[0].Type != "text/plain" || m.Content[1].Type != "text/html" {
		t.Fatalf("content = %+v", m.Content)
	}
	if len(m.Categories) == 0 {
		t.Error("microsoft recipients should be categorised")
	}
	if got := m.Personalizations[0].CustomArgs["domain_type"]; got != "microsoft" {
		t.Errorf("custom arg = %q", got)
	}
}
