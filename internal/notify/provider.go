// Package notify renders and delivers the reservation emails.  Delivery goes
// through a Provider; DomainRouter picks one per recipient.
package notify

import (
	"context"
	"errors"
	"log"
	"strings"
)

// Email is a rendered message ready for delivery.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Provider delivers a single Email.
type Provider interface {
	Send(ctx context.Context, e Email) error
}

// ErrNotConfigured is returned by providers missing their credentials.
var ErrNotConfigured = errors.New("email provider not configured")

// Domain returns the lower-cased domain part of an address, or "" when the
// address has no '@'.
func Domain(addr string) string {
	i := strings.LastIndexByte(addr, '@')
	if i < 0 || i == len(addr)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr[i+1:]))
}

var microsoftMarkers = []string{"outlook", "hotmail", "live", "msn"}

// IsMicrosoft reports whether addr belongs to a Microsoft consumer mail domain.
func IsMicrosoft(addr string) bool {
	d := Domain(addr)
	for _, m := range microsoftMarkers {
		if strings.Contains(d, m) {
			return true
		}
	}
	return false
}

// LogProvider writes the message to the log instead of sending it, so the
// owner can follow up by hand.
type LogProvider struct {
	Logger *log.Logger
}

func (p LogProvider) Send(_ context.Context, e Email) error {
	l := p.Logger
	if l == nil {
		l = log.Default()
	}
	body := e.Text
	if body == "" {
		body = "(html only)"
	}
	l.Printf("email: to=%s subject=%q\n%s", e.To, e.Subject, body)
	return nil
}
