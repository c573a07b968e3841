package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"time"
)

// SMTPProvider sends through a plain SMTP relay with PLAIN auth.
type SMTPProvider struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPProvider returns nil when host is empty.
func NewSMTPProvider(host string, port int, user, pass, from, fromName string) *SMTPProvider {
	if host == "" {
		return nil
	}
	if port == 0 {
		port = 587
	}
	return &SMTPProvider{Host: host, Port: port, Username: user, Password: pass, From: from, FromName: fromName, send: smtp.SendMail}
}

func (p *SMTPProvider) Send(ctx context.Context, e Email) error {
	if p == nil || p.Host == "" {
		return ErrNotConfigured
	}
	var auth smtp.Auth
	if p.Username != "" {
		auth = smtp.PlainAuth("", p.Username, p.Password, p.Host)
	}
	addr := net.JoinHostPort(p.Host, fmt.Sprint(p.Port))
	msg := p.build(e, time.Now())

	done := make(chan error, 1)
	go func() { done <- p.send(addr, auth, p.From, []string{e.To}, msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *SMTPProvider) build(e Email, now time.Time) []byte {
	var b bytes.Buffer
	from := p.From
	if p.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", p.FromName), p.From)
	}
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", p.From)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.BEncoding.Encode("utf-8", e.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	body := e.HTML
	ctype := "text/html"
	if body == "" {
		body, ctype = e.Text, "text/plain"
	}
	fmt.Fprintf(&b, "Content-Type: %s; charset=utf-8\r\n\r\n", ctype)
	b.WriteString(body)
	return b.Bytes()
}
