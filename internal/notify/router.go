package notify

import (
	"context"
	"fmt"
	"log"
)

// DomainRouter sends Microsoft-hosted recipients through Microsoft and
// everyone else through Default.  When the chosen provider fails the message
// is retried once through Fallback.
type DomainRouter struct {
	Default   Provider
	Microsoft Provider // nil means Default
	Fallback  Provider // nil disables the retry
	Logger    *log.Logger
}

func (r *DomainRouter) pick(to string) Provider {
	if r.Microsoft != nil && IsMicrosoft(to) {
		return r.Microsoft
	}
	return r.Default
}

func (r *DomainRouter) Send(ctx context.Context, e Email) error {
	p := r.pick(e.To)
	if p == nil {
		p = r.Fallback
	}
	if p == nil {
		return ErrNotConfigured
	}
	err := p.Send(ctx, e)
	if err == nil || r.Fallback == nil || p == r.Fallback {
		return err
	}
	r.logf("email: primary send to %s failed: %v; using fallback", e.To, err)
	if ferr := r.Fallback.Send(ctx, e); ferr != nil {
		return fmt.Errorf("send %q: %w (fallback: %v)", e.Subject, err, ferr)
	}
	return nil
}

func (r *DomainRouter) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
