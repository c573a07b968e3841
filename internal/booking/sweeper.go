package booking

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically expires pending reservations whose hold has passed.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	logger   *log.Logger
}

// NewSweeper returns a sweeper running every interval (10 minutes when zero).
func NewSweeper(m *Manager, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{manager: m, interval: interval, logger: m.logger}
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	return s.manager.ExpireOverdue(ctx)
}

// Run sweeps on every tick until ctx is cancelled.  Sweep errors are logged
// and the loop keeps going.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.logger.Printf("sweeper: started (every %s)", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("sweeper: stopped")
			return
		case <-ticker.C:
			n, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.Printf("sweeper: %v", err)
			}
			if n > 0 {
				s.logger.Printf("sweeper: expired %d reservation(s)", n)
			}
		}
	}
}
