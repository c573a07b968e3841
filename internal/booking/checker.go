package booking

import (
	"context"
	"log"
	"sort"

	"github.com/iliyamo/glamping-reservation/internal/model"
	"github.com/iliyamo/glamping-reservation/internal/repository"
)

// Checker answers availability questions for a cabin.  It only reads; the
// atomic check-and-insert lives in ReservationStore.CreateIfFree.
type Checker struct {
	reservations repository.ReservationStore
	calendar     Calendar
	logger       *log.Logger
}

// NewChecker builds a Checker.  cal may be nil.
func NewChecker(reservations repository.ReservationStore, cal Calendar) *Checker {
	return &Checker{reservations: reservations, calendar: cal, logger: log.Default()}
}

// FindConflicts returns the pending and confirmed reservations of cabinID
// that share at least one night with [checkIn, checkOut).
func (c *Checker) FindConflicts(ctx context.Context, cabinID uint64, checkIn, checkOut model.Date) ([]model.Reservation, error) {
	active, err := c.reservations.ListActiveByCabin(ctx, cabinID)
	if err != nil {
		return nil, err
	}
	var out []model.Reservation
	for _, r := range active {
		if r.OverlapsRange(checkIn, checkOut) {
			out = append(out, r)
		}
	}
	return out, nil
}

// IsAvailable reports whether FindConflicts is empty.
func (c *Checker) IsAvailable(ctx context.Context, cabinID uint64, checkIn, checkOut model.Date) (bool, error) {
	conflicts, err := c.FindConflicts(ctx, cabinID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// ExternalConflicts returns external calendar blocks overlapping the stay.
// The calendar is best-effort: when it is disabled or fails, no conflicts
// are reported.
func (c *Checker) ExternalConflicts(ctx context.Context, checkIn, checkOut model.Date) []Range {
	if c.calendar == nil {
		return nil
	}
	events, err := c.calendar.ListEvents(ctx, checkIn, checkOut)
	if err != nil {
		c.logger.Printf("availability: calendar lookup failed: %v", err)
		return nil
	}
	var out []Range
	for _, ev := range events {
		end := ev.End
		if !end.After(ev.Start) {
			end = ev.Start.AddDays(1)
		}
		if model.Overlaps(ev.Start, end, checkIn, checkOut) {
			out = append(out, Range{CheckIn: ev.Start, CheckOut: end, Source: "calendar"})
		}
	}
	return out
}

// BookedDates lists every calendar day in [from, to] touched by an active
// reservation (check-in through check-out, inclusive) or by an external
// calendar event.  The result is sorted and unique.
func (c *Checker) BookedDates(ctx context.Context, from, to model.Date) ([]model.Date, error) {
	active, err := c.reservations.ListActiveInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	seen := map[string]model.Date{}
	mark := func(start, last model.Date) {
		for d := start; !d.After(last); d = d.AddDays(1) {
			if d.Before(from) || d.After(to) {
				continue
			}
			seen[d.String()] = d
		}
	}
	for _, r := range active {
		mark(r.CheckIn, r.CheckOut)
	}
	if c.calendar != nil {
		events, err := c.calendar.ListEvents(ctx, from, to.AddDays(1))
		if err != nil {
			c.logger.Printf("availability: calendar lookup failed: %v", err)
		}
		for _, ev := range events {
			last := ev.End.AddDays(-1)
			if last.Before(ev.Start) {
				last = ev.Start
			}
			mark(ev.Start, last)
		}
	}
	out := make([]model.Date, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}
