// Package pricing computes the price of a stay.  A stay is priced night by
// night over [checkIn, checkOut): Friday and Saturday nights, and any night
// that precedes a public holiday, use the cabin's weekend rate; every other
// night uses the weekday rate.  Guests above the included count add a flat
// surcharge to every night.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/holiday"
	"github.com/iliyamo/glamping-reservation/internal/model"
)

var (
	// ErrInvalidRange is returned when checkOut is not after checkIn.
	ErrInvalidRange = errors.New("check-out must be after check-in")
	// ErrInvalidGuests is returned for a non-positive guest count.
	ErrInvalidGuests = errors.New("guest count must be at least 1")
	// ErrTooManyGuests is returned when the guest count exceeds capacity.
	ErrTooManyGuests = errors.New("guest count exceeds capacity")
)

// Tier is the rate bucket applied to a night.
type Tier string

const (
	TierWeekday Tier = "weekday"
	TierWeekend Tier = "weekend"
)

// Config carries the deployment's surcharge policy.
type Config struct {
	ExtraGuestNightly int64 // COP added per extra guest per night
	IncludedGuests    int   // guests covered by the base rate
	MaxGuests         int   // fallback capacity when the cabin has none
}

// DefaultConfig mirrors the property's published rates.
func DefaultConfig() Config {
	return Config{ExtraGuestNightly: 50000, IncludedGuests: 2, MaxGuests: 6}
}

// Night is the price of a single night.
type Night struct {
	Date      model.Date `json:"date"`
	Tier      Tier       `json:"tier"`
	BaseRate  int64      `json:"base_rate"`
	Surcharge int64      `json:"surcharge"`
	Price     int64      `json:"price"`
}

// Quote is the full price breakdown of a stay.
type Quote struct {
	Nights []Night `json:"nights"`
	Total  int64   `json:"total"`
}

// Engine prices stays.  The zero value is not usable; build one with New.
type Engine struct {
	cfg       Config
	isHoliday func(model.Date) bool
}

// New returns an Engine using the Colombian holiday calendar.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, isHoliday: holiday.IsHoliday}
}

// WithHolidays returns a copy of e that consults fn instead of the built-in
// calendar.
func (e *Engine) WithHolidays(fn func(model.Date) bool) *Engine {
	cp := *e
	cp.isHoliday = fn
	return &cp
}

// Capacity returns the maximum guests allowed in cabin.
func (e *Engine) Capacity(cabin model.Cabin) int {
	if cabin.MaxGuests > 0 {
		return cabin.MaxGuests
	}
	return e.cfg.MaxGuests
}

// Validate checks the stay preconditions without pricing it.
func (e *Engine) Validate(cabin model.Cabin, checkIn, checkOut model.Date, guests int) error {
	if !checkIn.Before(checkOut) {
		return ErrInvalidRange
	}
	if guests < 1 {
		return ErrInvalidGuests
	}
	if max := e.Capacity(cabin); guests > max {
		return fmt.Errorf("%w: %d > %d", ErrTooManyGuests, guests, max)
	}
	return nil
}

// TierFor returns the rate tier of the night starting on d.
func (e *Engine) TierFor(d model.Date) Tier {
	switch d.Weekday() {
	case time.Friday, time.Saturday:
		return TierWeekend
	}
	if e.isHoliday(d.AddDays(1)) {
		return TierWeekend
	}
	return TierWeekday
}

// Quote prices every night of the stay.
func (e *Engine) Quote(cabin model.Cabin, checkIn, checkOut model.Date, guests int) (Quote, error) {
	if err := e.Validate(cabin, checkIn, checkOut, guests); err != nil {
		return Quote{}, err
	}
	var surcharge int64
	if extra := guests - e.cfg.IncludedGuests; extra > 0 {
		surcharge = int64(extra) * e.cfg.ExtraGuestNightly
	}

	q := Quote{}
	for d := checkIn; d.Before(checkOut); d = d.AddDays(1) {
		n := Night{Date: d, Tier: e.TierFor(d), Surcharge: surcharge}
		if n.Tier == TierWeekend {
			n.BaseRate = cabin.WeekendPrice
		} else {
			n.BaseRate = cabin.WeekdayPrice
		}
		n.Price = n.BaseRate + n.Surcharge
		q.Nights = append(q.Nights, n)
		q.Total += n.Price
	}
	return q, nil
}

// Total returns only the stay total.
func (e *Engine) Total(cabin model.Cabin, checkIn, checkOut model.Date, guests int) (int64, error) {
	q, err := e.Quote(cabin, checkIn, checkOut, guests)
	if err != nil {
		return 0, err
	}
	return q.Total, nil
}
