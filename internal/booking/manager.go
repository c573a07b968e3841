package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
	"github.com/iliyamo/glamping-reservation/internal/pricing"
	"github.com/iliyamo/glamping-reservation/internal/repository"
)

// Config tunes the lifecycle manager.
type Config struct {
	Hold          time.Duration // soft-hold length for guest bookings
	NotifyTimeout time.Duration // bound on each email / calendar call
	CodeAttempts  int           // confirmation code retries on collision
	Payment       PaymentDetails
}

// DefaultConfig returns a 24h hold, 10s notification timeout and a 50% deposit.
func DefaultConfig() Config {
	return Config{
		Hold:          24 * time.Hour,
		NotifyTimeout: 10 * time.Second,
		CodeAttempts:  5,
		Payment:       PaymentDetails{DepositPercent: 50},
	}
}

// CreateRequest is the input of Create and QuickBook.
type CreateRequest struct {
	CabinID  uint64
	Guest    GuestInfo
	CheckIn  model.Date
	CheckOut model.Date
	Guests   int
}

// Detail is a reservation together with its cabin.
type Detail struct {
	model.Reservation
	Cabin model.Cabin
}

// Manager owns the reservation lifecycle.  Email, calendar and event bus
// failures are logged and never fail an operation once the reservation has
// been written.
type Manager struct {
	cabins       repository.CabinStore
	reservations repository.ReservationStore
	pricing      *pricing.Engine
	checker      *Checker
	notifier     Notifier
	calendar     Calendar
	events       EventPublisher
	cfg          Config
	now          func() time.Time
	newCode      func() (string, error)
	logger       *log.Logger
}

// Option configures optional collaborators of a Manager.
type Option func(*Manager)

func WithNotifier(n Notifier) Option                    { return func(m *Manager) { m.notifier = n } }
func WithCalendar(c Calendar) Option                    { return func(m *Manager) { m.calendar = c } }
func WithEvents(p EventPublisher) Option                { return func(m *Manager) { m.events = p } }
func WithClock(now func() time.Time) Option             { return func(m *Manager) { m.now = now } }
func WithCodeGenerator(f func() (string, error)) Option { return func(m *Manager) { m.newCode = f } }
func WithLogger(l *log.Logger) Option                   { return func(m *Manager) { m.logger = l } }

// NewManager wires a Manager.  Without options it sends no email, has no
// external calendar and publishes no events.
func NewManager(cabins repository.CabinStore, reservations repository.ReservationStore, engine *pricing.Engine, cfg Config, opts ...Option) *Manager {
	def := DefaultConfig()
	if cfg.Hold <= 0 {
		cfg.Hold = def.Hold
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = def.NotifyTimeout
	}
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = def.CodeAttempts
	}
	m := &Manager{
		cabins:       cabins,
		reservations: reservations,
		pricing:      engine,
		notifier:     nopNotifier{},
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
		newCode:      NewConfirmationCode,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = nopNotifier{}
	}
	m.checker = NewChecker(reservations, m.calendar)
	m.checker.logger = m.logger
	return m
}

// Checker exposes the availability checker used by the manager.
func (m *Manager) Checker() *Checker { return m.checker }

// Pricing exposes the pricing engine used by the manager.
func (m *Manager) Pricing() *pricing.Engine { return m.pricing }

// Cabins lists the cabins, optionally only the bookable ones.
func (m *Manager) Cabins(ctx context.Context, activeOnly bool) ([]model.Cabin, error) {
	return m.cabins.ListCabins(ctx, activeOnly)
}

// Create books a stay for a guest.  The reservation starts pending with a
// soft hold; the guest and owner are emailed once it has been stored.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (model.Reservation, error) {
	cabin, err := m.prepare(ctx, &req)
	if err != nil {
		return model.Reservation{}, err
	}
	if ext := m.checker.ExternalConflicts(ctx, req.CheckIn, req.CheckOut); len(ext) > 0 {
		return model.Reservation{}, &ConflictError{Ranges: ext}
	}
	total, err := m.pricing.Total(cabin, req.CheckIn, req.CheckOut, req.Guests)
	if err != nil {
		return model.Reservation{}, pricingError(err)
	}
	hold := m.now().Add(m.cfg.Hold)
	r := newReservation(req, total, model.StatusPending)
	r.HoldUntil = &hold

	if err := m.insert(ctx, &r, func(code string) string {
		return m.cfg.Payment.Instructions(total, code)
	}); err != nil {
		return model.Reservation{}, err
	}
	m.logger.Printf("booking: reservation %s created for cabin %d (%s to %s)", r.ConfirmationCode, r.CabinID, r.CheckIn, r.CheckOut)

	m.notify(ctx, "guest received email", r, func(ctx context.Context) error { return m.notifier.GuestReceived(ctx, r, cabin) })
	m.notify(ctx, "owner email", r, func(ctx context.Context) error { return m.notifier.OwnerNotified(ctx, r, cabin) })
	m.publish(ctx, EventCreated, r, cabin)
	return r, nil
}

// QuickBook stores an admin booking directly as confirmed, with no hold and
// no emails.  Availability is still enforced.
func (m *Manager) QuickBook(ctx context.Context, req CreateRequest) (model.Reservation, error) {
	cabin, err := m.prepare(ctx, &req)
	if err != nil {
		return model.Reservation{}, err
	}
	total, err := m.pricing.Total(cabin, req.CheckIn, req.CheckOut, req.Guests)
	if err != nil {
		return model.Reservation{}, pricingError(err)
	}
	r := newReservation(req, total, model.StatusConfirmed)
	if err := m.insert(ctx, &r, func(string) string { return AdminBookingInstructions }); err != nil {
		return model.Reservation{}, err
	}
	m.logger.Printf("booking: quick reservation %s created for cabin %d", r.ConfirmationCode, r.CabinID)
	m.publish(ctx, EventCreated, r, cabin)
	return r, nil
}

// prepare validates the request and loads the cabin.
func (m *Manager) prepare(ctx context.Context, req *CreateRequest) (model.Cabin, error) {
	req.Guest = req.Guest.normalized()
	if err := Validate.Struct(req.Guest); err != nil {
		return model.Cabin{}, validationError(err)
	}
	if !req.CheckIn.Before(req.CheckOut) {
		return model.Cabin{}, &ValidationError{Field: "check_out", Message: "must be after check_in"}
	}
	cabin, err := m.cabins.GetCabin(ctx, req.CabinID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !cabin.IsActive) {
		return model.Cabin{}, &NotFoundError{Resource: "cabin", Key: strconv.FormatUint(req.CabinID, 10)}
	}
	if err != nil {
		return model.Cabin{}, fmt.Errorf("load cabin: %w", err)
	}
	if err := m.pricing.Validate(cabin, req.CheckIn, req.CheckOut, req.Guests); err != nil {
		return model.Cabin{}, pricingError(err)
	}
	conflicts, err := m.checker.FindConflicts(ctx, cabin.ID, req.CheckIn, req.CheckOut)
	if err != nil {
		return model.Cabin{}, fmt.Errorf("check availability: %w", err)
	}
	if len(conflicts) > 0 {
		return model.Cabin{}, &ConflictError{Ranges: rangesOf(conflicts)}
	}
	return cabin, nil
}

// insert assigns a fresh confirmation code and stores r, retrying on code
// collisions.  The store re-checks availability atomically, so a booking
// that raced past prepare still ends in a ConflictError.
func (m *Manager) insert(ctx context.Context, r *model.Reservation, instructions func(code string) string) error {
	for attempt := 0; attempt < m.cfg.CodeAttempts; attempt++ {
		code, err := m.newCode()
		if err != nil {
			return fmt.Errorf("generate confirmation code: %w", err)
		}
		r.ConfirmationCode = code
		r.PaymentInstructions = instructions(code)
		conflicts, err := m.reservations.CreateIfFree(ctx, r)
		switch {
		case errors.Is(err, repository.ErrDuplicateCode):
			continue
		case errors.Is(err, repository.ErrNotFound):
			return &NotFoundError{Resource: "cabin", Key: strconv.FormatUint(r.CabinID, 10)}
		case err != nil:
			return fmt.Errorf("store reservation: %w", err)
		case len(conflicts) > 0:
			return &ConflictError{Ranges: rangesOf(conflicts)}
		}
		return nil
	}
	return fmt.Errorf("store reservation: no unique confirmation code after %d attempts", m.cfg.CodeAttempts)
}

func newReservation(req CreateRequest, total int64, status model.Status) model.Reservation {
	return model.Reservation{
		CabinID:    req.CabinID,
		GuestName:  req.Guest.Name,
		GuestEmail: req.Guest.Email,
		GuestPhone: req.Guest.Phone,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Guests:     req.Guests,
		TotalPrice: total,
		Status:     status,
	}
}

func pricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidRange):
		return &ValidationError{Field: "check_out", Message: "must be after check_in"}
	case errors.Is(err, pricing.ErrInvalidGuests), errors.Is(err, pricing.ErrTooManyGuests):
		return &ValidationError{Field: "guests", Message: err.Error()}
	}
	return err
}

// Get returns a reservation by id.
func (m *Manager) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	r, err := m.reservations.GetReservation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Reservation{}, &NotFoundError{Resource: "reservation", Key: strconv.FormatUint(id, 10)}
	}
	return r, err
}

// GetByCode is the guest-facing lookup; the code is matched case-insensitively.
func (m *Manager) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	r, err := m.reservations.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Reservation{}, &NotFoundError{Resource: "reservation", Key: code}
	}
	return r, err
}

// List returns reservations newest first with their cabins attached.
func (m *Manager) List(ctx context.Context, f repository.ReservationFilter) ([]Detail, error) {
	rs, err := m.reservations.ListReservations(ctx, f)
	if err != nil {
		return nil, err
	}
	cabins := map[uint64]model.Cabin{}
	out := make([]Detail, 0, len(rs))
	for _, r := range rs {
		c, ok := cabins[r.CabinID]
		if !ok {
			c, err = m.cabins.GetCabin(ctx, r.CabinID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			cabins[r.CabinID] = c
		}
		out = append(out, Detail{Reservation: r, Cabin: c})
	}
	return out, nil
}

// Confirm moves a pending reservation to confirmed, creates the external
// calendar event and emails the guest.
func (m *Manager) Confirm(ctx context.Context, id uint64) (model.Reservation, error) {
	r, err := m.transition(ctx, id, model.StatusConfirmed)
	if err != nil {
		return model.Reservation{}, err
	}
	cabin := m.cabinFor(ctx, r)
	if m.calendar != nil {
		cctx, cancel := m.detached(ctx)
		eventID, err := m.calendar.CreateEvent(cctx, r, cabin)
		cancel()
		if err != nil {
			m.logFailure(&NotificationError{Kind: "calendar event", Code: r.ConfirmationCode, Err: err})
		} else if eventID != "" {
			if err := m.reservations.SetCalendarEvent(ctx, r.ID, eventID); err != nil {
				m.logger.Printf("booking: store calendar event for %s: %v", r.ConfirmationCode, err)
			} else {
				r.CalendarEventID = &eventID
			}
		}
	}
	m.notify(ctx, "guest confirmed email", r, func(ctx context.Context) error { return m.notifier.GuestConfirmed(ctx, r, cabin) })
	m.publish(ctx, EventConfirmed, r, cabin)
	return r, nil
}

// Cancel moves a pending or confirmed reservation to cancelled.  No email is
// sent.
func (m *Manager) Cancel(ctx context.Context, id uint64) (model.Reservation, error) {
	r, err := m.transition(ctx, id, model.StatusCancelled)
	if err != nil {
		return model.Reservation{}, err
	}
	m.publish(ctx, EventCancelled, r, m.cabinFor(ctx, r))
	return r, nil
}

// Expire moves a pending reservation to expired and emails the guest.
func (m *Manager) Expire(ctx context.Context, id uint64) (model.Reservation, error) {
	r, err := m.transition(ctx, id, model.StatusExpired)
	if err != nil {
		return model.Reservation{}, err
	}
	cabin := m.cabinFor(ctx, r)
	m.notify(ctx, "guest expired email", r, func(ctx context.Context) error { return m.notifier.GuestExpired(ctx, r, cabin) })
	m.publish(ctx, EventExpired, r, cabin)
	return r, nil
}

// UpdateStatus is the admin override.  Each target state runs the same side
// effects as its dedicated operation.
func (m *Manager) UpdateStatus(ctx context.Context, id uint64, status model.Status) (model.Reservation, error) {
	switch status {
	case model.StatusConfirmed:
		return m.Confirm(ctx, id)
	case model.StatusCancelled:
		return m.Cancel(ctx, id)
	case model.StatusExpired:
		return m.Expire(ctx, id)
	}
	return model.Reservation{}, &ValidationError{Field: "status", Message: "must be one of confirmed, cancelled, expired"}
}

// Delete removes a reservation whatever its status.
func (m *Manager) Delete(ctx context.Context, id uint64) error {
	r, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := m.reservations.DeleteReservation(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "reservation", Key: strconv.FormatUint(id, 10)}
		}
		return fmt.Errorf("delete reservation: %w", err)
	}
	m.logger.Printf("booking: reservation %s deleted", r.ConfirmationCode)
	m.publish(ctx, EventDeleted, r, m.cabinFor(ctx, r))
	return nil
}

// ExpireOverdue expires every pending reservation whose hold has passed and
// returns how many were expired.  Reservations moved by someone else in the
// meantime are skipped.
func (m *Manager) ExpireOverdue(ctx context.Context) (int, error) {
	due, err := m.reservations.ListExpiredHolds(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("list expired holds: %w", err)
	}
	n := 0
	for _, r := range due {
		if _, err := m.Expire(ctx, r.ID); err != nil {
			var stale *InvalidStateError
			var missing *NotFoundError
			if errors.As(err, &stale) || errors.As(err, &missing) {
				continue
			}
			return n, err
		}
		m.logger.Printf("booking: reservation %s expired", r.ConfirmationCode)
		n++
	}
	return n, nil
}

// transition applies the state machine and performs the conditional update.
func (m *Manager) transition(ctx context.Context, id uint64, to model.Status) (model.Reservation, error) {
	r, err := m.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if !model.CanTransition(r.Status, to) {
		return model.Reservation{}, &InvalidStateError{From: r.Status, To: to}
	}
	err = m.reservations.TransitionStatus(ctx, id, model.TransitionSources(to), to)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return model.Reservation{}, &NotFoundError{Resource: "reservation", Key: strconv.FormatUint(id, 10)}
	case errors.Is(err, repository.ErrStaleStatus):
		current, gerr := m.Get(ctx, id)
		if gerr != nil {
			return model.Reservation{}, gerr
		}
		return model.Reservation{}, &InvalidStateError{From: current.Status, To: to}
	case err != nil:
		return model.Reservation{}, fmt.Errorf("update status: %w", err)
	}
	r.Status = to
	r.UpdatedAt = m.now()
	return r, nil
}

// cabinFor loads the reservation's cabin for emails and events.  A lookup
// failure only degrades the message, so it is logged.
func (m *Manager) cabinFor(ctx context.Context, r model.Reservation) model.Cabin {
	c, err := m.cabins.GetCabin(ctx, r.CabinID)
	if err != nil {
		m.logger.Printf("booking: load cabin %d for %s: %v", r.CabinID, r.ConfirmationCode, err)
		return model.Cabin{ID: r.CabinID}
	}
	return c
}

// detached bounds a best-effort side effect by NotifyTimeout alone.  The
// reservation is already stored, so a caller that hangs up must not cancel
// the guest's email.
func (m *Manager) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), m.cfg.NotifyTimeout)
}

func (m *Manager) notify(ctx context.Context, kind string, r model.Reservation, send func(context.Context) error) {
	nctx, cancel := m.detached(ctx)
	defer cancel()
	if err := send(nctx); err != nil {
		m.logFailure(&NotificationError{Kind: kind, Code: r.ConfirmationCode, Err: err})
	}
}

func (m *Manager) logFailure(err *NotificationError) {
	m.logger.Printf("booking: %v", err)
}

func (m *Manager) publish(ctx context.Context, t EventType, r model.Reservation, c model.Cabin) {
	if m.events == nil {
		return
	}
	pctx, cancel := m.detached(ctx)
	defer cancel()
	if err := m.events.Publish(pctx, Event{Type: t, Reservation: r, Cabin: c, OccurredAt: m.now()}); err != nil {
		m.logger.Printf("booking: publish %s for %s: %v", t, r.ConfirmationCode, err)
	}
}
