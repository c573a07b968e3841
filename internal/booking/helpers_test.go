package booking

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
	"github.com/iliyamo/glamping-reservation/internal/pricing"
	"github.com/iliyamo/glamping-reservation/internal/repository"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu      sync.Mutex
	calls   map[string][]string // kind -> confirmation codes
	ctxErrs []error             // ctx.Err() seen by each send
	fail    error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{calls: map[string][]string{}}
}

func (n *recordingNotifier) record(ctx context.Context, kind string, r model.Reservation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[kind] = append(n.calls[kind], r.ConfirmationCode)
	n.ctxErrs = append(n.ctxErrs, ctx.Err())
	return n.fail
}

func (n *recordingNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls[kind])
}

func (n *recordingNotifier) GuestReceived(ctx context.Context, r model.Reservation, _ model.Cabin) error {
	return n.record(ctx, "received", r)
}
func (n *recordingNotifier) GuestConfirmed(ctx context.Context, r model.Reservation, _ model.Cabin) error {
	return n.record(ctx, "confirmed", r)
}
func (n *recordingNotifier) GuestExpired(ctx context.Context, r model.Reservation, _ model.Cabin) error {
	return n.record(ctx, "expired", r)
}
func (n *recordingNotifier) OwnerNotified(ctx context.Context, r model.Reservation, _ model.Cabin) error {
	return n.record(ctx, "owner", r)
}

type fakeCalendar struct {
	mu        sync.Mutex
	events    []ExternalEvent
	listErr   error
	createErr error
	created   int
}

func (f *fakeCalendar) ListEvents(_ context.Context, from, to model.Date) ([]ExternalEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]ExternalEvent(nil), f.events...), nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, r model.Reservation, _ model.Cabin) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created++
	return "evt-" + r.ConfirmationCode, nil
}

type recordingEvents struct {
	mu    sync.Mutex
	types []EventType
}

func (e *recordingEvents) Publish(_ context.Context, ev Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, ev.Type)
	return nil
}

var errBoom = errors.New("boom")

// cancelAfterInsert cancels the caller's context as soon as the reservation
// is stored, like a client that disconnects right after the write.
type cancelAfterInsert struct {
	repository.ReservationStore
	cancel context.CancelFunc
}

func (s cancelAfterInsert) CreateIfFree(ctx context.Context, r *model.Reservation) ([]model.Reservation, error) {
	conflicts, err := s.ReservationStore.CreateIfFree(ctx, r)
	s.cancel()
	return conflicts, err
}

type fixture struct {
	store    *repository.MemoryStore
	manager  *Manager
	clock    *clock
	notifier *recordingNotifier
	cabinID  uint64
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store:    repository.NewMemoryStore(),
		clock:    &clock{t: time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)},
		notifier: newRecordingNotifier(),
	}
	id, err := f.store.CreateCabin(context.Background(), model.Cabin{
		Name: "Montesereno Glamping", WeekdayPrice: 350000, WeekendPrice: 450000, MaxGuests: 6, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	f.cabinID = id

	cfg := DefaultConfig()
	cfg.Payment = PaymentDetails{DepositPercent: 50, Holder: "Titular Demo", Accounts: []string{"BANCO - Ahorros: 123"}, Nequi: "3000000000", WhatsApp: "+57 300 0000000"}
	engine := pricing.New(pricing.DefaultConfig()).WithHolidays(func(model.Date) bool { return false })
	base := []Option{
		WithNotifier(f.notifier),
		WithClock(f.clock.Now),
		WithLogger(log.New(io.Discard, "", 0)),
	}
	f.manager = NewManager(f.store, f.store, engine, cfg, append(base, opts...)...)
	return f
}

func (f *fixture) request(t *testing.T, in, out string, guests int) CreateRequest {
	t.Helper()
	return CreateRequest{
		CabinID:  f.cabinID,
		Guest:    GuestInfo{Name: "Ana Gómez", Email: "Ana@Example.com", Phone: "+57 300 123 4567"},
		CheckIn:  mustDate(t, in),
		CheckOut: mustDate(t, out),
		Guests:   guests,
	}
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
