package booking

import (
	"context"
	"errors"
	"io"
	"log"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
	"github.com/iliyamo/glamping-reservation/internal/pricing"
	"github.com/iliyamo/glamping-reservation/internal/repository"
)

var codePattern = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestCreatePendingReservation(t *testing.T) {
	f := newFixture(t)
	// Mon 2024-06-03 to Wed 2024-06-05: two weekday nights.
	r, err := f.manager.Create(context.Background(), f.request(t, "2024-06-03", "2024-06-05", 2))
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != model.StatusPending {
		t.Errorf("status = %s", r.Status)
	}
	if r.TotalPrice != 700000 {
		t.Errorf("total = %d", r.TotalPrice)
	}
	if !codePattern.MatchString(r.ConfirmationCode) {
		t.Errorf("code = %q", r.ConfirmationCode)
	}
	if r.HoldUntil == nil || !r.HoldUntil.Equal(f.clock.Now().Add(24*time.Hour)) {
		t.Errorf("hold = %v", r.HoldUntil)
	}
	if r.GuestEmail != "ana@example.com" {
		t.Errorf("email not normalised: %q", r.GuestEmail)
	}
	if !strings.Contains(r.PaymentInstructions, "ABONO DEL 50% REQUERIDO: $350.000 COP") ||
		!strings.Contains(r.PaymentInstructions, r.ConfirmationCode) {
		t.Errorf("instructions = %q", r.PaymentInstructions)
	}
	if f.notifier.count("received") != 1 || f.notifier.count("owner") != 1 {
		t.Errorf("notifications = %v", f.notifier.calls)
	}

	stored, err := f.manager.GetByCode(context.Background(), strings.ToLower(r.ConfirmationCode))
	if err != nil || stored.ID != r.ID {
		t.Fatalf("GetByCode = %+v, %v", stored, err)
	}
}

func TestCreateConflictListsExistingRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.manager.Create(ctx, f.request(t, "2024-06-01", "2024-06-05", 2))
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-07", 2))
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if len(ce.Ranges) != 1 || !ce.Ranges[0].CheckIn.Equal(a.CheckIn) || !ce.Ranges[0].CheckOut.Equal(a.CheckOut) {
		t.Fatalf("ranges = %+v", ce.Ranges)
	}
	if !strings.Contains(ce.Error(), "2024-06-01 a 2024-06-05 (pending)") {
		t.Fatalf("message = %q", ce.Error())
	}
}

func TestCreateSameDayTurnoverIsAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.manager.Create(ctx, f.request(t, "2024-06-01", "2024-06-05", 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.manager.Create(ctx, f.request(t, "2024-06-05", "2024-06-07", 2)); err != nil {
		t.Fatalf("back-to-back stay rejected: %v", err)
	}
	if _, err := f.manager.Create(ctx, f.request(t, "2024-05-28", "2024-06-01", 2)); err != nil {
		t.Fatalf("stay ending on check-in day rejected: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []struct {
		name  string
		mod   func(*CreateRequest)
		field string
	}{
		{"reversed dates", func(r *CreateRequest) { r.CheckIn, r.CheckOut = r.CheckOut, r.CheckIn }, "check_out"},
		{"same day", func(r *CreateRequest) { r.CheckOut = r.CheckIn }, "check_out"},
		{"too many guests", func(r *CreateRequest) { r.Guests = 7 }, "guests"},
		{"no guests", func(r *CreateRequest) { r.Guests = 0 }, "guests"},
		{"short name", func(r *CreateRequest) { r.Guest.Name = "A" }, "guest_name"},
		{"bad email", func(r *CreateRequest) { r.Guest.Email = "not-an-email" }, "guest_email"},
		{"short phone", func(r *CreateRequest) { r.Guest.Phone = "12345" }, "guest_phone"},
		{"letters in phone", func(r *CreateRequest) { r.Guest.Phone = "300-ABC-45678" }, "guest_phone"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := f.request(t, "2024-06-03", "2024-06-05", 2)
			c.mod(&req)
			_, err := f.manager.Create(ctx, req)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != c.field {
				t.Fatalf("field = %q, want %q", ve.Field, c.field)
			}
		})
	}
}

func TestCreateUnknownOrInactiveCabin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, "2024-06-03", "2024-06-05", 2)
	req.CabinID = 99
	var nf *NotFoundError
	if _, err := f.manager.Create(ctx, req); !errors.As(err, &nf) {
		t.Fatalf("unknown cabin err = %v", err)
	}
	if err := f.store.SetCabinActive(ctx, f.cabinID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2)); !errors.As(err, &nf) {
		t.Fatalf("inactive cabin err = %v", err)
	}
}

func TestCreateSurvivesNotificationFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = errBoom
	r, err := f.manager.Create(context.Background(), f.request(t, "2024-06-03", "2024-06-05", 2))
	if err != nil {
		t.Fatalf("create failed because of email: %v", err)
	}
	if r.ID == 0 || f.notifier.count("received") != 1 {
		t.Fatalf("reservation %+v, notifications %v", r, f.notifier.calls)
	}
}

func TestCreateEmailsOutliveCallerCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewManager(f.store, cancelAfterInsert{ReservationStore: f.store, cancel: cancel},
		pricing.New(pricing.DefaultConfig()), DefaultConfig(),
		WithNotifier(f.notifier), WithClock(f.clock.Now), WithLogger(log.New(io.Discard, "", 0)))

	if _, err := m.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2)); err != nil {
		t.Fatal(err)
	}
	if ctx.Err() == nil {
		t.Fatal("caller context should be cancelled after the insert")
	}
	if f.notifier.count("received") != 1 || f.notifier.count("owner") != 1 {
		t.Fatalf("notifications = %v", f.notifier.calls)
	}
	for i, err := range f.notifier.ctxErrs {
		if err != nil {
			t.Errorf("send %d ran with a cancelled context: %v", i, err)
		}
	}
}

func TestCreateConcurrentOverlapExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		other     []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := f.request(t, "2024-07-01", "2024-07-05", 2)
			req.CheckIn = req.CheckIn.AddDays(i % 3)
			<-start
			_, err := f.manager.Create(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			var ce *ConflictError
			switch {
			case err == nil:
				successes++
			case errors.As(err, &ce):
				conflicts++
			default:
				other = append(other, err)
			}
		}(i)
	}
	close(start)
	wg.Wait()
	if successes != 1 || conflicts != n-1 || len(other) > 0 {
		t.Fatalf("successes=%d conflicts=%d other=%v", successes, conflicts, other)
	}
}

func TestCreateRegeneratesDuplicateCode(t *testing.T) {
	codes := []string{"AAAA0000", "AAAA0000", "BBBB1111"}
	var mu sync.Mutex
	gen := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	f := newFixture(t, WithCodeGenerator(gen))
	ctx := context.Background()
	if _, err := f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2)); err != nil {
		t.Fatal(err)
	}
	r, err := f.manager.Create(ctx, f.request(t, "2024-08-03", "2024-08-05", 2))
	if err != nil {
		t.Fatal(err)
	}
	if r.ConfirmationCode != "BBBB1111" {
		t.Fatalf("code = %s", r.ConfirmationCode)
	}
	if !strings.Contains(r.PaymentInstructions, "BBBB1111") {
		t.Fatalf("instructions mention stale code: %q", r.PaymentInstructions)
	}
}

func TestCreateRejectsExternalCalendarBlock(t *testing.T) {
	cal := &fakeCalendar{events: []ExternalEvent{{ID: "x", Start: mustDate(t, "2024-06-04"), End: mustDate(t, "2024-06-06")}}}
	f := newFixture(t, WithCalendar(cal))
	_, err := f.manager.Create(context.Background(), f.request(t, "2024-06-03", "2024-06-05", 2))
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Ranges[0].Source != "calendar" {
		t.Fatalf("err = %v", err)
	}
	// A stay touching the event only on its end day is free.
	if _, err := f.manager.Create(context.Background(), f.request(t, "2024-06-06", "2024-06-08", 2)); err != nil {
		t.Fatal(err)
	}
}

func TestCreateIgnoresCalendarOutage(t *testing.T) {
	f := newFixture(t, WithCalendar(&fakeCalendar{listErr: errBoom}))
	if _, err := f.manager.Create(context.Background(), f.request(t, "2024-06-03", "2024-06-05", 2)); err != nil {
		t.Fatalf("calendar outage blocked booking: %v", err)
	}
}

func TestConfirm(t *testing.T) {
	cal := &fakeCalendar{}
	events := &recordingEvents{}
	f := newFixture(t, WithCalendar(cal), WithEvents(events))
	ctx := context.Background()
	r, err := f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2))
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.manager.Confirm(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.StatusConfirmed || got.CalendarEventID == nil || *got.CalendarEventID != "evt-"+r.ConfirmationCode {
		t.Fatalf("confirmed = %+v", got)
	}
	stored, _ := f.manager.Get(ctx, r.ID)
	if stored.Status != model.StatusConfirmed || stored.CalendarEventID == nil {
		t.Fatalf("stored = %+v", stored)
	}
	if f.notifier.count("confirmed") != 1 {
		t.Fatalf("confirmed emails = %d", f.notifier.count("confirmed"))
	}

	_, err = f.manager.Confirm(ctx, r.ID)
	var ise *InvalidStateError
	if !errors.As(err, &ise) || ise.From != model.StatusConfirmed {
		t.Fatalf("second confirm err = %v", err)
	}
	var nf *NotFoundError
	if _, err := f.manager.Confirm(ctx, 404); !errors.As(err, &nf) {
		t.Fatalf("missing confirm err = %v", err)
	}
	if len(events.types) != 2 || events.types[0] != EventCreated || events.types[1] != EventConfirmed {
		t.Fatalf("events = %v", events.types)
	}
}

func TestConfirmSurvivesCalendarFailure(t *testing.T) {
	f := newFixture(t, WithCalendar(&fakeCalendar{createErr: errBoom}))
	ctx := context.Background()
	r, err := f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2))
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.manager.Confirm(ctx, r.ID)
	if err != nil || got.Status != model.StatusConfirmed || got.CalendarEventID != nil {
		t.Fatalf("confirm = %+v, %v", got, err)
	}
}

func TestCancelTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending, _ := f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2))
	confirmed, _ := f.manager.Create(ctx, f.request(t, "2024-06-10", "2024-06-12", 2))
	if _, err := f.manager.Confirm(ctx, confirmed.ID); err != nil {
		t.Fatal(err)
	}
	for _, id := range []uint64{pending.ID, confirmed.ID} {
		got, err := f.manager.Cancel(ctx, id)
		if err != nil || got.Status != model.StatusCancelled {
			t.Fatalf("cancel %d = %+v, %v", id, got, err)
		}
	}
	var ise *InvalidStateError
	if _, err := f.manager.Cancel(ctx, pending.ID); !errors.As(err, &ise) {
		t.Fatalf("cancel cancelled err = %v", err)
	}
	if _, err := f.manager.Confirm(ctx, pending.ID); !errors.As(err, &ise) {
		t.Fatalf("confirm cancelled err = %v", err)
	}
	if f.notifier.count("expired") != 0 {
		t.Fatal("cancel must not email the guest")
	}
	// Cancelled dates are free again.
	if _, err := f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2)); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, _ := f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2))

	var ve *ValidationError
	if _, err := f.manager.UpdateStatus(ctx, r.ID, model.StatusPending); !errors.As(err, &ve) {
		t.Fatalf("pending err = %v", err)
	}
	got, err := f.manager.UpdateStatus(ctx, r.ID, model.StatusExpired)
	if err != nil || got.Status != model.StatusExpired {
		t.Fatalf("expire = %+v, %v", got, err)
	}
	if f.notifier.count("expired") != 1 {
		t.Fatalf("expired emails = %d", f.notifier.count("expired"))
	}
	var ise *InvalidStateError
	if _, err := f.manager.UpdateStatus(ctx, r.ID, model.StatusConfirmed); !errors.As(err, &ise) {
		t.Fatalf("confirm expired err = %v", err)
	}

	other, _ := f.manager.Create(ctx, f.request(t, "2024-06-10", "2024-06-12", 2))
	if got, err := f.manager.UpdateStatus(ctx, other.ID, model.StatusConfirmed); err != nil || got.Status != model.StatusConfirmed {
		t.Fatalf("confirm via update = %+v, %v", got, err)
	}
	if f.notifier.count("confirmed") != 1 {
		t.Fatalf("confirmed emails = %d", f.notifier.count("confirmed"))
	}
	if _, err := f.manager.UpdateStatus(ctx, other.ID, model.StatusExpired); !errors.As(err, &ise) {
		t.Fatalf("expire confirmed err = %v", err)
	}
}

func TestDeleteIgnoresStatus(t *testing.T) {
	events := &recordingEvents{}
	f := newFixture(t, WithEvents(events))
	ctx := context.Background()
	r, _ := f.manager.QuickBook(ctx, f.request(t, "2024-06-03", "2024-06-05", 2))
	if err := f.manager.Delete(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	var nf *NotFoundError
	if _, err := f.manager.Get(ctx, r.ID); !errors.As(err, &nf) {
		t.Fatalf("get deleted err = %v", err)
	}
	if err := f.manager.Delete(ctx, r.ID); !errors.As(err, &nf) {
		t.Fatalf("delete twice err = %v", err)
	}
	if events.types[len(events.types)-1] != EventDeleted {
		t.Fatalf("events = %v", events.types)
	}
}

func TestQuickBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// Fri 2024-06-07 to Sun 2024-06-09 for 4 guests.
	r, err := f.manager.QuickBook(ctx, f.request(t, "2024-06-07", "2024-06-09", 4))
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != model.StatusConfirmed || r.HoldUntil != nil || r.PaymentInstructions != AdminBookingInstructions {
		t.Fatalf("quick booking = %+v", r)
	}
	if r.TotalPrice != 2*450000+2*2*50000 {
		t.Fatalf("total = %d", r.TotalPrice)
	}
	if len(f.notifier.calls) != 0 {
		t.Fatalf("quick booking sent email: %v", f.notifier.calls)
	}
	_, err = f.manager.QuickBook(ctx, f.request(t, "2024-06-08", "2024-06-10", 2))
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("overlapping quick booking err = %v", err)
	}
}

func TestListAttachesCabin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.manager.Create(ctx, f.request(t, "2024-06-03", "2024-06-05", 2))
	_, _ = f.manager.QuickBook(ctx, f.request(t, "2024-06-10", "2024-06-12", 2))
	list, err := f.manager.List(ctx, repository.ReservationFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Cabin.Name != "Montesereno Glamping" {
		t.Fatalf("list = %+v", list)
	}
	pending, _ := f.manager.List(ctx, repository.ReservationFilter{Status: model.StatusPending})
	if len(pending) != 1 {
		t.Fatalf("pending = %d", len(pending))
	}
}
