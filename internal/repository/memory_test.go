package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func seedCabin(t *testing.T, m *MemoryStore) uint64 {
	t.Helper()
	id, err := m.CreateCabin(context.Background(), model.Cabin{Name: "Montesereno Glamping", WeekdayPrice: 350000, WeekendPrice: 450000, MaxGuests: 6, IsActive: true})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestMemoryCreateIfFreeDetectsOverlap(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	cabinID := seedCabin(t, m)

	a := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-01"), CheckOut: mustDate(t, "2024-06-05"), Status: model.StatusPending, ConfirmationCode: "aaaa0001"}
	if conflicts, err := m.CreateIfFree(ctx, a); err != nil || len(conflicts) != 0 {
		t.Fatalf("first insert: conflicts=%v err=%v", conflicts, err)
	}
	if a.ID == 0 || a.ConfirmationCode != "AAAA0001" {
		t.Fatalf("insert did not fill row: %+v", a)
	}

	b := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-03"), CheckOut: mustDate(t, "2024-06-07"), Status: model.StatusPending, ConfirmationCode: "BBBB0002"}
	conflicts, err := m.CreateIfFree(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 1 || conflicts[0].ID != a.ID {
		t.Fatalf("conflicts = %+v", conflicts)
	}
	if b.ID != 0 {
		t.Fatal("conflicting reservation must not be stored")
	}

	// Back-to-back stay starting on a's check-out day is allowed.
	c := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-05"), CheckOut: mustDate(t, "2024-06-07"), Status: model.StatusPending, ConfirmationCode: "CCCC0003"}
	if conflicts, err := m.CreateIfFree(ctx, c); err != nil || len(conflicts) != 0 {
		t.Fatalf("adjacent insert: conflicts=%v err=%v", conflicts, err)
	}
}

func TestMemoryCreateIfFreeIgnoresInactive(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	cabinID := seedCabin(t, m)
	a := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-01"), CheckOut: mustDate(t, "2024-06-05"), Status: model.StatusPending, ConfirmationCode: "AAAA0001"}
	if _, err := m.CreateIfFree(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := m.TransitionStatus(ctx, a.ID, []model.Status{model.StatusPending}, model.StatusCancelled); err != nil {
		t.Fatal(err)
	}
	b := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-01"), CheckOut: mustDate(t, "2024-06-05"), Status: model.StatusPending, ConfirmationCode: "BBBB0002"}
	if conflicts, err := m.CreateIfFree(ctx, b); err != nil || len(conflicts) != 0 {
		t.Fatalf("cancelled reservation still blocks: %v %v", conflicts, err)
	}
}

func TestMemoryCreateIfFreeDuplicateCode(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	cabinID := seedCabin(t, m)
	a := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-01"), CheckOut: mustDate(t, "2024-06-02"), ConfirmationCode: "ABCD1234", Status: model.StatusPending}
	if _, err := m.CreateIfFree(ctx, a); err != nil {
		t.Fatal(err)
	}
	b := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-07-01"), CheckOut: mustDate(t, "2024-07-02"), ConfirmationCode: "abcd1234", Status: model.StatusPending}
	if _, err := m.CreateIfFree(ctx, b); !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("err = %v, want ErrDuplicateCode", err)
	}
}

func TestMemoryCreateIfFreeConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	cabinID := seedCabin(t, m)

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := &model.Reservation{
				CabinID:          cabinID,
				CheckIn:          mustDate(t, "2024-06-01").AddDays(i % 3),
				CheckOut:         mustDate(t, "2024-06-05"),
				Status:           model.StatusPending,
				ConfirmationCode: string(rune('A'+i)) + "0000000",
			}
			conflicts, err := m.CreateIfFree(ctx, r)
			if err != nil {
				t.Error(err)
				return
			}
			if len(conflicts) == 0 {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if created != 1 {
		t.Fatalf("created %d overlapping reservations, want 1", created)
	}
}

func TestMemoryTransitionStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	cabinID := seedCabin(t, m)
	r := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-01"), CheckOut: mustDate(t, "2024-06-02"), Status: model.StatusPending, ConfirmationCode: "X1"}
	if _, err := m.CreateIfFree(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := m.TransitionStatus(ctx, r.ID, []model.Status{model.StatusPending}, model.StatusExpired); err != nil {
		t.Fatal(err)
	}
	if err := m.TransitionStatus(ctx, r.ID, []model.Status{model.StatusPending}, model.StatusExpired); !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("second transition err = %v", err)
	}
	if err := m.TransitionStatus(ctx, 999, []model.Status{model.StatusPending}, model.StatusExpired); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing row err = %v", err)
	}
}

func TestMemoryListExpiredHolds(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	cabinID := seedCabin(t, m)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Second), now.Add(time.Hour)

	stale := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-10"), CheckOut: mustDate(t, "2024-06-11"), Status: model.StatusPending, HoldUntil: &past, ConfirmationCode: "S1"}
	fresh := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-12"), CheckOut: mustDate(t, "2024-06-13"), Status: model.StatusPending, HoldUntil: &future, ConfirmationCode: "F1"}
	admin := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-14"), CheckOut: mustDate(t, "2024-06-15"), Status: model.StatusConfirmed, ConfirmationCode: "Q1"}
	for _, r := range []*model.Reservation{stale, fresh, admin} {
		if _, err := m.CreateIfFree(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	got, err := m.ListExpiredHolds(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != stale.ID {
		t.Fatalf("expired holds = %+v", got)
	}
}

func TestMemoryListActiveInRange(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	cabinID := seedCabin(t, m)
	mk := func(in, out string, status model.Status, code string) *model.Reservation {
		r := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, in), CheckOut: mustDate(t, out), Status: status, ConfirmationCode: code}
		if _, err := m.CreateIfFree(ctx, r); err != nil {
			t.Fatal(err)
		}
		return r
	}
	endsOnFrom := mk("2024-05-28", "2024-06-01", model.StatusConfirmed, "R1")
	inside := mk("2024-06-10", "2024-06-12", model.StatusPending, "R2")
	mk("2024-06-12", "2024-06-14", model.StatusCancelled, "R3")
	mk("2024-05-01", "2024-05-03", model.StatusConfirmed, "R4")
	mk("2024-07-01", "2024-07-03", model.StatusConfirmed, "R5")

	got, err := m.ListActiveInRange(ctx, mustDate(t, "2024-06-01"), mustDate(t, "2024-06-30"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != endsOnFrom.ID || got[1].ID != inside.ID {
		t.Fatalf("in range = %+v", got)
	}
}

func TestMemoryGetByCodeIgnoresCase(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	cabinID := seedCabin(t, m)
	r := &model.Reservation{CabinID: cabinID, CheckIn: mustDate(t, "2024-06-01"), CheckOut: mustDate(t, "2024-06-02"), Status: model.StatusPending, ConfirmationCode: "A1B2C3D4"}
	if _, err := m.CreateIfFree(ctx, r); err != nil {
		t.Fatal(err)
	}
	got, err := m.GetByCode(ctx, " a1b2c3d4 ")
	if err != nil || got.ID != r.ID {
		t.Fatalf("GetByCode = %+v, %v", got, err)
	}
	if _, err := m.GetByCode(ctx, "ZZZZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing code err = %v", err)
	}
}

func TestMemoryRefreshTokens(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	id, err := m.CreateFirstAdmin(ctx, "Owner", "secret123", 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateFirstAdmin(ctx, "second", "secret456", 4); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("second admin err = %v", err)
	}
	if err := m.StoreRefresh(ctx, id, "h1", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if got, err := m.ValidateRefresh(ctx, "h1"); err != nil || got != id {
		t.Fatalf("ValidateRefresh = %d, %v", got, err)
	}
	if revoked, err := m.RevokeByHash(ctx, "h1"); err != nil || !revoked {
		t.Fatalf("first revoke = %v, %v", revoked, err)
	}
	if revoked, _ := m.RevokeByHash(ctx, "h1"); revoked {
		t.Fatal("a token must only be revoked once")
	}
	if _, err := m.ValidateRefresh(ctx, "h1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("revoked token err = %v", err)
	}
	if err := m.StoreRefresh(ctx, id, "h2", time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateRefresh(ctx, "h2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired token err = %v", err)
	}
	if revoked, _ := m.RevokeByHash(ctx, "h2"); revoked {
		t.Fatal("expired token must not count as revoked")
	}
}

func TestMemoryRevokeByHashConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.StoreRefresh(ctx, 1, "shared", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := m.RevokeByHash(ctx, "shared"); err == nil && ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("revocations = %d, want 1", wins)
	}
}
