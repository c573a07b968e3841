package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
	"github.com/iliyamo/glamping-reservation/internal/utils"
)

// MemoryStore keeps every table in process memory behind a single mutex.
// It implements every store interface of this package.
// Returned values are copies; callers never alias stored rows.
type MemoryStore struct {
	mu sync.Mutex

	now func() time.Time

	cabins       map[uint64]model.Cabin
	reservations map[uint64]model.Reservation
	admins       map[uint64]model.Admin
	tokens       map[string]model.AdminToken
	activities   map[uint64]model.Activity
	gallery      map[uint64]model.GalleryImage
	reviews      map[uint64]model.Review
	banners      map[uint64]model.HeroBanner

	nextCabin, nextReservation, nextAdmin, nextToken  uint64
	nextActivity, nextGallery, nextReview, nextBanner uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:          func() time.Time { return time.Now().UTC() },
		cabins:       map[uint64]model.Cabin{},
		reservations: map[uint64]model.Reservation{},
		admins:       map[uint64]model.Admin{},
		tokens:       map[string]model.AdminToken{},
		activities:   map[uint64]model.Activity{},
		gallery:      map[uint64]model.GalleryImage{},
		reviews:      map[uint64]model.Review{},
		banners:      map[uint64]model.HeroBanner{},
	}
}

// Stores exposes the memory store through every repository interface.
func (m *MemoryStore) Stores() Stores {
	return Stores{
		Cabins: m, Reservations: m, Admins: m, Tokens: m,
		Activities: m, Gallery: m, Reviews: m, Banners: m,
	}
}

// ----- cabins -----

func (m *MemoryStore) ListCabins(_ context.Context, activeOnly bool) ([]model.Cabin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Cabin, 0, len(m.cabins))
	for _, c := range m.cabins {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetCabin(_ context.Context, id uint64) (model.Cabin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cabins[id]
	if !ok {
		return model.Cabin{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryStore) CreateCabin(_ context.Context, c model.Cabin) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCabin++
	now := m.now()
	c.ID = m.nextCabin
	c.CreatedAt, c.UpdatedAt = now, now
	m.cabins[c.ID] = c
	return c.ID, nil
}

func (m *MemoryStore) SetCabinActive(_ context.Context, id uint64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cabins[id]
	if !ok {
		return ErrNotFound
	}
	c.IsActive = active
	c.UpdatedAt = m.now()
	m.cabins[id] = c
	return nil
}

// ----- reservations -----

func (m *MemoryStore) GetReservation(_ context.Context, id uint64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return model.Reservation{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code string) (model.Reservation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ConfirmationCode == code {
			return r, nil
		}
	}
	return model.Reservation{}, ErrNotFound
}

func (m *MemoryStore) ListReservations(_ context.Context, f ReservationFilter) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range m.reservations {
		if f.CabinID != 0 && r.CabinID != f.CabinID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) ListActiveByCabin(_ context.Context, cabinID uint64) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked(cabinID), nil
}

func (m *MemoryStore) activeLocked(cabinID uint64) []model.Reservation {
	out := []model.Reservation{}
	for _, r := range m.reservations {
		if r.CabinID == cabinID && r.Status.Active() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func (m *MemoryStore) ListActiveInRange(_ context.Context, from, to model.Date) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range m.reservations {
		if r.Status.Active() && !r.CheckIn.After(to) && !r.CheckOut.Before(from) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckIn.Before(out[j].CheckIn)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) ListExpiredHolds(_ context.Context, now time.Time) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range m.reservations {
		if r.Status == model.StatusPending && r.HoldUntil != nil && r.HoldUntil.Before(now) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) CreateIfFree(_ context.Context, r *model.Reservation) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cabins[r.CabinID]; !ok {
		return nil, ErrNotFound
	}
	var conflicts []model.Reservation
	for _, existing := range m.activeLocked(r.CabinID) {
		if existing.OverlapsRange(r.CheckIn, r.CheckOut) {
			conflicts = append(conflicts, existing)
		}
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}
	code := strings.ToUpper(r.ConfirmationCode)
	for _, existing := range m.reservations {
		if existing.ConfirmationCode == code {
			return nil, ErrDuplicateCode
		}
	}
	m.nextReservation++
	now := m.now()
	r.ID = m.nextReservation
	r.ConfirmationCode = code
	r.CreatedAt, r.UpdatedAt = now, now
	m.reservations[r.ID] = *r
	return nil, nil
}

func (m *MemoryStore) TransitionStatus(_ context.Context, id uint64, from []model.Status, to model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return ErrNotFound
	}
	allowed := false
	for _, s := range from {
		if r.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrStaleStatus
	}
	r.Status = to
	r.UpdatedAt = m.now()
	m.reservations[id] = r
	return nil
}

func (m *MemoryStore) SetCalendarEvent(_ context.Context, id uint64, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return ErrNotFound
	}
	r.CalendarEventID = &eventID
	r.UpdatedAt = m.now()
	m.reservations[id] = r
	return nil
}

func (m *MemoryStore) DeleteReservation(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(m.reservations, id)
	return nil
}

// ----- admins -----

func (m *MemoryStore) CreateFirstAdmin(_ context.Context, username, password string, cost int) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.admins) > 0 {
		return 0, ErrAdminExists
	}
	m.nextAdmin++
	m.admins[m.nextAdmin] = model.Admin{ID: m.nextAdmin, Username: username, PasswordHash: hash, CreatedAt: m.now()}
	return m.nextAdmin, nil
}

func (m *MemoryStore) GetAdminByUsername(_ context.Context, username string) (model.Admin, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return model.Admin{}, ErrNotFound
}

func (m *MemoryStore) GetAdminByID(_ context.Context, id uint64) (model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return model.Admin{}, ErrNotFound
	}
	return a, nil
}

// ----- refresh tokens -----

func (m *MemoryStore) StoreRefresh(_ context.Context, adminID uint64, tokenHash string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextToken++
	m.tokens[tokenHash] = model.AdminToken{ID: m.nextToken, AdminID: adminID, TokenHash: tokenHash, ExpiresAt: exp, CreatedAt: m.now()}
	return nil
}

func (m *MemoryStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[tokenHash]
	if !ok || t.RevokedAt != nil || m.now().After(t.ExpiresAt) {
		return 0, ErrNotFound
	}
	return t.AdminID, nil
}

func (m *MemoryStore) RevokeByHash(_ context.Context, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	t, ok := m.tokens[tokenHash]
	if !ok || t.RevokedAt != nil || now.After(t.ExpiresAt) {
		return false, nil
	}
	t.RevokedAt = &now
	m.tokens[tokenHash] = t
	return true, nil
}

func (m *MemoryStore) RevokeAllForAdmin(_ context.Context, adminID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, t := range m.tokens {
		if t.AdminID == adminID && t.RevokedAt == nil {
			t.RevokedAt = &now
			m.tokens[k] = t
		}
	}
	return nil
}
