package repository

import (
	"context"
	"slices"
	"sort"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

// byDisplayOrder sorts by display order with the id as tie-breaker.
func byDisplayOrder(order func(i int) (int, uint64)) func(i, j int) bool {
	return func(i, j int) bool {
		oi, ii := order(i)
		oj, ij := order(j)
		if oi != oj {
			return oi < oj
		}
		return ii < ij
	}
}

// ----- activities -----

func cloneActivity(a model.Activity) model.Activity {
	a.Includes = model.StringList(slices.Clone([]string(a.Includes)))
	a.Images = model.StringList(slices.Clone([]string(a.Images)))
	if a.Includes == nil {
		a.Includes = model.StringList{}
	}
	if a.Images == nil {
		a.Images = model.StringList{}
	}
	return a
}

func (m *MemoryStore) ListActivities(_ context.Context, activeOnly bool) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		if activeOnly && !a.IsActive {
			continue
		}
		out = append(out, cloneActivity(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetActivity(_ context.Context, id uint64) (model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.activities[id]
	if !ok {
		return model.Activity{}, ErrNotFound
	}
	return cloneActivity(a), nil
}

func (m *MemoryStore) CreateActivity(_ context.Context, a model.Activity) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextActivity++
	now := m.now()
	a = cloneActivity(a)
	a.ID = m.nextActivity
	a.CreatedAt, a.UpdatedAt = now, now
	m.activities[a.ID] = a
	return a.ID, nil
}

func (m *MemoryStore) UpdateActivity(_ context.Context, a model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.activities[a.ID]
	if !ok {
		return ErrNotFound
	}
	a = cloneActivity(a)
	a.CreatedAt, a.UpdatedAt = cur.CreatedAt, m.now()
	m.activities[a.ID] = a
	return nil
}

func (m *MemoryStore) EditActivityImages(_ context.Context, id uint64, edit func(model.StringList) model.StringList) (model.StringList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	a = cloneActivity(a)
	a.Images = edit(a.Images)
	a.UpdatedAt = m.now()
	m.activities[id] = cloneActivity(a)
	return a.Images, nil
}

func (m *MemoryStore) DeleteActivity(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.activities[id]; !ok {
		return ErrNotFound
	}
	delete(m.activities, id)
	return nil
}

// ----- gallery -----

func (m *MemoryStore) ListGallery(_ context.Context, activeOnly bool) ([]model.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.GalleryImage, 0, len(m.gallery))
	for _, g := range m.gallery {
		if activeOnly && !g.IsActive {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, byDisplayOrder(func(i int) (int, uint64) { return out[i].DisplayOrder, out[i].ID }))
	return out, nil
}

func (m *MemoryStore) GetGalleryImage(_ context.Context, id uint64) (model.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gallery[id]
	if !ok {
		return model.GalleryImage{}, ErrNotFound
	}
	return g, nil
}

func (m *MemoryStore) CreateGalleryImage(_ context.Context, g model.GalleryImage) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextGallery++
	g.ID = m.nextGallery
	g.CreatedAt = m.now()
	m.gallery[g.ID] = g
	return g.ID, nil
}

func (m *MemoryStore) UpdateGalleryImage(_ context.Context, g model.GalleryImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.gallery[g.ID]
	if !ok {
		return ErrNotFound
	}
	g.CreatedAt = cur.CreatedAt
	m.gallery[g.ID] = g
	return nil
}

func (m *MemoryStore) DeleteGalleryImage(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gallery[id]; !ok {
		return ErrNotFound
	}
	delete(m.gallery, id)
	return nil
}

// ----- reviews -----

func (m *MemoryStore) ListReviews(_ context.Context, approvedOnly bool) ([]model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Review, 0, len(m.reviews))
	for _, r := range m.reviews {
		if approvedOnly && !r.IsApproved {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, byDisplayOrder(func(i int) (int, uint64) { return out[i].DisplayOrder, out[i].ID }))
	return out, nil
}

func (m *MemoryStore) GetReview(_ context.Context, id uint64) (model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return model.Review{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryStore) CreateReview(_ context.Context, r model.Review) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextReview++
	r.ID = m.nextReview
	r.CreatedAt = m.now()
	m.reviews[r.ID] = r
	return r.ID, nil
}

func (m *MemoryStore) UpdateReview(_ context.Context, r model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.reviews[r.ID]
	if !ok {
		return ErrNotFound
	}
	r.CreatedAt = cur.CreatedAt
	m.reviews[r.ID] = r
	return nil
}

func (m *MemoryStore) DeleteReview(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

// ----- hero banners -----

func (m *MemoryStore) ListBanners(_ context.Context, activeOnly bool) ([]model.HeroBanner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.HeroBanner, 0, len(m.banners))
	for _, b := range m.banners {
		if activeOnly && !b.IsActive {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, byDisplayOrder(func(i int) (int, uint64) { return out[i].DisplayOrder, out[i].ID }))
	return out, nil
}

func (m *MemoryStore) GetBanner(_ context.Context, id uint64) (model.HeroBanner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.banners[id]
	if !ok {
		return model.HeroBanner{}, ErrNotFound
	}
	return b, nil
}

func (m *MemoryStore) CreateBanner(_ context.Context, b model.HeroBanner) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBanner++
	now := m.now()
	b.ID = m.nextBanner
	b.CreatedAt, b.UpdatedAt = now, now
	m.banners[b.ID] = b
	return b.ID, nil
}

func (m *MemoryStore) UpdateBanner(_ context.Context, b model.HeroBanner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.banners[b.ID]
	if !ok {
		return ErrNotFound
	}
	b.CreatedAt, b.UpdatedAt = cur.CreatedAt, m.now()
	m.banners[b.ID] = b
	return nil
}

func (m *MemoryStore) DeleteBanner(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.banners[id]; !ok {
		return ErrNotFound
	}
	delete(m.banners, id)
	return nil
}
