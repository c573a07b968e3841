package repository

import (
	"context"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

// CabinStore reads and maintains bookable cabins.
type CabinStore interface {
	ListCabins(ctx context.Context, activeOnly bool) ([]model.Cabin, error)
	GetCabin(ctx context.Context, id uint64) (model.Cabin, error)
	CreateCabin(ctx context.Context, c model.Cabin) (uint64, error)
	SetCabinActive(ctx context.Context, id uint64, active bool) error
}

// ReservationFilter narrows ListReservations.  Zero values match everything.
type ReservationFilter struct {
	CabinID uint64
	Status  model.Status
}

// ReservationStore persists reservations.  Implementations must make
// CreateIfFree atomic with respect to other CreateIfFree calls for the same
// cabin.
type ReservationStore interface {
	GetReservation(ctx context.Context, id uint64) (model.Reservation, error)
	// GetByCode looks a reservation up by its confirmation code, ignoring case.
	GetByCode(ctx context.Context, code string) (model.Reservation, error)
	// ListReservations returns reservations newest first.
	ListReservations(ctx context.Context, f ReservationFilter) ([]model.Reservation, error)
	// ListActiveByCabin returns the pending and confirmed reservations of a
	// cabin ordered by check-in.
	ListActiveByCabin(ctx context.Context, cabinID uint64) ([]model.Reservation, error)
	// ListActiveInRange returns the pending and confirmed reservations of
	// every cabin whose [CheckIn, CheckOut] touches [from, to], ordered by
	// check-in.
	ListActiveInRange(ctx context.Context, from, to model.Date) ([]model.Reservation, error)
	// ListExpiredHolds returns pending reservations whose hold deadline is
	// before now.
	ListExpiredHolds(ctx context.Context, now time.Time) ([]model.Reservation, error)
	// CreateIfFree inserts r unless an active reservation of the same cabin
	// overlaps [r.CheckIn, r.CheckOut).  When it does, nothing is written and
	// the overlapping reservations are returned.  On success r.ID and the
	// timestamps are filled in.
	CreateIfFree(ctx context.Context, r *model.Reservation) ([]model.Reservation, error)
	// TransitionStatus moves a reservation to `to` only if its current status
	// is one of `from`.  It returns ErrNotFound or ErrStaleStatus otherwise.
	TransitionStatus(ctx context.Context, id uint64, from []model.Status, to model.Status) error
	SetCalendarEvent(ctx context.Context, id uint64, eventID string) error
	DeleteReservation(ctx context.Context, id uint64) error
}

// AdminStore manages back-office accounts.
type AdminStore interface {
	// CreateFirstAdmin creates the account only while no admin exists.  The
	// check and the insert are one atomic step; losers get ErrAdminExists.
	CreateFirstAdmin(ctx context.Context, username, password string, cost int) (uint64, error)
	GetAdminByUsername(ctx context.Context, username string) (model.Admin, error)
	GetAdminByID(ctx context.Context, id uint64) (model.Admin, error)
}

// TokenStore persists hashed admin refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, adminID uint64, tokenHash string, exp time.Time) error
	// ValidateRefresh returns the admin id of a non-revoked, non-expired token.
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	// RevokeByHash revokes a live token.  It reports false when the token
	// was unknown, expired or already revoked, so callers can use it to
	// spend a token exactly once.
	RevokeByHash(ctx context.Context, tokenHash string) (bool, error)
	RevokeAllForAdmin(ctx context.Context, adminID uint64) error
}

// ActivityStore maintains the activities offered next to a stay.
type ActivityStore interface {
	// ListActivities returns activities ordered by id.
	ListActivities(ctx context.Context, activeOnly bool) ([]model.Activity, error)
	GetActivity(ctx context.Context, id uint64) (model.Activity, error)
	CreateActivity(ctx context.Context, a model.Activity) (uint64, error)
	// UpdateActivity overwrites every editable column of a.ID.
	UpdateActivity(ctx context.Context, a model.Activity) error
	// EditActivityImages applies edit to the stored image list and saves
	// the result in one step, so concurrent edits are not lost.
	EditActivityImages(ctx context.Context, id uint64, edit func(model.StringList) model.StringList) (model.StringList, error)
	DeleteActivity(ctx context.Context, id uint64) error
}

// GalleryStore maintains the public photo gallery.
type GalleryStore interface {
	// ListGallery returns images ordered by display order, then id.
	ListGallery(ctx context.Context, activeOnly bool) ([]model.GalleryImage, error)
	GetGalleryImage(ctx context.Context, id uint64) (model.GalleryImage, error)
	CreateGalleryImage(ctx context.Context, g model.GalleryImage) (uint64, error)
	UpdateGalleryImage(ctx context.Context, g model.GalleryImage) error
	DeleteGalleryImage(ctx context.Context, id uint64) error
}

// ReviewStore maintains guest reviews.
type ReviewStore interface {
	// ListReviews returns reviews ordered by display order, then id.
	ListReviews(ctx context.Context, approvedOnly bool) ([]model.Review, error)
	GetReview(ctx context.Context, id uint64) (model.Review, error)
	CreateReview(ctx context.Context, r model.Review) (uint64, error)
	UpdateReview(ctx context.Context, r model.Review) error
	DeleteReview(ctx context.Context, id uint64) error
}

// BannerStore maintains the landing page hero banners.
type BannerStore interface {
	// ListBanners returns banners ordered by display order, then id.
	ListBanners(ctx context.Context, activeOnly bool) ([]model.HeroBanner, error)
	GetBanner(ctx context.Context, id uint64) (model.HeroBanner, error)
	CreateBanner(ctx context.Context, b model.HeroBanner) (uint64, error)
	UpdateBanner(ctx context.Context, b model.HeroBanner) error
	DeleteBanner(ctx context.Context, id uint64) error
}

// Stores groups the repositories the application is wired with.
type Stores struct {
	Cabins       CabinStore
	Reservations ReservationStore
	Admins       AdminStore
	Tokens       TokenStore
	Activities   ActivityStore
	Gallery      GalleryStore
	Reviews      ReviewStore
	Banners      BannerStore
}
