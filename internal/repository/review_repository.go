package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewColumns = "id, guest_name, rating, comment, is_approved, display_order, created_at"

func scanReview(s rowScanner) (model.Review, error) {
	var v model.Review
	err := s.Scan(&v.ID, &v.GuestName, &v.Rating, &v.Comment, &v.IsApproved, &v.DisplayOrder, &v.CreatedAt)
	return v, err
}

// ListReviews returns reviews in display order.  Guests only see approved
// ones; the back office sees everything.
func (r *ReviewRepo) ListReviews(ctx context.Context, approvedOnly bool) ([]model.Review, error) {
	q := "SELECT " + reviewColumns + " FROM reviews"
	if approvedOnly {
		q += " WHERE is_approved = 1"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY display_order, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Review
	for rows.Next() {
		v, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *ReviewRepo) GetReview(ctx context.Context, id uint64) (model.Review, error) {
	v, err := scanReview(r.db.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id))
	return v, notFound(err)
}

func (r *ReviewRepo) CreateReview(ctx context.Context, v model.Review) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (guest_name, rating, comment, is_approved, display_order) VALUES (?, ?, ?, ?, ?)",
		v.GuestName, v.Rating, v.Comment, v.IsApproved, v.DisplayOrder)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *ReviewRepo) UpdateReview(ctx context.Context, v model.Review) error {
	return execOne(ctx, r.db,
		"UPDATE reviews SET guest_name = ?, rating = ?, comment = ?, is_approved = ?, display_order = ? WHERE id = ?",
		v.GuestName, v.Rating, v.Comment, v.IsApproved, v.DisplayOrder, v.ID)
}

func (r *ReviewRepo) DeleteReview(ctx context.Context, id uint64) error {
	return execOne(ctx, r.db, "DELETE FROM reviews WHERE id = ?", id)
}
