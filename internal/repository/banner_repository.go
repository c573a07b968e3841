package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

type BannerRepo struct {
	db *sql.DB
}

func NewBannerRepo(db *sql.DB) *BannerRepo { return &BannerRepo{db: db} }

const bannerColumns = "id, title, description, image_url, button_text, button_url, is_active, display_order, created_at, updated_at"

func scanBanner(s rowScanner) (model.HeroBanner, error) {
	var b model.HeroBanner
	err := s.Scan(&b.ID, &b.Title, &b.Description, &b.ImageURL, &b.ButtonText, &b.ButtonURL,
		&b.IsActive, &b.DisplayOrder, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *BannerRepo) ListBanners(ctx context.Context, activeOnly bool) ([]model.HeroBanner, error) {
	q := "SELECT " + bannerColumns + " FROM hero_banners"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY display_order, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.HeroBanner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BannerRepo) GetBanner(ctx context.Context, id uint64) (model.HeroBanner, error) {
	b, err := scanBanner(r.db.QueryRowContext(ctx, "SELECT "+bannerColumns+" FROM hero_banners WHERE id = ?", id))
	return b, notFound(err)
}

func (r *BannerRepo) CreateBanner(ctx context.Context, b model.HeroBanner) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO hero_banners (title, description, image_url, button_text, button_url, is_active, display_order)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Description, b.ImageURL, b.ButtonText, b.ButtonURL, b.IsActive, b.DisplayOrder)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *BannerRepo) UpdateBanner(ctx context.Context, b model.HeroBanner) error {
	return execOne(ctx, r.db,
		`UPDATE hero_banners SET title = ?, description = ?, image_url = ?, button_text = ?, button_url = ?,
         is_active = ?, display_order = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
		b.Title, b.Description, b.ImageURL, b.ButtonText, b.ButtonURL, b.IsActive, b.DisplayOrder, b.ID)
}

func (r *BannerRepo) DeleteBanner(ctx context.Context, id uint64) error {
	return execOne(ctx, r.db, "DELETE FROM hero_banners WHERE id = ?", id)
}
