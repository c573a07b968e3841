package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

type GalleryRepo struct {
	db *sql.DB
}

func NewGalleryRepo(db *sql.DB) *GalleryRepo { return &GalleryRepo{db: db} }

const galleryColumns = "id, title, description, image_url, display_order, is_active, created_at"

func scanGalleryImage(s rowScanner) (model.GalleryImage, error) {
	var g model.GalleryImage
	err := s.Scan(&g.ID, &g.Title, &g.Description, &g.ImageURL, &g.DisplayOrder, &g.IsActive, &g.CreatedAt)
	return g, err
}

func (r *GalleryRepo) ListGallery(ctx context.Context, activeOnly bool) ([]model.GalleryImage, error) {
	q := "SELECT " + galleryColumns + " FROM gallery_images"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY display_order, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GalleryRepo) GetGalleryImage(ctx context.Context, id uint64) (model.GalleryImage, error) {
	g, err := scanGalleryImage(r.db.QueryRowContext(ctx, "SELECT "+galleryColumns+" FROM gallery_images WHERE id = ?", id))
	return g, notFound(err)
}

func (r *GalleryRepo) CreateGalleryImage(ctx context.Context, g model.GalleryImage) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO gallery_images (title, description, image_url, display_order, is_active) VALUES (?, ?, ?, ?, ?)",
		g.Title, g.Description, g.ImageURL, g.DisplayOrder, g.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *GalleryRepo) UpdateGalleryImage(ctx context.Context, g model.GalleryImage) error {
	return execOne(ctx, r.db,
		"UPDATE gallery_images SET title = ?, description = ?, image_url = ?, display_order = ?, is_active = ? WHERE id = ?",
		g.Title, g.Description, g.ImageURL, g.DisplayOrder, g.IsActive, g.ID)
}

func (r *GalleryRepo) DeleteGalleryImage(ctx context.Context, id uint64) error {
	return execOne(ctx, r.db, "DELETE FROM gallery_images WHERE id = ?", id)
}
