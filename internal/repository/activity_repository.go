package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

// ActivityRepo provides data access to the activities table.  Includes and
// images live in JSON columns.
type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

const activityColumns = "id, name, description, short_description, price, duration, location, includes, images, icon_type, is_active, created_at, updated_at"

func scanActivity(s rowScanner) (model.Activity, error) {
	var a model.Activity
	err := s.Scan(&a.ID, &a.Name, &a.Description, &a.ShortDescription, &a.Price, &a.Duration, &a.Location,
		&a.Includes, &a.Images, &a.IconType, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// execOne runs a statement addressed to a single row and maps "no row
// matched" to ErrNotFound.
func execOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ActivityRepo) ListActivities(ctx context.Context, activeOnly bool) ([]model.Activity, error) {
	q := "SELECT " + activityColumns + " FROM activities"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ActivityRepo) GetActivity(ctx context.Context, id uint64) (model.Activity, error) {
	a, err := scanActivity(r.db.QueryRowContext(ctx, "SELECT "+activityColumns+" FROM activities WHERE id = ?", id))
	return a, notFound(err)
}

func (r *ActivityRepo) CreateActivity(ctx context.Context, a model.Activity) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (name, description, short_description, price, duration, location, includes, images, icon_type, is_active)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Description, a.ShortDescription, a.Price, a.Duration, a.Location, a.Includes, a.Images, a.IconType, a.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *ActivityRepo) UpdateActivity(ctx context.Context, a model.Activity) error {
	return execOne(ctx, r.db,
		`UPDATE activities SET name = ?, description = ?, short_description = ?, price = ?, duration = ?,
         location = ?, includes = ?, images = ?, icon_type = ?, is_active = ?, updated_at = UTC_TIMESTAMP()
         WHERE id = ?`,
		a.Name, a.Description, a.ShortDescription, a.Price, a.Duration, a.Location, a.Includes, a.Images, a.IconType, a.IsActive, a.ID)
}

// EditActivityImages locks the activity row for the read-modify-write of its
// image list.
func (r *ActivityRepo) EditActivityImages(ctx context.Context, id uint64, edit func(model.StringList) model.StringList) (model.StringList, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var images model.StringList
	if err := tx.QueryRowContext(ctx, "SELECT images FROM activities WHERE id = ? FOR UPDATE", id).Scan(&images); err != nil {
		return nil, notFound(err)
	}
	images = edit(images)
	if _, err := tx.ExecContext(ctx,
		"UPDATE activities SET images = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?", images, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return images, nil
}

func (r *ActivityRepo) DeleteActivity(ctx context.Context, id uint64) error {
	return execOne(ctx, r.db, "DELETE FROM activities WHERE id = ?", id)
}
