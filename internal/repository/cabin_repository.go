package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

// CabinRepo provides data access to the cabins table.
type CabinRepo struct {
	db *sql.DB
}

// NewCabinRepo returns a CabinRepo bound to the provided database.
func NewCabinRepo(db *sql.DB) *CabinRepo { return &CabinRepo{db: db} }

const cabinColumns = "id, name, weekday_price, weekend_price, max_guests, is_active, created_at, updated_at"

func scanCabin(s rowScanner) (model.Cabin, error) {
	var c model.Cabin
	err := s.Scan(&c.ID, &c.Name, &c.WeekdayPrice, &c.WeekendPrice, &c.MaxGuests, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListCabins returns cabins ordered by id, optionally only the active ones.
func (r *CabinRepo) ListCabins(ctx context.Context, activeOnly bool) ([]model.Cabin, error) {
	q := "SELECT " + cabinColumns + " FROM cabins"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	q += " ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Cabin
	for rows.Next() {
		c, err := scanCabin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCabin returns a cabin by id or ErrNotFound.
func (r *CabinRepo) GetCabin(ctx context.Context, id uint64) (model.Cabin, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+cabinColumns+" FROM cabins WHERE id = ?", id)
	c, err := scanCabin(row)
	return c, notFound(err)
}

// CreateCabin inserts a cabin and returns the new id.
func (r *CabinRepo) CreateCabin(ctx context.Context, c model.Cabin) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cabins (name, weekday_price, weekend_price, max_guests, is_active)
         VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.WeekdayPrice, c.WeekendPrice, c.MaxGuests, c.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetCabinActive toggles the booking flag.  Cabins are never hard-deleted.
func (r *CabinRepo) SetCabinActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE cabins SET is_active = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?", active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
