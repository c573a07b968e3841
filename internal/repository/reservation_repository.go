package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/glamping-reservation/internal/model"
)

// ReservationRepo provides data access to the reservations table.  All
// timestamps are written in UTC; stay dates are DATE columns.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the provided database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, cabin_id, guest_name, guest_email, guest_phone, check_in, check_out,
    guests, total_price, status, confirmation_code, hold_until, payment_instructions,
    calendar_event_id, created_at, updated_at`

type rowScanner interface{ Scan(...any) error }

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		r        model.Reservation
		status   string
		hold     sql.NullTime
		calendar sql.NullString
	)
	err := s.Scan(&r.ID, &r.CabinID, &r.GuestName, &r.GuestEmail, &r.GuestPhone, &r.CheckIn, &r.CheckOut,
		&r.Guests, &r.TotalPrice, &status, &r.ConfirmationCode, &hold, &r.PaymentInstructions,
		&calendar, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	r.Status = model.Status(status)
	if hold.Valid {
		t := hold.Time.UTC()
		r.HoldUntil = &t
	}
	if calendar.Valid {
		id := calendar.String
		r.CalendarEventID = &id
	}
	return r, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryReservations(ctx context.Context, q queryer, query string, args ...any) ([]model.Reservation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetReservation returns a reservation by id or ErrNotFound.
func (r *ReservationRepo) GetReservation(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id)
	res, err := scanReservation(row)
	return res, notFound(err)
}

// GetByCode returns the reservation with the given confirmation code.  Codes
// are stored upper-case so the lookup ignores the caller's casing.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	row := r.db.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE confirmation_code = ?", code)
	res, err := scanReservation(row)
	return res, notFound(err)
}

// ListReservations returns reservations newest first.
func (r *ReservationRepo) ListReservations(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	var (
		where []string
		args  []any
	)
	if f.CabinID != 0 {
		where = append(where, "cabin_id = ?")
		args = append(args, f.CabinID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	q := "SELECT " + reservationColumns + " FROM reservations"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"
	return queryReservations(ctx, r.db, q, args...)
}

// ListActiveByCabin returns the pending and confirmed reservations of a cabin.
func (r *ReservationRepo) ListActiveByCabin(ctx context.Context, cabinID uint64) ([]model.Reservation, error) {
	return queryReservations(ctx, r.db,
		"SELECT "+reservationColumns+` FROM reservations
         WHERE cabin_id = ? AND status IN ('pending','confirmed')
         ORDER BY check_in`, cabinID)
}

// ListActiveInRange returns active reservations touching [from, to].  Both
// bounds are inclusive so a check-out day still shows up as booked.
func (r *ReservationRepo) ListActiveInRange(ctx context.Context, from, to model.Date) ([]model.Reservation, error) {
	return queryReservations(ctx, r.db,
		"SELECT "+reservationColumns+` FROM reservations
         WHERE status IN ('pending','confirmed') AND check_in <= ? AND check_out >= ?
         ORDER BY check_in, id`, to, from)
}

// ListExpiredHolds returns pending reservations whose hold ended before now.
func (r *ReservationRepo) ListExpiredHolds(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	return queryReservations(ctx, r.db,
		"SELECT "+reservationColumns+` FROM reservations
         WHERE status = 'pending' AND hold_until IS NOT NULL AND hold_until < ?
         ORDER BY id`, now.UTC())
}

// CreateIfFree locks the cabin row, re-reads the overlapping active
// reservations inside the same transaction and inserts only when there are
// none.  Concurrent callers for the same cabin serialise on the row lock, so
// at most one of two overlapping requests can commit.
func (r *ReservationRepo) CreateIfFree(ctx context.Context, res *model.Reservation) ([]model.Reservation, error) {
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

	var locked uint64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM cabins WHERE id = ? FOR UPDATE", res.CabinID).Scan(&locked); err != nil {
		return nil, notFound(err)
	}

	conflicts, err := queryReservations(ctx, tx,
		"SELECT "+reservationColumns+` FROM reservations
         WHERE cabin_id = ? AND status IN ('pending','confirmed') AND check_in < ? AND check_out > ?
         ORDER BY check_in`, res.CabinID, res.CheckOut, res.CheckIn)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	now := time.Now().UTC()
	code := strings.ToUpper(res.ConfirmationCode)
	var hold any
	if res.HoldUntil != nil {
		hold = res.HoldUntil.UTC()
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (cabin_id, guest_name, guest_email, guest_phone, check_in, check_out,
            guests, total_price, status, confirmation_code, hold_until, payment_instructions, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.CabinID, res.GuestName, res.GuestEmail, res.GuestPhone, res.CheckIn, res.CheckOut,
		res.Guests, res.TotalPrice, string(res.Status), code, hold, res.PaymentInstructions, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	res.ID = uint64(id)
	res.ConfirmationCode = code
	res.CreatedAt, res.UpdatedAt = now, now
	return nil, nil
}

// TransitionStatus performs a conditional update so that concurrent callers
// (admin actions, the expiry sweeper) cannot both move the same reservation.
func (r *ReservationRepo) TransitionStatus(ctx context.Context, id uint64, from []model.Status, to model.Status) error {
	if len(from) == 0 {
		return ErrStaleStatus
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	args := []any{string(to), id}
	for _, s := range from {
		args = append(args, string(s))
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND status IN ("+placeholders+")",
		args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Distinguish a missing row from one that already moved on.
	var exists int
	err = r.db.QueryRowContext(ctx, "SELECT 1 FROM reservations WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrStaleStatus
}

// SetCalendarEvent records the external calendar event created for a reservation.
func (r *ReservationRepo) SetCalendarEvent(ctx context.Context, id uint64, eventID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET calendar_event_id = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?", eventID, id)
	return err
}

// DeleteReservation removes the row regardless of status.
func (r *ReservationRepo) DeleteReservation(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// NewMySQLStores wires every MySQL repository around one connection pool.
func NewMySQLStores(db *sql.DB) Stores {
	return Stores{
		Cabins:       NewCabinRepo(db),
		Reservations: NewReservationRepo(db),
		Admins:       NewAdminRepo(db),
		Tokens:       NewTokenRepo(db),
		Activities:   NewActivityRepo(db),
		Gallery:      NewGalleryRepo(db),
		Reviews:      NewReviewRepo(db),
		Banners:      NewBannerRepo(db),
	}
}
