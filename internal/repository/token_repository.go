package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo keeps the SHA-256 hashes of admin refresh tokens in
// admin_refresh_tokens.  Raw tokens never reach the database.
type TokenRepo struct {
	DB  *sql.DB
	now func() time.Time
}

func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *TokenRepo) StoreRefresh(ctx context.Context, adminID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO admin_refresh_tokens (admin_id, token_hash, expires_at) VALUES (?, ?, ?)",
		adminID, tokenHash, exp.UTC())
	return err
}

// ValidateRefresh returns the owning admin of a live token.  Unknown,
// revoked and expired tokens all come back as ErrNotFound.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var adminID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT admin_id FROM admin_refresh_tokens
         WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?
         LIMIT 1`,
		tokenHash, r.now()).Scan(&adminID)
	return adminID, notFound(err)
}

// RevokeByHash revokes a live token and reports whether this call did it.
// The conditional update makes it the single point where a refresh token is
// spent: of two concurrent calls for the same hash only one sees true.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) (bool, error) {
	now := r.now()
	n, err := r.revoke(ctx, now, "token_hash = ? AND expires_at > ?", tokenHash, now)
	return n == 1, err
}

// RevokeAllForAdmin ends every session of an admin (logout everywhere).
func (r *TokenRepo) RevokeAllForAdmin(ctx context.Context, adminID uint64) error {
	_, err := r.revoke(ctx, r.now(), "admin_id = ?", adminID)
	return err
}

func (r *TokenRepo) revoke(ctx context.Context, now time.Time, where string, args ...any) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admin_refresh_tokens SET revoked_at = ? WHERE "+where+" AND revoked_at IS NULL",
		append([]any{now}, args...)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
