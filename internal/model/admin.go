package model

import "time"

// Admin is a back-office account allowed to manage reservations.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hash of the password.
//  CreatedAt    – creation timestamp.
type Admin struct {
    ID           uint64    // admin_users.id
    Username     string    // admin_users.username
    PasswordHash string    // admin_users.password_hash
    CreatedAt    time.Time // admin_users.created_at
}

// AdminToken models a row in `admin_refresh_tokens`.  Only the SHA-256 hash
// of the raw refresh token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  AdminID   – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil while active).
//  CreatedAt – timestamp of creation.
type AdminToken struct {
    ID        uint64     // admin_refresh_tokens.id
    AdminID   uint64     // admin_refresh_tokens.admin_id
    TokenHash string     // admin_refresh_tokens.token_hash
    ExpiresAt time.Time  // admin_refresh_tokens.expires_at
    RevokedAt *time.Time // admin_refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // admin_refresh_tokens.created_at
}
