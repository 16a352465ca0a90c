package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrResetTokenInvalid covers every way a reset token can fail validation:
// unknown hash, expired, or already used. Handlers report all three the same
// way so the response does not reveal which one occurred.
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

// ResetTokenRepo persists password-reset tokens. Only the SHA-256 hash of a
// token is stored; the raw value lives solely inside the emailed link.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Store inserts a reset token hash row for an admin.
func (r *ResetTokenRepo) Store(ctx context.Context, adminID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO reset_tokens (admin_id, token_hash, expires_at) VALUES (?,?,?)",
		adminID, tokenHash, exp)
	return err
}

// Validate returns the owning admin ID if an unused, unexpired token with
// this hash exists.
func (r *ResetTokenRepo) Validate(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		adminID   uint64
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT admin_id, expires_at, used_at FROM reset_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&adminID, &expiresAt, &usedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrResetTokenInvalid
		}
		return 0, err
	}
	if usedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, ErrResetTokenInvalid
	}
	return adminID, nil
}

// MarkUsed consumes a token so the same link cannot reset a password twice.
func (r *ResetTokenRepo) MarkUsed(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE reset_tokens SET used_at=NOW() WHERE token_hash=? AND used_at IS NULL",
		tokenHash)
	return err
}

// InvalidateForAdmin voids every outstanding token for an admin. Called when
// a new reset is requested so only the latest emailed link works.
func (r *ResetTokenRepo) InvalidateForAdmin(ctx context.Context, adminID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE reset_tokens SET used_at=NOW() WHERE admin_id=? AND used_at IS NULL",
		adminID)
	return err
}
