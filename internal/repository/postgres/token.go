package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/repository"
)

// TokenRepository implements repository.TokenRepository. Refresh tokens live
// in a revocation ledger managed by stored functions; revoke_token is
// conditional and reports whether it actually revoked a live row, which is
// what makes single-use rotation enforceable.
type TokenRepository struct {
	db DB
}

// NewTokenRepository creates a new PostgreSQL token repository.
func NewTokenRepository(db DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if _, err := r.db.Exec(ctx, `SELECT store_refresh_token($1, $2, $3)`, userID, token, expiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Get(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.QueryRow(ctx,
		`SELECT user_id, token, expires_at FROM get_refresh_token($1)`,
		token,
	).Scan(&t.UserID, &t.Token, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return &t, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	// Best effort: revoking an unknown or already revoked token is a no-op.
	if _, err := r.db.Exec(ctx, `SELECT revoke_token($1)`, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Rotate(ctx context.Context, oldToken string, userID int64, newToken string, expiresAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rotate: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var revoked int
	if err := tx.QueryRow(ctx, `SELECT revoke_token($1)`, oldToken).Scan(&revoked); err != nil {
		return fmt.Errorf("revoke old token: %w", err)
	}
	if revoked != 1 {
		// Someone already consumed this token; the presented copy is a replay.
		return repository.ErrTokenConsumed
	}

	if _, err := tx.Exec(ctx, `SELECT store_refresh_token($1, $2, $3)`, userID, newToken, expiresAt); err != nil {
		return fmt.Errorf("store rotated token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rotate: %w", err)
	}
	return nil
}

func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `SELECT revoke_user_tokens($1)`, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (r *TokenRepository) CreateEmailVerification(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if _, err := r.db.Exec(ctx, `SELECT create_email_verification_token($1, $2, $3)`, userID, token, expiresAt); err != nil {
		return fmt.Errorf("create email verification token: %w", err)
	}
	return nil
}

func (r *TokenRepository) VerifyEmail(ctx context.Context, token string) error {
	var result int
	if err := r.db.QueryRow(ctx, `SELECT verify_email($1)`, token).Scan(&result); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	if result != 1 {
		return repository.ErrVerificationInvalid
	}
	return nil
}
