package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/backend/internal/repository"
)

func TestTokenRepositoryGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM get_refresh_token").
		WithArgs("unknown-token").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "token", "expires_at"}))

	repo := NewTokenRepository(mock)
	_, err = repo.Get(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expiresAt := time.Now().Add(168 * time.Hour)
	mock.ExpectQuery("SELECT .+ FROM get_refresh_token").
		WithArgs("token-1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "token", "expires_at"}).
			AddRow(int64(42), "token-1", expiresAt))

	repo := NewTokenRepository(mock)
	got, err := repo.Get(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "token-1", got.Token)
	assert.Equal(t, expiresAt, got.ExpiresAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryRotate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expiresAt := time.Now().Add(168 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT revoke_token").
		WithArgs("old-token").
		WillReturnRows(pgxmock.NewRows([]string{"revoke_token"}).AddRow(1))
	mock.ExpectExec("SELECT store_refresh_token").
		WithArgs(int64(42), "new-token", expiresAt).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectCommit()

	repo := NewTokenRepository(mock)
	err = repo.Rotate(context.Background(), "old-token", 42, "new-token", expiresAt)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryRotateReplayed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// The old token was already consumed: revoke_token reports no live row
	// was revoked, so the rotation must abort without storing anything.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT revoke_token").
		WithArgs("replayed-token").
		WillReturnRows(pgxmock.NewRows([]string{"revoke_token"}).AddRow(0))
	mock.ExpectRollback()

	repo := NewTokenRepository(mock)
	err = repo.Rotate(context.Background(), "replayed-token", 42, "new-token", time.Now())
	assert.ErrorIs(t, err, repository.ErrTokenConsumed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryVerifyEmail(t *testing.T) {
	tests := []struct {
		name    string
		result  int
		wantErr error
	}{
		{name: "valid token", result: 1, wantErr: nil},
		{name: "invalid or expired token", result: 0, wantErr: repository.ErrVerificationInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery("SELECT verify_email").
				WithArgs("some-token").
				WillReturnRows(pgxmock.NewRows([]string{"verify_email"}).AddRow(tt.result))

			repo := NewTokenRepository(mock)
			err = repo.VerifyEmail(context.Background(), "some-token")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTokenRepositoryRevokeAllForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("SELECT revoke_user_tokens").
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	repo := NewTokenRepository(mock)
	require.NoError(t, repo.RevokeAllForUser(context.Background(), 42))

	assert.NoError(t, mock.ExpectationsWereMet())
}
