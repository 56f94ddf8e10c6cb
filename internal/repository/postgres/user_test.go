package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/repository"
)

func TestUserRepositoryFindCredentialByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM login_user").
		WithArgs("jane@clinic.test").
		WillReturnRows(pgxmock.NewRows([]string{
			"user_id", "first_name", "last_name", "email", "password_hash", "email_verified", "role_ids",
		}).AddRow(int64(7), "Jane", "Doe", "jane@clinic.test", "$2a$12$hash", true, "2"))

	repo := NewUserRepository(mock)
	cred, err := repo.FindCredentialByEmail(context.Background(), "jane@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cred.UserID)
	assert.True(t, cred.EmailVerified)
	assert.Equal(t, "2", cred.PrimaryRole())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindCredentialByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM login_user").
		WithArgs("ghost@clinic.test").
		WillReturnRows(pgxmock.NewRows([]string{
			"user_id", "first_name", "last_name", "email", "password_hash", "email_verified", "role_ids",
		}))

	repo := NewUserRepository(mock)
	_, err = repo.FindCredentialByEmail(context.Background(), "ghost@clinic.test")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryRegister(t *testing.T) {
	tests := []struct {
		name    string
		result  int64
		wantID  int64
		wantErr error
	}{
		{name: "created", result: 11, wantID: 11},
		{name: "duplicate email", result: -1, wantErr: repository.ErrDuplicateEmail},
		{name: "invalid role", result: -2, wantErr: repository.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery("SELECT register_user").
				WithArgs("Jane", "Doe", "jane@clinic.test", (*string)(nil), "$2a$12$hash", (*string)(nil), int16(2)).
				WillReturnRows(pgxmock.NewRows([]string{"register_user"}).AddRow(tt.result))

			repo := NewUserRepository(mock)
			id, err := repo.Register(context.Background(), domain.NewUser{
				FirstName:    "Jane",
				LastName:     "Doe",
				Email:        "jane@clinic.test",
				PasswordHash: "$2a$12$hash",
				Role:         domain.RolePatient,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepositoryGetPasswordHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	hash := "$2a$12$storedhash"
	mock.ExpectQuery("SELECT get_user_password_by_id").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"get_user_password_by_id"}).AddRow(&hash))

	repo := NewUserRepository(mock)
	got, err := repo.GetPasswordHash(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetPasswordHashNull(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT get_user_password_by_id").
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"get_user_password_by_id"}).AddRow(nil))

	repo := NewUserRepository(mock)
	_, err = repo.GetPasswordHash(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateProfileUnexpectedResult(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	first := "Jane"
	mock.ExpectQuery("SELECT update_profile").
		WithArgs(int64(7), &first, (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"update_profile"}).AddRow(0))

	repo := NewUserRepository(mock)
	err = repo.UpdateProfile(context.Background(), 7, domain.ProfileUpdate{FirstName: &first})
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
