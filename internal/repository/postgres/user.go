package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/repository"
)

// UserRepository implements repository.UserRepository on top of the
// database's stored functions. All account mutations go through those
// functions; the tables are never touched directly.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var c domain.Credential
	err := r.db.QueryRow(ctx,
		`SELECT user_id, first_name, last_name, email, password_hash, email_verified, role_ids FROM login_user($1)`,
		email,
	).Scan(&c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.PasswordHash, &c.EmailVerified, &c.RoleIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find credential by email: %w", err)
	}
	return &c, nil
}

func (r *UserRepository) Register(ctx context.Context, u domain.NewUser) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT register_user($1, $2, $3, $4, $5, $6, $7)`,
		u.FirstName, u.LastName, u.Email, u.Mobile, u.PasswordHash, u.ProfileImage, int16(u.Role),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("register user: %w", err)
	}

	switch id {
	case -1:
		return 0, repository.ErrDuplicateEmail
	case -2:
		return 0, repository.ErrInvalidRole
	}
	return id, nil
}

func (r *UserRepository) RegisterFederated(ctx context.Context, u domain.FederatedUser) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT register_user_auth_provider($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.FirstName, u.LastName, u.Email, nil, u.ProfileImage, int16(u.Role), u.AuthProvider, u.ProviderUserID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("register federated user: %w", err)
	}

	if id == -1 {
		return 0, repository.ErrDuplicateEmail
	}
	return id, nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRow(ctx,
		`SELECT user_id, first_name, last_name, email, mobile, role_ids, profile_image, status, email_verified, created_at, updated_at, last_login FROM get_user_by_id($1)`,
		userID,
	).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.Mobile, &p.RoleIDs,
		&p.ProfileImage, &p.Status, &p.EmailVerified, &p.CreatedAt, &p.UpdatedAt, &p.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return &p, nil
}

func (r *UserRepository) GetPasswordHash(ctx context.Context, userID int64) (string, error) {
	var hash *string
	err := r.db.QueryRow(ctx,
		`SELECT get_user_password_by_id($1)`,
		userID,
	).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("get user password: %w", err)
	}
	if hash == nil || *hash == "" {
		return "", repository.ErrNotFound
	}
	return *hash, nil
}

func (r *UserRepository) ChangePassword(ctx context.Context, userID int64, passwordHash string) error {
	if _, err := r.db.Exec(ctx, `SELECT change_password($1, $2)`, userID, passwordHash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) error {
	var result int
	err := r.db.QueryRow(ctx,
		`SELECT update_profile($1, $2, $3, $4, $5)`,
		userID, upd.FirstName, upd.LastName, upd.Mobile, upd.ProfileImage,
	).Scan(&result)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("update profile: unexpected result %d", result)
	}
	return nil
}
