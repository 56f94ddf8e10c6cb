package repository

import (
	"context"
	"errors"
	"time"

	"github.com/clinicore/backend/internal/domain"
)

// Sentinel errors returned by repository implementations. The stored
// functions report outcomes as status codes; implementations translate
// those into these errors so callers never see raw codes.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateContact    = errors.New("email or phone number already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidReference    = errors.New("invalid gender or qualification")
	ErrTokenConsumed       = errors.New("refresh token already consumed")
	ErrVerificationInvalid = errors.New("verification token invalid or expired")
	ErrCreateFailed        = errors.New("record creation failed")
)

// UserRepository provides access to user accounts and credentials.
type UserRepository interface {
	// FindCredentialByEmail looks up the login row for the given email.
	// Returns ErrNotFound when no account exists.
	FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error)

	// Register creates a local account. Returns ErrDuplicateEmail or
	// ErrInvalidRole on rejection.
	Register(ctx context.Context, u domain.NewUser) (int64, error)

	// RegisterFederated creates an account asserted by an external identity
	// provider. The account is created pre-verified.
	RegisterFederated(ctx context.Context, u domain.FederatedUser) (int64, error)

	// GetProfile returns the full user record. Returns ErrNotFound when the
	// id does not exist.
	GetProfile(ctx context.Context, userID int64) (*domain.Profile, error)

	// GetPasswordHash returns the stored password hash for the user.
	GetPasswordHash(ctx context.Context, userID int64) (string, error)

	// ChangePassword replaces the stored password hash.
	ChangePassword(ctx context.Context, userID int64, passwordHash string) error

	// UpdateProfile applies the given profile fields.
	UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) error
}

// TokenRepository persists the refresh token ledger and email verification
// tokens.
type TokenRepository interface {
	// Store records a freshly issued refresh token.
	Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// Get returns the active ledger row for the given token, or ErrNotFound.
	Get(ctx context.Context, token string) (*domain.RefreshToken, error)

	// Revoke marks the token revoked. Revoking an unknown or already revoked
	// token is not an error.
	Revoke(ctx context.Context, token string) error

	// Rotate atomically revokes the old token and stores its replacement.
	// Returns ErrTokenConsumed when the old token was already revoked, which
	// signals a replayed refresh.
	Rotate(ctx context.Context, oldToken string, userID int64, newToken string, expiresAt time.Time) error

	// RevokeAllForUser revokes every active refresh token for the user.
	RevokeAllForUser(ctx context.Context, userID int64) error

	// CreateEmailVerification stores a single-use email verification token.
	CreateEmailVerification(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// VerifyEmail consumes a verification token. Returns
	// ErrVerificationInvalid when the token is unknown, expired, or used.
	VerifyEmail(ctx context.Context, token string) error
}

// PatientRepository provides access to patient records.
type PatientRepository interface {
	// Create admits a new patient. Returns ErrDuplicateEmail on rejection.
	Create(ctx context.Context, p domain.NewPatient) (int64, error)

	// List returns active patients matching the filter.
	List(ctx context.Context, f domain.PatientFilter) ([]domain.PatientSummary, error)

	// Count returns the number of patients matching the filter.
	Count(ctx context.Context, query, category string) (int, error)

	// Get returns the full patient record, or ErrNotFound.
	Get(ctx context.Context, patientID int64) (*domain.Patient, error)

	// Update revises a patient record. Returns ErrNotFound when the patient
	// does not exist or is inactive, ErrDuplicateEmail when the new email
	// belongs to another patient.
	Update(ctx context.Context, patientID int64, upd domain.PatientUpdate) error

	// SoftDelete marks the patient inactive, recording who and why. Returns
	// ErrNotFound when the patient does not exist or is already inactive.
	SoftDelete(ctx context.Context, patientID int64, reason, deletedBy string) (int64, error)
}

// DoctorRepository provides access to practitioner records.
type DoctorRepository interface {
	// Register onboards a new practitioner. Returns ErrDuplicateContact or
	// ErrInvalidReference on rejection.
	Register(ctx context.Context, d domain.NewDoctor) (int64, error)

	// GetProfile returns the full practitioner record, or ErrNotFound.
	GetProfile(ctx context.Context, doctorID int64) (*domain.Doctor, error)

	// List returns all practitioners.
	List(ctx context.Context) ([]domain.DoctorSummary, error)

	// Update revises a practitioner record. Returns ErrNotFound when the
	// practitioner does not exist.
	Update(ctx context.Context, doctorID int64, upd domain.DoctorUpdate) error

	// Genders returns the gender reference rows.
	Genders(ctx context.Context) ([]domain.Gender, error)

	// Qualifications returns the qualification reference rows.
	Qualifications(ctx context.Context) ([]domain.Qualification, error)
}
