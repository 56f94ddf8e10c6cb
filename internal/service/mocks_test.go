package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/event"
	"github.com/clinicore/backend/internal/federation"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	args := m.Called(ctx, email)
	if c, ok := args.Get(0).(*domain.Credential); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Register(ctx context.Context, u domain.NewUser) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) RegisterFederated(ctx context.Context, u domain.FederatedUser) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*domain.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetPasswordHash(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepo) ChangePassword(ctx context.Context, userID int64, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) error {
	args := m.Called(ctx, userID, upd)
	return args.Error(0)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *mockTokenRepo) Get(ctx context.Context, token string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if t, ok := args.Get(0).(*domain.RefreshToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenRepo) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepo) Rotate(ctx context.Context, oldToken string, userID int64, newToken string, expiresAt time.Time) error {
	args := m.Called(ctx, oldToken, userID, newToken, expiresAt)
	return args.Error(0)
}

func (m *mockTokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockTokenRepo) CreateEmailVerification(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *mockTokenRepo) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, rawToken string) (*federation.ClaimSet, error) {
	args := m.Called(ctx, rawToken)
	if c, ok := args.Get(0).(*federation.ClaimSet); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeMailer records sends instead of delivering.
type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, _, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

// eventRecorder captures published domain events.
type eventRecorder struct {
	registered      []event.UserRegisteredPayload
	passwordChanged []event.PasswordChangedPayload
	admitted        []event.PatientAdmittedPayload
}

func (r *eventRecorder) UserRegistered(_ context.Context, p event.UserRegisteredPayload) {
	r.registered = append(r.registered, p)
}

func (r *eventRecorder) PasswordChanged(_ context.Context, p event.PasswordChangedPayload) {
	r.passwordChanged = append(r.passwordChanged, p)
}

func (r *eventRecorder) PatientAdmitted(_ context.Context, p event.PatientAdmittedPayload) {
	r.admitted = append(r.admitted, p)
}
