package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/backend/internal/auth"
	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/event"
	"github.com/clinicore/backend/internal/federation"
	"github.com/clinicore/backend/internal/repository"
	"github.com/clinicore/backend/internal/service"
)

// stubUserRepo serves a single canned credential and profile.
type stubUserRepo struct {
	cred    *domain.Credential
	profile *domain.Profile
}

func (s *stubUserRepo) FindCredentialByEmail(_ context.Context, email string) (*domain.Credential, error) {
	if s.cred != nil && s.cred.Email == email {
		return s.cred, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) Register(context.Context, domain.NewUser) (int64, error) {
	return 0, repository.ErrDuplicateEmail
}

func (s *stubUserRepo) RegisterFederated(context.Context, domain.FederatedUser) (int64, error) {
	return 0, repository.ErrDuplicateEmail
}

func (s *stubUserRepo) GetProfile(_ context.Context, userID int64) (*domain.Profile, error) {
	if s.profile != nil && s.profile.UserID == userID {
		return s.profile, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) GetPasswordHash(_ context.Context, userID int64) (string, error) {
	if s.cred != nil && s.cred.UserID == userID {
		return s.cred.PasswordHash, nil
	}
	return "", repository.ErrNotFound
}

func (s *stubUserRepo) ChangePassword(context.Context, int64, string) error { return nil }

func (s *stubUserRepo) UpdateProfile(context.Context, int64, domain.ProfileUpdate) error { return nil }

// stubTokenRepo keeps the refresh ledger in a map.
type stubTokenRepo struct {
	tokens  map[string]int64
	revoked []string
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: map[string]int64{}}
}

func (s *stubTokenRepo) Store(_ context.Context, userID int64, token string, _ time.Time) error {
	s.tokens[token] = userID
	return nil
}

func (s *stubTokenRepo) Get(_ context.Context, token string) (*domain.RefreshToken, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.RefreshToken{UserID: userID, Token: token}, nil
}

func (s *stubTokenRepo) Revoke(_ context.Context, token string) error {
	delete(s.tokens, token)
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *stubTokenRepo) Rotate(_ context.Context, oldToken string, userID int64, newToken string, _ time.Time) error {
	if _, ok := s.tokens[oldToken]; !ok {
		return repository.ErrTokenConsumed
	}
	delete(s.tokens, oldToken)
	s.tokens[newToken] = userID
	return nil
}

func (s *stubTokenRepo) RevokeAllForUser(context.Context, int64) error { return nil }

func (s *stubTokenRepo) CreateEmailVerification(context.Context, int64, string, time.Time) error {
	return nil
}

func (s *stubTokenRepo) VerifyEmail(context.Context, string) error {
	return repository.ErrVerificationInvalid
}

type stubGoogleVerifier struct{}

func (stubGoogleVerifier) Verify(context.Context, string) (*federation.ClaimSet, error) {
	return nil, federation.ErrInvalidToken
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string, string) error { return nil }

type authHandlerFixture struct {
	handler *AuthHandler
	users   *stubUserRepo
	tokens  *stubTokenRepo
	manager *auth.Manager
}

func newAuthHandlerFixture(t *testing.T) *authHandlerFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &stubUserRepo{
		cred: &domain.Credential{
			UserID:        7,
			FirstName:     "Jane",
			LastName:      "Doe",
			Email:         "jane@clinic.test",
			PasswordHash:  string(hash),
			EmailVerified: true,
			RoleIDs:       "2",
		},
		profile: &domain.Profile{
			UserID:    7,
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@clinic.test",
			RoleIDs:   "2",
		},
	}
	tokens := newStubTokenRepo()
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := service.NewAuthService(users, tokens, manager, stubGoogleVerifier{}, noopMailer{}, event.NoopPublisher{}, logger, "http://localhost:3000")
	return &authHandlerFixture{
		handler: NewAuthHandler(svc, logger, 168*time.Hour, false),
		users:   users,
		tokens:  tokens,
		manager: manager,
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatal("refresh_token cookie not set")
	return nil
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Login(rec, jsonRequest(http.MethodPost, "/user/login", `{"email":"jane@clinic.test","password":"correct horse"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AccessToken string             `json:"access_token"`
		User        domain.UserSummary `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, int64(7), body.User.UserID)
	assert.Equal(t, "2", body.User.Role)

	c := refreshCookie(t, rec)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, int((168 * time.Hour).Seconds()), c.MaxAge)
	assert.NotEmpty(t, c.Value)

	// The issued refresh token must already be in the ledger.
	_, ok := f.tokens.tokens[c.Value]
	assert.True(t, ok)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Login(rec, jsonRequest(http.MethodPost, "/user/login", `{"email":"ghost@clinic.test","password":"whatever"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials (Email)"}`, rec.Body.String())
}

func TestRefreshWithoutCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Refresh(rec, jsonRequest(http.MethodPost, "/user/refresh", ``))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Refresh token missing"}`, rec.Body.String())
}

func TestRefreshRotatesCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	pair, err := f.manager.Issue(7)
	require.NoError(t, err)
	f.tokens.tokens[pair.RefreshToken] = 7

	req := jsonRequest(http.MethodPost, "/user/refresh", ``)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: pair.RefreshToken})
	rec := httptest.NewRecorder()
	f.handler.Refresh(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	c := refreshCookie(t, rec)
	assert.NotEqual(t, pair.RefreshToken, c.Value)

	// Old token is gone from the ledger, the new one is live.
	_, oldLive := f.tokens.tokens[pair.RefreshToken]
	assert.False(t, oldLive)
	_, newLive := f.tokens.tokens[c.Value]
	assert.True(t, newLive)
}

func TestRefreshReplayedCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	pair, err := f.manager.Issue(7)
	require.NoError(t, err)

	// Valid JWT with no ledger row: it was already rotated away.
	req := jsonRequest(http.MethodPost, "/user/refresh", ``)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: pair.RefreshToken})
	rec := httptest.NewRecorder()
	f.handler.Refresh(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid refresh token"}`, rec.Body.String())
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	pair, err := f.manager.Issue(7)
	require.NoError(t, err)
	f.tokens.tokens[pair.RefreshToken] = 7

	req := httptest.NewRequest(http.MethodPost, "/user/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: pair.RefreshToken})
	rec := httptest.NewRecorder()
	f.handler.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, rec.Body.String())

	c := refreshCookie(t, rec)
	assert.Negative(t, c.MaxAge)
	assert.Empty(t, c.Value)

	assert.Contains(t, f.tokens.revoked, pair.RefreshToken)
}

func TestLogoutWithoutCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/user/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, rec.Body.String())
	assert.Empty(t, f.tokens.revoked)
}

func TestGoogleLoginMissingToken(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handler.GoogleLogin(rec, jsonRequest(http.MethodPost, "/user/google-login", `{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Google token missing"}`, rec.Body.String())
}

func TestVerifyEmailMissingToken(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handler.VerifyEmail(rec, httptest.NewRequest(http.MethodPut, "/user/verify-email", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Token is required"}`, rec.Body.String())
}
