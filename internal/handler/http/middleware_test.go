package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/backend/internal/auth"
)

func newGatedHandler(t *testing.T, manager *auth.Manager) (http.Handler, *int64) {
	t.Helper()

	var seenUserID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := auth.IdentityFromContext(r.Context()); ok {
			seenUserID = id.UserID
		}
		w.WriteHeader(http.StatusOK)
	})
	return SessionGate(manager)(next), &seenUserID
}

func TestSessionGatePublicPath(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	handler, _ := newGatedHandler(t, manager)

	// No Content-Type and no Authorization header: public paths skip both
	// checks entirely.
	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGateRejectsContentType(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	handler, _ := newGatedHandler(t, manager)

	tests := []struct {
		name        string
		contentType string
	}{
		{name: "missing", contentType: ""},
		{name: "xml", contentType: "application/xml"},
		{name: "plain text", contentType: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/patient/add", strings.NewReader(`{}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
			assert.JSONEq(t, `{"error":"Unsupported Content-Type"}`, rec.Body.String())
		})
	}
}

func TestSessionGateAcceptsContentTypeWithParams(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	handler, _ := newGatedHandler(t, manager)

	pair, err := manager.Issue(7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/patient/add", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGateMissingAuthorization(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	handler, _ := newGatedHandler(t, manager)

	req := httptest.NewRequest(http.MethodGet, "/user/profile/7", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authorization header missing"}`, rec.Body.String())
}

func TestSessionGateMalformedAuthorization(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	handler, _ := newGatedHandler(t, manager)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no scheme", header: "some-token"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "too many parts", header: "Bearer one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user/profile/7", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Invalid Authorization header format"}`, rec.Body.String())
		})
	}
}

func TestSessionGateExpiredToken(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	expired := auth.NewManager("test-secret", -1*time.Minute, 168*time.Hour)
	handler, _ := newGatedHandler(t, manager)

	pair, err := expired.Issue(7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/user/profile/7", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Token expired"}`, rec.Body.String())
}

func TestSessionGateRejectsRefreshTokenAsAccess(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	handler, _ := newGatedHandler(t, manager)

	pair, err := manager.Issue(7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/user/profile/7", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestSessionGateInjectsIdentity(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	handler, seenUserID := newGatedHandler(t, manager)

	pair, err := manager.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/user/profile/42", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), *seenUserID)
}

func TestSessionGateUnprotectedPathPasses(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute, 168*time.Hour)
	handler, _ := newGatedHandler(t, manager)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
