package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/clinicore/backend/internal/auth"
	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/pkg/httputil"
	"github.com/clinicore/backend/pkg/logger"
)

// publicPaths never require authentication. The session endpoints themselves
// must stay reachable without a session.
var publicPaths = []string{
	"/user/login",
	"/user/register",
	"/user/refresh",
	"/user/logout",
	"/user/verify-email",
	"/user/google-login",
}

// allowedContentTypes are the body formats accepted on mutating requests.
var allowedContentTypes = []string{
	"application/json",
	"multipart/form-data",
	"application/x-www-form-urlencoded",
}

// protectedPatterns mark paths that require a verified access token. Matching
// is by substring so both /user/profile/5 and any future nesting stay
// covered.
var protectedPatterns = []string{
	"/profile/",
	"/profile_update/",
	"/change_password/",
	"/patient/",
	"/doctor/",
}

// SessionGate is the request gate in front of every route. It runs three
// ordered checks: public paths pass through untouched, mutating requests
// must carry an accepted Content-Type, and protected paths must present a
// valid Bearer access token. On success the caller's identity is stored in
// the request context.
func SessionGate(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if !isAllowedContentType(r.Header.Get("Content-Type")) {
					httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorBody{
						Error: "Unsupported Content-Type",
					})
					return
				}
			}

			if !isProtectedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{
					Error: "Authorization header missing",
				})
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{
					Error: "Invalid Authorization header format",
				})
				return
			}

			userID, err := manager.Verify(parts[1], auth.TokenAccess)
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "Token expired"
				}
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: msg})
				return
			}

			ctx := auth.WithIdentity(r.Context(), domain.Identity{
				UserID:        userID,
				Token:         parts[1],
				Authenticated: true,
			})
			ctx = logger.WithUserID(ctx, strconv.FormatInt(userID, 10))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isAllowedContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, allowed := range allowedContentTypes {
		if strings.HasPrefix(ct, allowed) {
			return true
		}
	}
	return false
}

func isProtectedPath(path string) bool {
	lower := strings.ToLower(path)
	for _, p := range protectedPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
