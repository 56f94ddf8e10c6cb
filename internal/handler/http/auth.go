package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/service"
	"github.com/clinicore/backend/pkg/httputil"
	"github.com/clinicore/backend/pkg/validator"
)

// AuthHandler serves the session lifecycle endpoints.
type AuthHandler struct {
	auth          *service.AuthService
	logger        *slog.Logger
	refreshTTL    time.Duration
	secureCookies bool
}

// NewAuthHandler creates the authentication handler. secureCookies should be
// false only in development, where the frontend is served over plain HTTP.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		logger:        logger,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

type sessionResponse struct {
	AccessToken string             `json:"access_token"`
	User        domain.UserSummary `json:"user"`
}

// Login handles POST /user/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeSession(w, result)
}

type registerRequest struct {
	FirstName    string  `json:"first_name" validate:"required,min=2,max=100"`
	LastName     string  `json:"last_name" validate:"required,min=2,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Mobile       *string `json:"mobile" validate:"omitempty,mobile"`
	Password     string  `json:"password" validate:"required,min=5"`
	Role         int16   `json:"role" validate:"required,oneof=1 2 3 4 5"`
	ProfileImage *string `json:"profile_image"`
}

// Register handles POST /user/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Password:     req.Password,
		Role:         domain.Role(req.Role),
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if !result.EmailSent {
		httputil.WriteJSON(w, http.StatusCreated, map[string]any{
			"message": "Registration successful. Verification email could not be sent; contact support or resend verification.",
			"user_id": result.UserID,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful. Please verify your email.",
	})
}

// Refresh handles POST /user/refresh. The refresh token travels only in the
// HttpOnly cookie, never in the body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	presented := refreshTokenFromRequest(r)
	if presented == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: "Refresh token missing"})
		return
	}

	result, err := h.auth.Refresh(r.Context(), presented)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeSession(w, result)
}

// Logout handles POST /user/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), refreshTokenFromRequest(r))
	clearRefreshCookie(w, h.secureCookies)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// VerifyEmail handles PUT /user/verify-email?token=...
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.auth.VerifyEmail(r.Context(), token); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
}

// GoogleLogin handles POST /user/google-login.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if req.IDToken == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Error: "Google token missing"})
		return
	}

	result, err := h.auth.GoogleLogin(r.Context(), req.IDToken)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeSession(w, result)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, result *service.SessionResult) {
	setRefreshCookie(w, result.Tokens.RefreshToken, h.refreshTTL, h.secureCookies)
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		AccessToken: result.Tokens.AccessToken,
		User:        result.User,
	})
}
