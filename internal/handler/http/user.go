package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicore/backend/internal/auth"
	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/service"
	apperrors "github.com/clinicore/backend/pkg/errors"
	"github.com/clinicore/backend/pkg/httputil"
	"github.com/clinicore/backend/pkg/logger"
	"github.com/clinicore/backend/pkg/validator"
)

// UserHandler serves the profile and password endpoints.
type UserHandler struct {
	users  *service.UserService
	auth   *service.AuthService
	logger *slog.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(users *service.UserService, authSvc *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, auth: authSvc, logger: logger}
}

// Profile handles GET /user/profile/{user_id}.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseID(w, chi.URLParam(r, "user_id"))
	if !ok {
		return
	}

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": profile})
}

type profileUpdateRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Mobile       *string `json:"mobile" validate:"omitempty,mobile"`
	ProfileImage *string `json:"profile_image"`
}

// UpdateProfile handles PATCH /user/profile_update/{user_id}.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	targetID, ok := httputil.ParseID(w, chi.URLParam(r, "user_id"))
	if !ok {
		return
	}

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: "Invalid token"})
		return
	}

	var req profileUpdateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	err := h.users.UpdateProfile(r.Context(), identity.UserID, targetID, domain.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Mobile:       req.Mobile,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "profile update failed",
			slog.Int64("user_id", targetID),
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorBody{
			Error: "Unexpected error while updating profile",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,min=5"`
	NewPassword string `json:"new_password" validate:"required,min=5"`
}

// ChangePassword handles PUT /user/change_password/{user_id}.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	targetID, ok := httputil.ParseID(w, chi.URLParam(r, "user_id"))
	if !ok {
		return
	}

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: "Invalid token"})
		return
	}

	if identity.UserID != targetID {
		httputil.WriteJSON(w, http.StatusForbidden, httputil.ErrorBody{
			Error: "You are not allowed to change this password",
		})
		return
	}

	var req changePasswordRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), targetID, req.OldPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
