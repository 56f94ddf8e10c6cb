package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/repository"
	apperrors "github.com/clinicore/backend/pkg/errors"
)

// UserService serves the profile endpoints.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates the user profile service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the full user record.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found of this id")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies profile changes. Users may only update their own
// profile.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID int64, upd domain.ProfileUpdate) error {
	if callerID != targetID {
		return apperrors.Forbidden("You are not allowed to update this profile")
	}

	if err := s.users.UpdateProfile(ctx, targetID, upd); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
