package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/repository"
	apperrors "github.com/clinicore/backend/pkg/errors"
)

// DoctorService serves the practitioner endpoints.
type DoctorService struct {
	doctors repository.DoctorRepository
}

// NewDoctorService creates the doctor service.
func NewDoctorService(doctors repository.DoctorRepository) *DoctorService {
	return &DoctorService{doctors: doctors}
}

// Register onboards a new practitioner.
func (s *DoctorService) Register(ctx context.Context, d domain.NewDoctor) (int64, error) {
	if hasDuplicateIDs(d.QualificationIDs) {
		return 0, apperrors.InvalidInput("Duplicate qualification IDs are not allowed.")
	}

	doctorID, err := s.doctors.Register(ctx, d)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateContact):
			return 0, apperrors.InvalidInput("Email or phone number already exists")
		case errors.Is(err, repository.ErrInvalidReference):
			return 0, apperrors.InvalidInput("Invalid gender or qualification")
		}
		return 0, fmt.Errorf("register doctor: %w", err)
	}
	return doctorID, nil
}

// GetProfile returns the full practitioner record.
func (s *DoctorService) GetProfile(ctx context.Context, doctorID int64) (*domain.Doctor, error) {
	doctor, err := s.doctors.GetProfile(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Doctor not found")
		}
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}
	return doctor, nil
}

// List returns all practitioners.
func (s *DoctorService) List(ctx context.Context) ([]domain.DoctorSummary, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// Update revises a practitioner record.
func (s *DoctorService) Update(ctx context.Context, doctorID int64, upd domain.DoctorUpdate) error {
	if hasDuplicateIDs(upd.QualificationIDs) {
		return apperrors.InvalidInput("Duplicate qualification IDs are not allowed.")
	}

	if err := s.doctors.Update(ctx, doctorID, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.InvalidInput("Doctor not found or update failed")
		}
		return fmt.Errorf("update doctor: %w", err)
	}
	return nil
}

// Genders returns the gender reference rows.
func (s *DoctorService) Genders(ctx context.Context) ([]domain.Gender, error) {
	genders, err := s.doctors.Genders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genders: %w", err)
	}
	return genders, nil
}

// Qualifications returns the qualification reference rows.
func (s *DoctorService) Qualifications(ctx context.Context) ([]domain.Qualification, error) {
	quals, err := s.doctors.Qualifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list qualifications: %w", err)
	}
	return quals, nil
}

func hasDuplicateIDs(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
