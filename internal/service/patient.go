package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/event"
	"github.com/clinicore/backend/internal/repository"
	apperrors "github.com/clinicore/backend/pkg/errors"
)

// PatientService serves the patient record endpoints.
type PatientService struct {
	patients repository.PatientRepository
	events   event.Publisher
}

// NewPatientService creates the patient service.
func NewPatientService(patients repository.PatientRepository, events event.Publisher) *PatientService {
	return &PatientService{patients: patients, events: events}
}

// Admit creates a new patient record.
func (s *PatientService) Admit(ctx context.Context, p domain.NewPatient) (int64, error) {
	patientID, err := s.patients.Create(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return 0, apperrors.InvalidInput("Email already exists")
		}
		return 0, fmt.Errorf("admit patient: %w", err)
	}

	s.events.PatientAdmitted(ctx, event.PatientAdmittedPayload{
		PatientID: patientID,
		Name:      p.Name,
		CreatedBy: p.CreatedBy,
	})

	return patientID, nil
}

// List returns patients matching the filter along with the total match count.
func (s *PatientService) List(ctx context.Context, f domain.PatientFilter) ([]domain.PatientSummary, int, error) {
	patients, err := s.patients.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}

	count, err := s.patients.Count(ctx, f.Query, f.Category)
	if err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	return patients, count, nil
}

// Get returns the full patient record.
func (s *PatientService) Get(ctx context.Context, patientID int64) (*domain.Patient, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Patient not found of this id")
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return patient, nil
}

// Update revises a patient record.
func (s *PatientService) Update(ctx context.Context, patientID int64, upd domain.PatientUpdate) error {
	if err := s.patients.Update(ctx, patientID, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperrors.NotFound("Patient not found or inactive")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return apperrors.InvalidInput("Email is already in use by another patient")
		}
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

// Delete marks the patient inactive, recording the reason and actor.
func (s *PatientService) Delete(ctx context.Context, patientID int64, reason, deletedBy string) (int64, error) {
	id, err := s.patients.SoftDelete(ctx, patientID, reason, deletedBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NotFound("Patient not found or already inactive")
		}
		return 0, fmt.Errorf("delete patient: %w", err)
	}
	return id, nil
}
