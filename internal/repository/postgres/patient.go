package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/repository"
)

// PatientRepository implements repository.PatientRepository on top of the
// patient stored functions.
type PatientRepository struct {
	db DB
}

// NewPatientRepository creates a new PostgreSQL patient repository.
func NewPatientRepository(db DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p domain.NewPatient) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT create_patient($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.Name, p.DOB, p.Email, p.Mobile, p.Gender, p.BloodGroup, p.Address, p.ProfileImage, p.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create patient: %w", err)
	}

	if id == -1 {
		return 0, repository.ErrDuplicateEmail
	}
	return id, nil
}

func (r *PatientRepository) List(ctx context.Context, f domain.PatientFilter) ([]domain.PatientSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT patient_id, patient_name, email, mobile, gender, status FROM display_patients($1, $2, $3, $4)`,
		f.Query, f.Category, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var patients []domain.PatientSummary
	for rows.Next() {
		var p domain.PatientSummary
		if err := rows.Scan(&p.PatientID, &p.Name, &p.Email, &p.Mobile, &p.Gender, &p.Status); err != nil {
			return nil, fmt.Errorf("scan patient row: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patient rows: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) Count(ctx context.Context, query, category string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count_display_patients($1, $2)`,
		query, category,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return count, nil
}

func (r *PatientRepository) Get(ctx context.Context, patientID int64) (*domain.Patient, error) {
	var p domain.Patient
	err := r.db.QueryRow(ctx,
		`SELECT patient_id, patient_name, dob, email, mobile, gender, blood_group, address, profile_image, status, created_at, created_by, updated_at, updated_by, update_reason FROM display_single_patient($1)`,
		patientID,
	).Scan(
		&p.PatientID, &p.Name, &p.DOB, &p.Email, &p.Mobile, &p.Gender, &p.BloodGroup,
		&p.Address, &p.ProfileImage, &p.Status, &p.CreatedAt, &p.CreatedBy,
		&p.UpdatedAt, &p.UpdatedBy, &p.UpdateReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, patientID int64, upd domain.PatientUpdate) error {
	var result int64
	err := r.db.QueryRow(ctx,
		`SELECT update_patient($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		patientID, upd.Name, upd.DOB, upd.Email, upd.Mobile, upd.Gender,
		upd.BloodGroup, upd.Address, upd.ProfileImage, upd.UpdatedBy, upd.UpdateReason,
	).Scan(&result)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}

	switch result {
	case -1:
		return repository.ErrNotFound
	case -2:
		return repository.ErrDuplicateEmail
	}
	return nil
}

func (r *PatientRepository) SoftDelete(ctx context.Context, patientID int64, reason, deletedBy string) (int64, error) {
	var result int64
	err := r.db.QueryRow(ctx,
		`SELECT soft_delete_patient($1, $2, $3)`,
		patientID, reason, deletedBy,
	).Scan(&result)
	if err != nil {
		return 0, fmt.Errorf("soft delete patient: %w", err)
	}

	if result == 0 {
		return 0, repository.ErrNotFound
	}
	return result, nil
}
