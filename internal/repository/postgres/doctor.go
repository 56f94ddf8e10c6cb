package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/repository"
)

// DoctorRepository implements repository.DoctorRepository on top of the
// practitioner stored functions.
type DoctorRepository struct {
	db DB
}

// NewDoctorRepository creates a new PostgreSQL doctor repository.
func NewDoctorRepository(db DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Register(ctx context.Context, d domain.NewDoctor) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT register_doctor($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.FullName, d.ExperienceYears, d.GenderID, d.PhoneNumber, d.Email,
		d.ConsultationFee, d.ProfileImage, d.JoiningDate, d.QualificationIDs,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("register doctor: %w", err)
	}

	switch id {
	case -1:
		return 0, repository.ErrDuplicateContact
	case -2:
		return 0, repository.ErrInvalidReference
	case -99:
		return 0, repository.ErrCreateFailed
	}
	return id, nil
}

func (r *DoctorRepository) GetProfile(ctx context.Context, doctorID int64) (*domain.Doctor, error) {
	var d domain.Doctor
	err := r.db.QueryRow(ctx,
		`SELECT doctor_id, full_name, experience_years, gender, phone_number, email, consultation_fee, profile_image, joining_date, qualifications FROM get_doctor_profile($1)`,
		doctorID,
	).Scan(
		&d.DoctorID, &d.FullName, &d.ExperienceYears, &d.Gender, &d.PhoneNumber,
		&d.Email, &d.ConsultationFee, &d.ProfileImage, &d.JoiningDate, &d.Qualifications,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}
	return &d, nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]domain.DoctorSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT doctor_id, full_name, gender, email, consultation_fee, qualifications FROM get_doctors_list()`,
	)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []domain.DoctorSummary
	for rows.Next() {
		var d domain.DoctorSummary
		if err := rows.Scan(&d.DoctorID, &d.FullName, &d.Gender, &d.Email, &d.ConsultationFee, &d.Qualifications); err != nil {
			return nil, fmt.Errorf("scan doctor row: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctor rows: %w", err)
	}
	return doctors, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctorID int64, upd domain.DoctorUpdate) error {
	var updated bool
	err := r.db.QueryRow(ctx,
		`SELECT update_doctor_profile($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doctorID, upd.FullName, upd.ExperienceYears, upd.GenderID, upd.PhoneNumber,
		upd.Email, upd.ConsultationFee, upd.ProfileImage, upd.QualificationIDs,
	).Scan(&updated)
	if err != nil {
		return fmt.Errorf("update doctor profile: %w", err)
	}
	if !updated {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DoctorRepository) Genders(ctx context.Context) ([]domain.Gender, error) {
	rows, err := r.db.Query(ctx, `SELECT gender_id, gender_value FROM get_genders()`)
	if err != nil {
		return nil, fmt.Errorf("list genders: %w", err)
	}
	defer rows.Close()

	var genders []domain.Gender
	for rows.Next() {
		var g domain.Gender
		if err := rows.Scan(&g.GenderID, &g.GenderValue); err != nil {
			return nil, fmt.Errorf("scan gender row: %w", err)
		}
		genders = append(genders, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gender rows: %w", err)
	}
	return genders, nil
}

func (r *DoctorRepository) Qualifications(ctx context.Context) ([]domain.Qualification, error) {
	rows, err := r.db.Query(ctx, `SELECT qualification_id, qualification_code, qualification_name FROM get_qualifications()`)
	if err != nil {
		return nil, fmt.Errorf("list qualifications: %w", err)
	}
	defer rows.Close()

	var quals []domain.Qualification
	for rows.Next() {
		var q domain.Qualification
		if err := rows.Scan(&q.QualificationID, &q.QualificationCode, &q.QualificationName); err != nil {
			return nil, fmt.Errorf("scan qualification row: %w", err)
		}
		quals = append(quals, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qualification rows: %w", err)
	}
	return quals, nil
}
