package domain

import "time"

// Patient statuses as stored in the database.
const (
	PatientStatusActive  = "A"
	PatientStatusDeleted = "D"
)

// Patient is the full patient record returned by the detail endpoint.
type Patient struct {
	PatientID    int64      `json:"patient_id"`
	Name         string     `json:"patient_name"`
	DOB          *time.Time `json:"dob,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Mobile       *string    `json:"mobile,omitempty"`
	Gender       string     `json:"gender"`
	BloodGroup   *string    `json:"blood_group,omitempty"`
	Address      *string    `json:"address,omitempty"`
	ProfileImage *string    `json:"profile_image,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	CreatedBy    *int64     `json:"created_by,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	UpdatedBy    *int64     `json:"updated_by,omitempty"`
	UpdateReason *string    `json:"update_reason,omitempty"`
}

// PatientSummary is the trimmed row returned by the patient list endpoint.
type PatientSummary struct {
	PatientID int64   `json:"patient_id"`
	Name      string  `json:"patient_name"`
	Email     *string `json:"email"`
	Mobile    *string `json:"mobile"`
	Gender    string  `json:"gender"`
	Status    *string `json:"status,omitempty"`
}

// NewPatient carries the validated fields for patient admission.
type NewPatient struct {
	Name         string
	DOB          time.Time
	Email        *string
	Mobile       *string
	Gender       string
	BloodGroup   *string
	Address      *string
	ProfileImage *string
	CreatedBy    int64
}

// PatientUpdate carries the validated fields for a patient record revision.
// Every revision records who made it and why.
type PatientUpdate struct {
	Name         string
	DOB          *time.Time
	Email        string
	Mobile       *string
	Gender       string
	BloodGroup   *string
	Address      *string
	ProfileImage *string
	UpdatedBy    int64
	UpdateReason string
}

// PatientFilter selects which patients the list endpoint returns.
type PatientFilter struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}
