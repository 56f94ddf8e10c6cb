package domain

import "time"

// Doctor is the full practitioner record returned by the profile endpoint.
type Doctor struct {
	DoctorID        int64      `json:"doctor_id"`
	FullName        string     `json:"full_name"`
	ExperienceYears float64    `json:"experience_years"`
	Gender          *string    `json:"gender"`
	PhoneNumber     string     `json:"phone_number"`
	Email           *string    `json:"email"`
	ConsultationFee *float64   `json:"consultation_fee"`
	ProfileImage    *string    `json:"profile_image"`
	JoiningDate     *time.Time `json:"joining_date"`
	Qualifications  []string   `json:"qualifications"`
}

// DoctorSummary is the trimmed row returned by the doctor list endpoint.
type DoctorSummary struct {
	DoctorID        int64    `json:"doctor_id"`
	FullName        string   `json:"full_name"`
	Gender          *string  `json:"gender"`
	Email           *string  `json:"email"`
	ConsultationFee *float64 `json:"consultation_fee"`
	Qualifications  []string `json:"qualifications"`
}

// NewDoctor carries the validated fields for practitioner onboarding.
type NewDoctor struct {
	FullName         string
	ExperienceYears  float64
	GenderID         *int64
	PhoneNumber      string
	Email            *string
	ConsultationFee  *float64
	ProfileImage     *string
	JoiningDate      *time.Time
	QualificationIDs []int64
}

// DoctorUpdate carries the validated fields for a practitioner revision.
type DoctorUpdate struct {
	FullName         string
	ExperienceYears  float64
	GenderID         *int64
	PhoneNumber      string
	Email            *string
	ConsultationFee  *float64
	ProfileImage     *string
	QualificationIDs []int64
}

// Gender is a reference row for the gender lookup endpoint.
type Gender struct {
	GenderID    int64  `json:"gender_id"`
	GenderValue string `json:"gender_value"`
}

// Qualification is a reference row for the qualification lookup endpoint.
type Qualification struct {
	QualificationID   int64  `json:"qualification_id"`
	QualificationCode string `json:"qualification_code"`
	QualificationName string `json:"qualification_name"`
}
