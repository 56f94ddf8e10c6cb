package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/repository"
	"github.com/clinicore/backend/internal/service"
	"github.com/clinicore/backend/pkg/httputil"
	"github.com/clinicore/backend/pkg/validator"
)

// DoctorHandler serves the practitioner endpoints.
type DoctorHandler struct {
	doctors *service.DoctorService
	logger  *slog.Logger
}

// NewDoctorHandler creates the doctor handler.
func NewDoctorHandler(doctors *service.DoctorService, logger *slog.Logger) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, logger: logger}
}

type doctorCreateRequest struct {
	FullName         string   `json:"full_name" validate:"required,min=2,max=255"`
	ExperienceYears  float64  `json:"experience_years" validate:"gte=0"`
	GenderID         *int64   `json:"gender_id"`
	PhoneNumber      string   `json:"phone_number" validate:"required,mobile"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	ConsultationFee  *float64 `json:"consultation_fee" validate:"omitempty,gte=0"`
	ProfileImage     *string  `json:"profile_image"`
	JoiningDate      *string  `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
	QualificationIDs []int64  `json:"qualification_ids" validate:"required,min=1,dive,gte=1"`
}

// Create handles POST /doctor/add.
func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req doctorCreateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var joiningDate *time.Time
	if req.JoiningDate != nil {
		parsed, err := time.Parse(dateLayout, *req.JoiningDate)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Error: "Invalid joining date"})
			return
		}
		joiningDate = &parsed
	}

	doctorID, err := h.doctors.Register(r.Context(), domain.NewDoctor{
		FullName:         req.FullName,
		ExperienceYears:  req.ExperienceYears,
		GenderID:         req.GenderID,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		ConsultationFee:  req.ConsultationFee,
		ProfileImage:     emptyToNil(req.ProfileImage),
		JoiningDate:      joiningDate,
		QualificationIDs: req.QualificationIDs,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCreateFailed) {
			httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorBody{Error: "Unable to create doctor"})
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":   "Doctor created successfully",
		"doctor_id": doctorID,
	})
}

// List handles GET /doctor/display.
func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctors.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if doctors == nil {
		doctors = []domain.DoctorSummary{}
	}
	httputil.WriteJSON(w, http.StatusOK, doctors)
}

// Profile handles GET /doctor/display/{doctor_id}.
func (h *DoctorHandler) Profile(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := httputil.ParseID(w, chi.URLParam(r, "doctor_id"))
	if !ok {
		return
	}

	doctor, err := h.doctors.GetProfile(r.Context(), doctorID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, doctor)
}

type doctorUpdateRequest struct {
	FullName         string   `json:"full_name" validate:"required,min=2,max=255"`
	ExperienceYears  float64  `json:"experience_years" validate:"gte=0"`
	GenderID         *int64   `json:"gender_id"`
	PhoneNumber      string   `json:"phone_number" validate:"required,mobile"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	ConsultationFee  *float64 `json:"consultation_fee" validate:"omitempty,gte=0"`
	ProfileImage     *string  `json:"profile_image"`
	QualificationIDs []int64  `json:"qualification_ids" validate:"required,min=1,dive,gte=1"`
}

// Update handles PUT /doctor/update/{doctor_id}.
func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := httputil.ParseID(w, chi.URLParam(r, "doctor_id"))
	if !ok {
		return
	}

	var req doctorUpdateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	err := h.doctors.Update(r.Context(), doctorID, domain.DoctorUpdate{
		FullName:         req.FullName,
		ExperienceYears:  req.ExperienceYears,
		GenderID:         req.GenderID,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		ConsultationFee:  req.ConsultationFee,
		ProfileImage:     emptyToNil(req.ProfileImage),
		QualificationIDs: req.QualificationIDs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Doctor profile updated successfully"})
}

// Genders handles GET /doctor/genders.
func (h *DoctorHandler) Genders(w http.ResponseWriter, r *http.Request) {
	genders, err := h.doctors.Genders(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if genders == nil {
		genders = []domain.Gender{}
	}
	httputil.WriteJSON(w, http.StatusOK, genders)
}

// Qualifications handles GET /doctor/qualifications.
func (h *DoctorHandler) Qualifications(w http.ResponseWriter, r *http.Request) {
	quals, err := h.doctors.Qualifications(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if quals == nil {
		quals = []domain.Qualification{}
	}
	httputil.WriteJSON(w, http.StatusOK, quals)
}
