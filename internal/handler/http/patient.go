package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicore/backend/internal/domain"
	"github.com/clinicore/backend/internal/service"
	"github.com/clinicore/backend/pkg/httputil"
	"github.com/clinicore/backend/pkg/pagination"
	"github.com/clinicore/backend/pkg/validator"
)

const dateLayout = "2006-01-02"

// PatientHandler serves the patient record endpoints.
type PatientHandler struct {
	patients *service.PatientService
	logger   *slog.Logger
}

// NewPatientHandler creates the patient handler.
func NewPatientHandler(patients *service.PatientService, logger *slog.Logger) *PatientHandler {
	return &PatientHandler{patients: patients, logger: logger}
}

type patientCreateRequest struct {
	Name         string  `json:"patient_name" validate:"required,max=50"`
	DOB          string  `json:"dob" validate:"required,datetime=2006-01-02"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Mobile       *string `json:"mobile" validate:"omitempty,max=15"`
	Gender       string  `json:"gender" validate:"required,oneof=M F"`
	BloodGroup   *string `json:"blood_group"`
	Address      *string `json:"address"`
	ProfileImage *string `json:"profile_image"`
	CreatedBy    int64   `json:"created_by" validate:"required"`
}

// Create handles POST /patient/add.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req patientCreateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	dob, err := time.Parse(dateLayout, req.DOB)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Error: "Invalid date of birth"})
		return
	}

	patientID, err := h.patients.Admit(r.Context(), domain.NewPatient{
		Name:         req.Name,
		DOB:          dob,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Gender:       req.Gender,
		BloodGroup:   emptyToNil(req.BloodGroup),
		Address:      emptyToNil(req.Address),
		ProfileImage: req.ProfileImage,
		CreatedBy:    req.CreatedBy,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":    "Patient created successfully",
		"patient_id": patientID,
	})
}

// List handles GET /patient/display. Supports free-text search, a category
// filter, and page/page_size pagination.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "all"
	}

	params := pagination.FromRequest(r)

	patients, count, err := h.patients.List(r.Context(), domain.PatientFilter{
		Query:    query,
		Category: category,
		Limit:    params.PageSize,
		Offset:   params.Offset,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(patients, count, params))
}

// Details handles GET /patient/display/{patient_id}.
func (h *PatientHandler) Details(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.ParseID(w, chi.URLParam(r, "patient_id"))
	if !ok {
		return
	}

	patient, err := h.patients.Get(r.Context(), patientID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": patient})
}

type patientUpdateRequest struct {
	Name         string  `json:"patient_name" validate:"required,max=50"`
	DOB          *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Email        string  `json:"email" validate:"required,email"`
	Mobile       *string `json:"mobile" validate:"omitempty,max=15"`
	Gender       string  `json:"gender" validate:"required,oneof=M F"`
	BloodGroup   *string `json:"blood_group"`
	Address      *string `json:"address"`
	ProfileImage *string `json:"profile_image"`
	UpdatedBy    int64   `json:"updated_by" validate:"required"`
	UpdateReason string  `json:"update_reason" validate:"required,max=100"`
}

// Update handles PUT /patient/update/{patient_id}.
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.ParseID(w, chi.URLParam(r, "patient_id"))
	if !ok {
		return
	}

	var req patientUpdateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var dob *time.Time
	if req.DOB != nil {
		parsed, err := time.Parse(dateLayout, *req.DOB)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{Error: "Invalid date of birth"})
			return
		}
		dob = &parsed
	}

	err := h.patients.Update(r.Context(), patientID, domain.PatientUpdate{
		Name:         req.Name,
		DOB:          dob,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Gender:       req.Gender,
		BloodGroup:   emptyToNil(req.BloodGroup),
		Address:      emptyToNil(req.Address),
		ProfileImage: req.ProfileImage,
		UpdatedBy:    req.UpdatedBy,
		UpdateReason: req.UpdateReason,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":    "Patient updated successfully",
		"patient_id": patientID,
	})
}

type patientDeleteRequest struct {
	Reason   string `json:"reason" validate:"required,max=200"`
	DeleteBy string `json:"deleteBy" validate:"required,max=50"`
}

// Delete handles DELETE /patient/delete/{patient_id}. Deletion is a soft
// delete that records the reason and actor.
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	patientID, ok := httputil.ParseID(w, chi.URLParam(r, "patient_id"))
	if !ok {
		return
	}

	var req patientDeleteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	deletedID, err := h.patients.Delete(r.Context(), patientID, req.Reason, req.DeleteBy)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":    "Patient deleted successfully",
		"patient_id": deletedID,
	})
}

// emptyToNil normalizes optional text fields so blank strings are stored as
// NULL.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
