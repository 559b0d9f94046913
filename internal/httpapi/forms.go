package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"applygate/internal/auth"
	"applygate/internal/models"
)

// CurrentUser returns the authenticated user's profile.
func (h *Handlers) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		writeError(w, auth.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type applicationRequest struct {
	Educational          models.Educational           `json:"educational"`
	StudyPreferences     *models.StudyPreferences     `json:"studyPreferences,omitempty"`
	Certifications       *models.Certifications       `json:"certifications,omitempty"`
	WorkExperience       *models.WorkExperience       `json:"workExperience,omitempty"`
	FinancialInformation *models.FinancialInformation `json:"financialInformation,omitempty"`
}

// SubmitApplication stores an application form for the authenticated user.
func (h *Handlers) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		writeError(w, auth.ErrUnauthorized)
		return
	}

	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Educational.HighestQualification == (models.HighestQualification{}) {
		writeJSONError(w, http.StatusBadRequest, "highest qualification is required")
		return
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:                   uuid.NewString(),
		ApplicationID:        uuid.NewString(),
		UserID:               user.UserID,
		Educational:          req.Educational,
		StudyPreferences:     req.StudyPreferences,
		Certifications:       req.Certifications,
		WorkExperience:       req.WorkExperience,
		FinancialInformation: req.FinancialInformation,
		Status:               models.ApplicationPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := h.apps.Create(r.Context(), app); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":       "Application saved successfully.",
		"applicationId": app.ApplicationID,
	})
}
