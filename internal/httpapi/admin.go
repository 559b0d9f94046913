package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"applygate/internal/models"
)

// ListStudents returns every live user holding the student role.
func (h *Handlers) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.users.ListByRole(r.Context(), models.RoleStudent)
	if err != nil {
		writeError(w, err)
		return
	}
	if students == nil {
		students = []models.User{}
	}
	writeJSON(w, http.StatusOK, students)
}

// UpdateStudent applies a typed patch to a student record.
func (h *Handlers) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if patch.Empty() {
		writeJSONError(w, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	if err := h.users.UpdateFields(r.Context(), userID, patch); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.FindByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteStudent soft-deletes a user: the record and their applications move
// to the archive collections.
func (h *Handlers) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := h.users.SoftDelete(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	if err := h.apps.ArchiveByUser(r.Context(), userID); err != nil {
		// The user is already archived; log and report success anyway so the
		// delete is not retried against a missing live record.
		slog.Error("application_archive_failed", "user_id", userID, "err", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted."})
}

// StudentApplications lists one student's submitted applications.
func (h *Handlers) StudentApplications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	apps, err := h.apps.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	writeJSON(w, http.StatusOK, apps)
}

// UpdateApplicationStatus sets the status of one application.
func (h *Handlers) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	applicationID := mux.Vars(r)["applicationId"]

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !models.AllowedStatus(req.Status) {
		writeJSONError(w, http.StatusBadRequest, "status must be pending, approved or rejected")
		return
	}
	req.Status = strings.ToLower(req.Status)

	if err := h.apps.UpdateStatus(r.Context(), applicationID, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"applicationId": applicationID,
		"status":        req.Status,
	})
}
