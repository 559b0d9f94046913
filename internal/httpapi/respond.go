package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"applygate/internal/auth"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "err", err)
	}
}

// writeJSONError writes an error response in JSON.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps a domain error to a status code. Errors outside the
// taxonomy are logged and returned as a generic internal failure so no
// store or transport detail leaks to the caller.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("internal_error", "err", err)
		writeJSONError(w, status, "internal server error")
		return
	}
	writeJSONError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrAlreadyExists),
		errors.Is(err, auth.ErrInvalidCode),
		errors.Is(err, auth.ErrCodeExpired),
		errors.Is(err, auth.ErrCodeStillValid),
		errors.Is(err, auth.ErrInvalidAnswers),
		errors.Is(err, auth.ErrResetFailed):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
