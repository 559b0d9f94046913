package httpapi

import (
	"encoding/json"
	"net/http"

	"applygate/internal/auth"
	"applygate/internal/store"
)

// Handlers carries the collaborators for all HTTP endpoints.
type Handlers struct {
	flow  *auth.Flow
	users *store.Users
	apps  *store.Applications
}

// NewHandlers wires the handler set.
func NewHandlers(flow *auth.Flow, users *store.Users, apps *store.Applications) *Handlers {
	return &Handlers{flow: flow, users: users, apps: apps}
}

// Health reports process liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Register starts a registration and mails a verification code.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var params auth.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	email, err := h.flow.Register(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":    "Verification code sent to your email.",
		"email":      email,
		"expires_in": "5 minutes",
	})
}

// VerifyCode confirms a pending registration and returns the first tokens.
func (h *Handlers) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Email == "" || req.Code == "" {
		writeJSONError(w, http.StatusBadRequest, "email and code are required")
		return
	}

	tokens, err := h.flow.ConfirmVerification(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// Login exchanges credentials for a token pair.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	tokens, err := h.flow.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// RefreshToken rotates a token pair from a refresh token.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	tokens, err := h.flow.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// ResendCode replaces an expired verification code.
func (h *Handlers) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.flow.ResendCode(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "A new verification code has been sent."})
}

// ForgotPassword confirms the account exists before the security questions.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.flow.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Proceed to security questions."})
}

// VerifySecurityQuestions checks recovery answers and issues a reset ticket.
func (h *Handlers) VerifySecurityQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		FirstSchool string `json:"first_school"`
		DateOfBirth string `json:"date_of_birth"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	ticket, err := h.flow.VerifySecurityAnswers(r.Context(), req.Email, req.FirstSchool, req.DateOfBirth)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reset_ticket": ticket})
}

// ResetPassword overwrites the credential given a valid reset ticket.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		ResetTicket string `json:"reset_ticket"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.NewPassword == "" {
		writeJSONError(w, http.StatusBadRequest, "new password is required")
		return
	}

	if err := h.flow.ResetPassword(r.Context(), req.Email, req.ResetTicket, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful."})
}
