package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"applygate/internal/models"
)

// NewRouter wires all endpoints. Public auth routes sit at the root; /user
// and /submit-application require a valid access token; /admin additionally
// requires the admin role.
func NewRouter(h *Handlers, ac *AccessControl) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/verify-code", h.VerifyCode).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/token/refresh", h.RefreshToken).Methods(http.MethodPost)
	r.HandleFunc("/resend-code", h.ResendCode).Methods(http.MethodPost)
	r.HandleFunc("/forgot-password", h.ForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/verify-security-questions", h.VerifySecurityQuestions).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", h.ResetPassword).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(ac.RequireAuth)
	authed.HandleFunc("/user", h.CurrentUser).Methods(http.MethodGet)
	authed.HandleFunc("/submit-application", h.SubmitApplication).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(ac.RequireRoles(models.RoleAdmin))
	admin.HandleFunc("/students", h.ListStudents).Methods(http.MethodGet)
	admin.HandleFunc("/student/{userId}", h.UpdateStudent).Methods(http.MethodPut)
	admin.HandleFunc("/student/{userId}", h.DeleteStudent).Methods(http.MethodDelete)
	admin.HandleFunc("/student/applications/{userId}", h.StudentApplications).Methods(http.MethodGet)
	admin.HandleFunc("/application/{applicationId}/status", h.UpdateApplicationStatus).Methods(http.MethodPut)

	return r
}
