package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"applygate/internal/auth"
	"applygate/internal/models"
	"applygate/internal/util"
)

type contextKey struct{ name string }

var userKey = contextKey{"user"}

// AccessControl authenticates requests from bearer tokens and enforces role
// requirements.
type AccessControl struct {
	tokens *auth.TokenService
	users  auth.Directory
}

// NewAccessControl wires the guard.
func NewAccessControl(tokens *auth.TokenService, users auth.Directory) *AccessControl {
	return &AccessControl{tokens: tokens, users: users}
}

// Authenticate decodes a raw token, requires access scope and a present
// subject, and resolves the user. Every failure collapses to ErrUnauthorized.
func (a *AccessControl) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := a.tokens.Decode(rawToken)
	if err != nil {
		return nil, auth.ErrUnauthorized
	}
	if claims.Scope != auth.ScopeAccess || claims.Subject == "" {
		return nil, auth.ErrUnauthorized
	}

	user, err := a.users.FindByEmail(ctx, util.NormalizeEmail(claims.Subject))
	if err != nil {
		return nil, auth.ErrUnauthorized
	}
	return user, nil
}

// RequireAuth rejects requests without a valid access token and stores the
// authenticated user in the request context.
func (a *AccessControl) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticateRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// RequireRoles authenticates and then requires the user's role set to
// intersect the allowed set, case-insensitively.
func (a *AccessControl) RequireRoles(allowed ...string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.authenticateRequest(r)
			if err != nil {
				writeError(w, err)
				return
			}
			if !user.HasRole(allowed...) {
				writeError(w, auth.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

func (a *AccessControl) authenticateRequest(r *http.Request) (*models.User, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, auth.ErrUnauthorized
	}
	return a.Authenticate(r.Context(), raw)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// UserFrom returns the authenticated user stored by the middleware, or nil.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
