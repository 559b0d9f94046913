package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applygate/internal/auth"
	"applygate/internal/config"
	"applygate/internal/models"
)

type stubDirectory struct {
	users map[string]*models.User
}

func (d *stubDirectory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := d.users[email]; ok {
		return user, nil
	}
	return nil, auth.ErrNotFound
}

func (d *stubDirectory) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := d.users[email]
	return ok, nil
}

func (d *stubDirectory) Create(_ context.Context, user *models.User) error {
	d.users[user.Email] = user
	return nil
}

func (d *stubDirectory) UpdatePassword(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func testTokenService() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		Secret:     "test-secret",
		Algorithm:  "HS256",
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	})
}

func fixture(t *testing.T, roles ...string) (*AccessControl, *auth.TokenService) {
	t.Helper()
	dir := &stubDirectory{users: map[string]*models.User{
		"a@x.com": {
			UserID: "u-1",
			Email:  "a@x.com",
			Roles:  roles,
		},
	}}
	tokens := testTokenService()
	return NewAccessControl(tokens, dir), tokens
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, handler http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	ac, tokens := fixture(t, "student")
	ctx := context.Background()

	access, refresh, err := tokens.GenerateTokens("a@x.com", []string{"student"})
	require.NoError(t, err)

	user, err := ac.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)

	// A refresh token is never accepted where an access token is required.
	_, err = ac.Authenticate(ctx, refresh)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = ac.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	t.Parallel()

	ac, tokens := fixture(t, "student")

	access, _, err := tokens.GenerateTokens("ghost@x.com", []string{"student"})
	require.NoError(t, err)

	_, err = ac.Authenticate(context.Background(), access)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	ac, tokens := fixture(t, "student")
	handler := ac.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		require.NotNil(t, user)
		assert.Equal(t, "a@x.com", user.Email)
		w.WriteHeader(http.StatusOK)
	}))

	access, _, err := tokens.GenerateTokens("a@x.com", []string{"student"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(t, handler, access).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, handler, "").Code)
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userRoles []string
		want      int
	}{
		{"student denied", []string{"student"}, http.StatusForbidden},
		{"admin admitted", []string{"admin"}, http.StatusOK},
		{"case-insensitive admin admitted", []string{"Admin"}, http.StatusOK},
		{"mixed roles admitted", []string{"student", "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ac, tokens := fixture(t, tt.userRoles...)
			handler := ac.RequireRoles(models.RoleAdmin)(okHandler())

			access, _, err := tokens.GenerateTokens("a@x.com", tt.userRoles)
			require.NoError(t, err)

			assert.Equal(t, tt.want, doRequest(t, handler, access).Code)
		})
	}
}

func TestRequireRoles_ExpiredToken(t *testing.T) {
	t.Parallel()

	ac, _ := fixture(t, "admin")
	expired := auth.NewTokenService(config.JWTConfig{
		Secret:    "test-secret",
		Algorithm: "HS256",
		AccessTTL: -time.Second,
	})

	access, _, err := expired.GenerateTokens("a@x.com", []string{"admin"})
	require.NoError(t, err)

	handler := ac.RequireRoles(models.RoleAdmin)(okHandler())
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, handler, access).Code)
}
