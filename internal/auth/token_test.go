package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applygate/internal/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret",
		Algorithm:  "HS256",
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testJWTConfig())

	access, refresh, err := svc.GenerateTokens("a@x.com", []string{"student", "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.Decode(access)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.ElementsMatch(t, []string{"student", "admin"}, claims.Roles)
	assert.Equal(t, ScopeAccess, claims.Scope)

	claims, err = svc.Decode(refresh)
	require.NoError(t, err)
	assert.Equal(t, ScopeRefresh, claims.Scope)
}

func TestTokenService_Expired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	cfg.AccessTTL = -time.Second
	svc := NewTokenService(cfg)

	access, _, err := svc.GenerateTokens("a@x.com", []string{"student"})
	require.NoError(t, err)

	_, err = svc.Decode(access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_WrongSecret(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testJWTConfig())
	access, _, err := svc.GenerateTokens("a@x.com", []string{"student"})
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "different-secret"

	_, err = NewTokenService(other).Decode(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testJWTConfig())

	_, err := svc.Decode("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_UnknownAlgorithmFallsBackToHS256(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	cfg.Algorithm = "RS256"
	svc := NewTokenService(cfg)

	access, _, err := svc.GenerateTokens("a@x.com", []string{"student"})
	require.NoError(t, err)

	_, err = svc.Decode(access)
	assert.NoError(t, err)
}
