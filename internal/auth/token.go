package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"applygate/internal/config"
)

// Token scopes. A token is only accepted for the scope it was minted with.
const (
	ScopeAccess  = "access"
	ScopeRefresh = "refresh"
)

// Claims carried by every signed token.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
	Scope string   `json:"scope"`
}

// TokenService issues and validates signed access/refresh tokens.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds a service from the JWT section of the config.
// Only HMAC signing methods are supported; unknown algorithms fall back to HS256.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		method = jwt.SigningMethodHS256
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// GenerateTokens mints an access/refresh pair for the given identity.
func (s *TokenService) GenerateTokens(email string, roles []string) (access, refresh string, err error) {
	access, err = s.generate(email, roles, ScopeAccess, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.generate(email, roles, ScopeRefresh, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *TokenService) generate(email string, roles []string, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: roles,
		Scope: scope,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", scope, err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the claims. Expired tokens
// map to ErrTokenExpired, everything else wrong with the token to ErrInvalidToken.
func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTTL exposes the access-token lifetime for expires_in responses.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}
