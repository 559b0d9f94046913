package auth

import "errors"

// Domain errors surfaced to the HTTP boundary, which maps them to status
// codes. Anything not in this taxonomy is treated as an internal failure.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRole        = errors.New("invalid role")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrCodeStillValid     = errors.New("verification code is still valid")
	ErrInvalidAnswers     = errors.New("security answers do not match")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrResetFailed        = errors.New("password reset failed")
)
