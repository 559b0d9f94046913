package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"applygate/internal/models"
	"applygate/internal/util"
)

// Directory is the durable user store the flow authenticates against.
// Implementations return ErrNotFound for missing records.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, email, passwordHash string) (bool, error)
}

// Verifications holds pending registrations awaiting an emailed code.
type Verifications interface {
	Begin(ctx context.Context, pending *models.PendingVerification) error
	Confirm(ctx context.Context, email, code string) (*models.PendingVerification, error)
	Resend(ctx context.Context, email string) (string, error)
}

// ResetTickets binds a security-question success to the reset that follows.
type ResetTickets interface {
	Issue(ctx context.Context, email string) (string, error)
	Redeem(ctx context.Context, email, token string) error
}

// Sender delivers one-time codes. Failures are logged, never surfaced.
type Sender interface {
	SendVerificationCode(to, code string) error
}

// TokenPair is the response body for every operation that authenticates.
type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	Roles        []string `json:"roles"`
	UserID       string   `json:"user_id,omitempty"`
}

// Flow orchestrates registration, verification, login, token refresh and
// password recovery on top of the stores and the token service.
type Flow struct {
	hasher        *PasswordHasher
	tokens        *TokenService
	users         Directory
	verifications Verifications
	resets        ResetTickets
	mail          Sender
	pendingTTL    time.Duration
}

// NewFlow wires the auth flow. All collaborators are required except mail,
// which may be nil in tests.
func NewFlow(hasher *PasswordHasher, tokens *TokenService, users Directory, verifications Verifications, resets ResetTickets, mail Sender) *Flow {
	return &Flow{
		hasher:        hasher,
		tokens:        tokens,
		users:         users,
		verifications: verifications,
		resets:        resets,
		mail:          mail,
		pendingTTL:    5 * time.Minute,
	}
}

// RegisterParams carries a registration candidate.
type RegisterParams struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	ContactNumber string   `json:"contactnumber"`
	Password      string   `json:"password"`
	Roles         []string `json:"roles"`
	FirstSchool   string   `json:"first_school"`
	DateOfBirth   string   `json:"date_of_birth"`
}

// Register starts a registration: validates the candidate, stores a pending
// verification and mails the code. The caller is not authenticated yet; the
// account is only created once the code is confirmed.
func (f *Flow) Register(ctx context.Context, p RegisterParams) (string, error) {
	email := util.NormalizeEmail(p.Email)
	if !util.ValidateEmail(email) {
		return "", fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if p.Password == "" {
		return "", fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	roles := p.Roles
	if len(roles) == 0 {
		roles = []string{models.RoleStudent}
	}
	for _, role := range roles {
		if !models.AllowedRole(role) {
			return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
		}
	}

	// Pre-check only; the unique index on email is the real guard against
	// a concurrent registration racing this lookup.
	exists, err := f.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return "", ErrAlreadyExists
	}

	hash, err := f.hasher.Hash(p.Password)
	if err != nil {
		return "", err
	}

	code, err := util.GenerateCode()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	pending := &models.PendingVerification{
		Email:         email,
		Name:          strings.TrimSpace(p.Name),
		ContactNumber: strings.TrimSpace(p.ContactNumber),
		PasswordHash:  hash,
		Roles:         roles,
		FirstSchool:   strings.TrimSpace(p.FirstSchool),
		DateOfBirth:   strings.TrimSpace(p.DateOfBirth),
		Code:          code,
		CreatedAt:     now,
		ExpiresAt:     now.Add(f.pendingTTL),
	}
	if err := f.verifications.Begin(ctx, pending); err != nil {
		return "", fmt.Errorf("failed to store pending verification: %w", err)
	}

	f.sendCode(email, code)
	slog.Info("registration_started", "email", email)
	return email, nil
}

// ConfirmVerification consumes the pending record and creates the account.
func (f *Flow) ConfirmVerification(ctx context.Context, email, code string) (*TokenPair, error) {
	email = util.NormalizeEmail(email)

	pending, err := f.verifications.Confirm(ctx, email, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:            uuid.NewString(),
		UserID:        uuid.NewString(),
		Name:          pending.Name,
		Email:         email,
		ContactNumber: pending.ContactNumber,
		PasswordHash:  pending.PasswordHash,
		Roles:         pending.Roles,
		FirstSchool:   pending.FirstSchool,
		DateOfBirth:   pending.DateOfBirth,
		EmailVerified: true,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.UserID, "email", email)
	return f.issueTokens(user)
}

// Login authenticates by email and password. The failure is deliberately
// generic so callers cannot probe which emails are registered.
func (f *Flow) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = util.NormalizeEmail(email)

	user, err := f.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			f.hasher.VerifyDummy(password)
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !f.hasher.Verify(password, user.PasswordHash) {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.Info("login_success", "user_id", user.UserID, "email", email)
	return f.issueTokens(user)
}

// RefreshTokens rotates an access/refresh pair from a refresh-scoped token.
// The old refresh token stays valid until its natural expiry; no server-side
// revocation list is kept.
func (f *Flow) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := f.tokens.Decode(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.Scope != ScopeRefresh || claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	user, err := f.users.FindByEmail(ctx, util.NormalizeEmail(claims.Subject))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return f.issueTokens(user)
}

// ResendCode issues a fresh code for a pending registration. The store
// rejects resends while the current code is still valid.
func (f *Flow) ResendCode(ctx context.Context, email string) error {
	email = util.NormalizeEmail(email)

	code, err := f.verifications.Resend(ctx, email)
	if err != nil {
		return err
	}

	f.sendCode(email, code)
	slog.Info("verification_code_resent", "email", email)
	return nil
}

// ForgotPassword confirms the account exists before the security-question
// step. No code or token is issued here.
func (f *Flow) ForgotPassword(ctx context.Context, email string) error {
	email = util.NormalizeEmail(email)
	_, err := f.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	return nil
}

// VerifySecurityAnswers checks the recovery answers and, on success, issues a
// single-use reset ticket that ResetPassword requires. School is compared
// case-insensitively, date of birth exactly.
func (f *Flow) VerifySecurityAnswers(ctx context.Context, email, school, dob string) (string, error) {
	email = util.NormalizeEmail(email)

	user, err := f.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user.FirstSchool == "" || user.DateOfBirth == "" {
		return "", ErrInvalidAnswers
	}
	if !strings.EqualFold(strings.TrimSpace(school), user.FirstSchool) || strings.TrimSpace(dob) != user.DateOfBirth {
		slog.Warn("security_answers_failed", "email", email)
		return "", ErrInvalidAnswers
	}

	ticket, err := f.resets.Issue(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset ticket: %w", err)
	}
	return ticket, nil
}

// ResetPassword overwrites the credential. The ticket from
// VerifySecurityAnswers is mandatory and consumed on use.
func (f *Flow) ResetPassword(ctx context.Context, email, ticket, newPassword string) error {
	email = util.NormalizeEmail(email)

	if err := f.resets.Redeem(ctx, email, ticket); err != nil {
		return err
	}

	hash, err := f.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	modified, err := f.users.UpdatePassword(ctx, email, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if !modified {
		return ErrResetFailed
	}

	slog.Info("password_reset", "email", email)
	return nil
}

func (f *Flow) issueTokens(user *models.User) (*TokenPair, error) {
	access, refresh, err := f.tokens.GenerateTokens(user.Email, user.Roles)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(f.tokens.AccessTTL().Seconds()),
		Roles:        user.Roles,
		UserID:       user.UserID,
	}, nil
}

// sendCode delivers the code in the background. Delivery failures are logged
// and never fail the parent request.
func (f *Flow) sendCode(email, code string) {
	if f.mail == nil {
		return
	}
	go func() {
		if err := f.mail.SendVerificationCode(email, code); err != nil {
			slog.Error("verification_email_failed", "email", email, "err", err)
		}
	}()
}
