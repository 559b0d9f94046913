package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt so the cost is fixed at construction and the
// rest of the code never touches the digest format.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the default bcrypt cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

// Hash produces a salted one-way digest. The salt is random, so equal inputs
// yield different digests across calls.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. A malformed
// digest counts as a mismatch, never an error.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// dummyDigest is compared against when no user record exists, so a login
// against an unknown email costs the same as one against a known email.
var dummyDigest, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// VerifyDummy burns one bcrypt comparison without revealing anything.
func (h *PasswordHasher) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(plaintext))
}
