package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()

	digest, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "correct horse battery staple", digest)

	assert.True(t, h.Verify("correct horse battery staple", digest))
	assert.False(t, h.Verify("wrong password", digest))
}

func TestPasswordHasher_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()

	d1, err := h.Hash("same input")
	require.NoError(t, err)
	d2, err := h.Hash("same input")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
	assert.True(t, h.Verify("same input", d1))
	assert.True(t, h.Verify("same input", d2))
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()

	// Corrupted storage must read as a mismatch, never a panic or error.
	assert.False(t, h.Verify("anything", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("anything", ""))
}
