package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedRole(t *testing.T) {
	t.Parallel()

	assert.True(t, AllowedRole("student"))
	assert.True(t, AllowedRole("admin"))
	assert.True(t, AllowedRole("Admin"))
	assert.False(t, AllowedRole("superuser"))
	assert.False(t, AllowedRole(""))
}

func TestUser_HasRole(t *testing.T) {
	t.Parallel()

	user := &User{Roles: []string{"Student"}}

	assert.True(t, user.HasRole("student"))
	assert.True(t, user.HasRole("admin", "student"))
	assert.False(t, user.HasRole("admin"))
	assert.False(t, user.HasRole())
}

func TestAllowedStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, AllowedStatus("pending"))
	assert.True(t, AllowedStatus("Approved"))
	assert.True(t, AllowedStatus("rejected"))
	assert.False(t, AllowedStatus("withdrawn"))
	assert.False(t, AllowedStatus(""))
}

func TestUserPatch_Empty(t *testing.T) {
	t.Parallel()

	name := "Ada"
	assert.True(t, UserPatch{}.Empty())
	assert.False(t, UserPatch{Name: &name}.Empty())
}
