package models

import (
	"strings"
	"time"
)

// Allowed role vocabulary. Roles outside this set are rejected at registration.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// AllowedRole reports whether the role belongs to the closed vocabulary.
func AllowedRole(role string) bool {
	switch strings.ToLower(role) {
	case RoleStudent, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account in the live directory. Email is unique and
// immutable after creation; Roles is never empty once the account exists.
type User struct {
	ID            string    `bson:"_id" json:"-"`
	UserID        string    `bson:"userId" json:"userId"`
	Name          string    `bson:"name,omitempty" json:"name,omitempty"`
	Email         string    `bson:"email" json:"email"`
	ContactNumber string    `bson:"contactnumber,omitempty" json:"contactnumber,omitempty"`
	PasswordHash  string    `bson:"password" json:"-"`
	Roles         []string  `bson:"roles" json:"roles"`
	FirstSchool   string    `bson:"first_school,omitempty" json:"-"`
	DateOfBirth   string    `bson:"date_of_birth,omitempty" json:"-"`
	EmailVerified bool      `bson:"email_verified" json:"emailVerified"`
	IsActive      bool      `bson:"is_active" json:"isActive"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasRole reports whether the user holds any of the given roles. The
// comparison is case-insensitive on both sides.
func (u *User) HasRole(allowed ...string) bool {
	for _, have := range u.Roles {
		for _, want := range allowed {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// UserPatch enumerates the fields an admin may change on a student record.
// Nil fields are left untouched.
type UserPatch struct {
	Name          *string `json:"name,omitempty"`
	ContactNumber *string `json:"contactnumber,omitempty"`
}

// Empty reports whether the patch carries no updatable fields.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.ContactNumber == nil
}
