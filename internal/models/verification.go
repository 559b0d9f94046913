package models

import "time"

// PendingVerification is a transient registration awaiting an emailed code.
// It is keyed by the normalized email, so at most one pending record exists
// per address; re-registration replaces the prior one.
type PendingVerification struct {
	Email         string    `bson:"_id"`
	Name          string    `bson:"name,omitempty"`
	ContactNumber string    `bson:"contactnumber,omitempty"`
	PasswordHash  string    `bson:"password"`
	Roles         []string  `bson:"roles"`
	FirstSchool   string    `bson:"first_school,omitempty"`
	DateOfBirth   string    `bson:"date_of_birth,omitempty"`
	Code          string    `bson:"code"`
	CreatedAt     time.Time `bson:"created_at"`
	ExpiresAt     time.Time `bson:"expires_at"`
}

// ResetTicket binds a successful security-question check to the password
// reset that follows it. Single use, short lived, keyed by normalized email.
type ResetTicket struct {
	Email     string    `bson:"_id"`
	Token     string    `bson:"token"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}
