package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"applygate/internal/auth"
	"applygate/internal/models"
)

// ResetTTL is how long a reset ticket stays redeemable.
const ResetTTL = 15 * time.Minute

// ResetTickets stores single-use password-reset tickets keyed by email.
type ResetTickets struct {
	col *mongo.Collection
	now func() time.Time
}

// NewResetTickets returns a ticket store over the given database.
func NewResetTickets(db *mongo.Database) *ResetTickets {
	return &ResetTickets{
		col: db.Collection("reset_tickets"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Issue mints a fresh ticket for the email, replacing any outstanding one.
func (s *ResetTickets) Issue(ctx context.Context, email string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := s.now()
	ticket := models.ResetTicket{
		Email:     email,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ResetTTL),
	}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": email}, ticket, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("error storing reset ticket: %w", err)
	}
	return ticket.Token, nil
}

// Redeem consumes the ticket. A missing, mismatched or expired ticket fails
// the reset; a redeemed ticket cannot be used twice.
func (s *ResetTickets) Redeem(ctx context.Context, email, token string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var ticket models.ResetTicket
	err := s.col.FindOne(ctx, bson.M{"_id": email}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return auth.ErrResetFailed
		}
		return fmt.Errorf("error retrieving reset ticket: %w", err)
	}

	if token == "" || ticket.Token != token || s.now().After(ticket.ExpiresAt) {
		return auth.ErrResetFailed
	}

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": email}); err != nil {
		return fmt.Errorf("error consuming reset ticket: %w", err)
	}
	return nil
}
