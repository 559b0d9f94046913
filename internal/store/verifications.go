package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"applygate/internal/auth"
	"applygate/internal/models"
	"applygate/internal/util"
)

// PendingTTL is how long a verification code stays valid.
const PendingTTL = 5 * time.Minute

// Verifications stores pending registrations keyed by normalized email.
// Expiry is lazy: stale records are rejected on lookup, not purged by a job.
type Verifications struct {
	col *mongo.Collection
	now func() time.Time
}

// NewVerifications returns a verification store over the given database.
func NewVerifications(db *mongo.Database) *Verifications {
	return &Verifications{
		col: db.Collection("verifications"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Begin upserts the pending record, replacing any prior registration attempt
// for the same email (last write wins).
func (s *Verifications) Begin(ctx context.Context, pending *models.PendingVerification) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": pending.Email}, pending, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error storing pending verification: %w", err)
	}
	return nil
}

// Confirm checks the supplied code against the pending record. On success the
// record is deleted and returned; codes are single use. An expired record is
// deleted as a side effect of the failed lookup.
func (s *Verifications) Confirm(ctx context.Context, email, code string) (*models.PendingVerification, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var pending models.PendingVerification
	err := s.col.FindOne(ctx, bson.M{"_id": email}).Decode(&pending)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving pending verification: %w", err)
	}

	if pending.Code != code {
		return nil, auth.ErrInvalidCode
	}

	if s.now().After(pending.ExpiresAt) {
		if _, err := s.col.DeleteOne(ctx, bson.M{"_id": email}); err != nil {
			return nil, fmt.Errorf("error deleting stale verification: %w", err)
		}
		return nil, auth.ErrCodeExpired
	}

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": email}); err != nil {
		return nil, fmt.Errorf("error consuming verification: %w", err)
	}
	return &pending, nil
}

// Resend replaces the code once the previous one has expired. While the old
// code is still valid the request is refused; resend is recovery from an
// expired code, not a courtesy re-send.
func (s *Verifications) Resend(ctx context.Context, email string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var pending models.PendingVerification
	err := s.col.FindOne(ctx, bson.M{"_id": email}).Decode(&pending)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", auth.ErrNotFound
		}
		return "", fmt.Errorf("error retrieving pending verification: %w", err)
	}

	if !s.now().After(pending.ExpiresAt) {
		return "", auth.ErrCodeStillValid
	}

	code, err := util.GenerateCode()
	if err != nil {
		return "", err
	}

	_, err = s.col.UpdateOne(ctx, bson.M{"_id": email}, bson.M{"$set": bson.M{
		"code":       code,
		"expires_at": s.now().Add(PendingTTL),
	}})
	if err != nil {
		return "", fmt.Errorf("error refreshing verification code: %w", err)
	}
	return code, nil
}
