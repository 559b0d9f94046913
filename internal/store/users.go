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
)

const opTimeout = 5 * time.Second

// Users is the durable user directory. Live records sit in the users
// collection; soft-deleted ones are moved to the archive collection.
type Users struct {
	col     *mongo.Collection
	archive *mongo.Collection
}

// NewUsers returns a directory over the given database.
func NewUsers(db *mongo.Database) *Users {
	return &Users{
		col:     db.Collection("users"),
		archive: db.Collection("deleted_users"),
	}
}

// EnsureIndexes creates the unique email index. This index, not the
// existence pre-check in the flow, is what makes email uniqueness hold
// under concurrent registrations.
func (s *Users) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// FindByEmail returns the live user with the given (normalized) email.
func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return &user, nil
}

// FindByUserID returns the live user with the given userId.
func (s *Users) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return &user, nil
}

// ExistsByEmail reports whether a live user exists for the email.
func (s *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, err := s.col.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("error checking existing user: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new user. A duplicate email surfaces as ErrAlreadyExists
// via the unique index.
func (s *Users) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrAlreadyExists
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// UpdateFields applies an admin patch to a user. Returns ErrNotFound when no
// record matches the userId.
func (s *Users) UpdateFields(ctx context.Context, userID string, patch models.UserPatch) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.ContactNumber != nil {
		set["contactnumber"] = *patch.ContactNumber
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// UpdatePassword overwrites the stored credential for the email. The bool
// reports whether a record was actually modified.
func (s *Users) UpdatePassword(ctx context.Context, email, passwordHash string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{
		"password":   passwordHash,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return false, fmt.Errorf("error updating password: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// SoftDelete moves a user from the live set into the archive. The record is
// preserved; only its membership in the live directory changes.
func (s *Users) SoftDelete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return auth.ErrNotFound
		}
		return fmt.Errorf("error retrieving user: %w", err)
	}

	if _, err := s.archive.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("error archiving user: %w", err)
	}
	if _, err := s.col.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("error removing user from live set: %w", err)
	}
	return nil
}

// ListByRole returns all live users holding the given role.
func (s *Users) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{"roles": role})
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}
