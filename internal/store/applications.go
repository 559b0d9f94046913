package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"applygate/internal/auth"
	"applygate/internal/models"
)

// Applications stores submitted application forms. Forms belonging to a
// soft-deleted user are moved to the archive alongside the user record.
type Applications struct {
	col     *mongo.Collection
	archive *mongo.Collection
}

// NewApplications returns an application store over the given database.
func NewApplications(db *mongo.Database) *Applications {
	return &Applications{
		col:     db.Collection("applications"),
		archive: db.Collection("deleted_applications"),
	}
}

// Create inserts a submitted form.
func (s *Applications) Create(ctx context.Context, app *models.Application) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, app); err != nil {
		return fmt.Errorf("error inserting application: %w", err)
	}
	return nil
}

// ListByUser returns all applications submitted by the user.
func (s *Applications) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("error decoding applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus sets the status of one application by its applicationId.
func (s *Applications) UpdateStatus(ctx context.Context, applicationID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"applicationId": applicationID}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// ArchiveByUser moves all of a user's applications into the archive. Called
// when the owning user is soft-deleted.
func (s *Applications) ArchiveByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("error listing applications for archive: %w", err)
	}
	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return fmt.Errorf("error decoding applications for archive: %w", err)
	}
	if len(apps) == 0 {
		return nil
	}

	docs := make([]interface{}, len(apps))
	for i := range apps {
		docs[i] = apps[i]
	}
	if _, err := s.archive.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error archiving applications: %w", err)
	}
	if _, err := s.col.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("error removing archived applications: %w", err)
	}
	return nil
}
