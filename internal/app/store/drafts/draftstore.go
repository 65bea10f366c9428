package draftstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("draft not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("drafts")}
}

// Create inserts a new draft.
func (s *Store) Create(ctx context.Context, draft models.Draft) (models.Draft, error) {
	draft.ID = primitive.NewObjectID()
	draft.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, draft); err != nil {
		return models.Draft{}, err
	}
	return draft, nil
}

// GetByID retrieves a draft by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Draft, error) {
	var draft models.Draft
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&draft)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Draft{}, ErrNotFound
		}
		return models.Draft{}, err
	}
	return draft, nil
}

// Find returns drafts matching the filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Draft, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Draft
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of drafts matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Delete removes a draft by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
