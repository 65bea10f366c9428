package sectionstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateName = errors.New("section name already exists")
	ErrNotFound      = errors.New("section not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sections")}
}

// Create inserts a new section.
func (s *Store) Create(ctx context.Context, section models.Section) (models.Section, error) {
	now := time.Now().UTC()
	section.ID = primitive.NewObjectID()
	section.CreatedAt = now
	section.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, section)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Section{}, ErrDuplicateName
		}
		return models.Section{}, err
	}
	return section, nil
}

// GetByID retrieves a section by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Section, error) {
	var section models.Section
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&section)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Section{}, ErrNotFound
		}
		return models.Section{}, err
	}
	return section, nil
}

// BySchool lists all sections of one school.
func (s *Store) BySchool(ctx context.Context, schoolID primitive.ObjectID) ([]models.Section, error) {
	cur, err := s.c.Find(ctx, bson.M{"school_id": schoolID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Section
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByName finds one school's section by its name.
func (s *Store) ByName(ctx context.Context, schoolID primitive.ObjectID, name string) (models.Section, error) {
	var section models.Section
	err := s.c.FindOne(ctx, bson.M{"school_id": schoolID, "section_name": name}).Decode(&section)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Section{}, ErrNotFound
		}
		return models.Section{}, err
	}
	return section, nil
}

// Update modifies a section's name and/or color.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
