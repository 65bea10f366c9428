package classstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicate = errors.New("class already exists")
	ErrNotFound  = errors.New("class not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("school_classes")}
}

// Create inserts a new class. Capacity defaults to
// models.DefaultClassCapacity when unset.
func (s *Store) Create(ctx context.Context, class models.SchoolClass) (models.SchoolClass, error) {
	now := time.Now().UTC()
	class.ID = primitive.NewObjectID()
	if class.ClassCapacity == 0 {
		class.ClassCapacity = models.DefaultClassCapacity
	}
	class.CreatedAt = now
	class.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, class)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.SchoolClass{}, ErrDuplicate
		}
		return models.SchoolClass{}, err
	}
	return class, nil
}

// GetByID retrieves a class by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.SchoolClass, error) {
	var class models.SchoolClass
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&class)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.SchoolClass{}, ErrNotFound
		}
		return models.SchoolClass{}, err
	}
	return class, nil
}

// Find returns classes matching the filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.SchoolClass, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.SchoolClass
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of classes matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// CountByName counts classes sharing (class_name, school_id), the input
// to the has_multiple_sections rule.
func (s *Store) CountByName(ctx context.Context, className string, schoolID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"class_name": className, "school_id": schoolID})
}

// FindDefault returns the class currently marked default for
// (class_name, school_id), or ErrNotFound.
func (s *Store) FindDefault(ctx context.Context, className string, schoolID primitive.ObjectID) (models.SchoolClass, error) {
	var class models.SchoolClass
	err := s.c.FindOne(ctx, bson.M{
		"class_name": className,
		"school_id":  schoolID,
		"is_default": true,
	}).Decode(&class)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.SchoolClass{}, ErrNotFound
		}
		return models.SchoolClass{}, err
	}
	return class, nil
}

// Update applies a $set patch to one class.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMultiSection flips has_multiple_sections on every class sharing
// (class_name, school_id).
func (s *Store) SetMultiSection(ctx context.Context, className string, schoolID primitive.ObjectID, multi bool) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"class_name": className, "school_id": schoolID},
		bson.M{"$set": bson.M{"has_multiple_sections": multi, "updated_at": time.Now().UTC()}})
	return err
}

// SaveCounts persists the capacity-relevant fields of a class after the
// capacity engine has adjusted them in memory.
func (s *Store) SaveCounts(ctx context.Context, class *models.SchoolClass) error {
	res, err := s.c.UpdateByID(ctx, class.ID, bson.M{"$set": bson.M{
		"active_students_count": class.ActiveStudentsCount,
		"is_default":            class.IsDefault,
		"has_multiple_sections": class.HasMultipleSections,
		"updated_at":            time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a class by ID.
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
