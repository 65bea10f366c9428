package schoolstore

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
	ErrDuplicateName = errors.New("a school with this name already exists")
	ErrNotFound      = errors.New("school not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("schools")}
}

// Create inserts a new school with zeroed counters.
func (s *Store) Create(ctx context.Context, school models.School) (models.School, error) {
	now := time.Now().UTC()
	school.ID = primitive.NewObjectID()
	if school.Status == "" {
		school.Status = models.SchoolActive
	}
	school.CreatedAt = now
	school.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, school)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.School{}, ErrDuplicateName
		}
		return models.School{}, err
	}
	return school, nil
}

// GetByID retrieves a school by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.School, error) {
	var school models.School
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&school)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.School{}, ErrNotFound
		}
		return models.School{}, err
	}
	return school, nil
}

// ExistsForAdmin reports whether the admin already owns a school with
// the given name.
func (s *Store) ExistsForAdmin(ctx context.Context, name string, adminID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"school_name": name, "school_admin": adminID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Find returns schools matching the filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.School, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.School
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of schools matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Update modifies a school's mutable detail fields.
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

// SaveCounters persists only the counter fields of the school. Detail
// fields are deliberately left out so a counter write cannot clobber a
// concurrent rename.
func (s *Store) SaveCounters(ctx context.Context, school *models.School) error {
	res, err := s.c.UpdateByID(ctx, school.ID, bson.M{"$set": school.CounterPatch()})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
