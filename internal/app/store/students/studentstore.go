package studentstore

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
	ErrDuplicateBForm = errors.New("b-form already in use by another student")
	ErrNotFound       = errors.New("student not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

// Create inserts a new student.
func (s *Store) Create(ctx context.Context, student models.Student) (models.Student, error) {
	now := time.Now().UTC()
	student.ID = primitive.NewObjectID()
	if student.Status == "" {
		student.Status = models.StudentActive
	}
	student.CreatedAt = now
	student.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, student)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Student{}, ErrDuplicateBForm
		}
		return models.Student{}, err
	}
	return student, nil
}

// GetByID retrieves a student by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Student, error) {
	var student models.Student
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}

// GetByIDs loads the named students in no particular order.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Student, error) {
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Student
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns students matching the filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Student, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Student
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of students matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// ExistsBForm reports whether any student already carries the b-form.
func (s *Store) ExistsBForm(ctx context.Context, bForm string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"b_form": bForm})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update applies a $set patch to one student.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateBForm
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReassignClass bulk-moves every student of fromClass to toClass and
// returns how many documents changed. Used by the class merge path
// before the source class is deleted.
func (s *Store) ReassignClass(ctx context.Context, fromClass, toClass primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"class_id": fromClass},
		bson.M{"$set": bson.M{"class_id": toClass, "updated_at": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
