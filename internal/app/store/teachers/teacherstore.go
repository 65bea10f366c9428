package teacherstore

import (
	"context"
	"errors"
	"strings"
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
	ErrDuplicateEmail = errors.New("teacher already exists with this email")
	ErrDuplicateCNIC  = errors.New("teacher already exists with this CNIC number")
	ErrNotFound       = errors.New("teacher not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teachers")}
}

// dupError maps a duplicate-key error to the sentinel for the unique
// index it tripped. The server names the offending index in the error
// message.
func dupError(err error) error {
	if strings.Contains(err.Error(), "cnic_number") {
		return ErrDuplicateCNIC
	}
	return ErrDuplicateEmail
}

// Create inserts a new teacher.
func (s *Store) Create(ctx context.Context, teacher models.Teacher) (models.Teacher, error) {
	now := time.Now().UTC()
	teacher.ID = primitive.NewObjectID()
	if teacher.Status == "" {
		teacher.Status = models.TeacherActive
	}
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, teacher)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Teacher{}, dupError(err)
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}

// GetByID retrieves a teacher by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Teacher, error) {
	var teacher models.Teacher
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&teacher)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Teacher{}, ErrNotFound
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}

// Find returns teachers matching the filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Teacher, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Teacher
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of teachers matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// ExistsEmail reports whether any teacher already uses the email.
func (s *Store) ExistsEmail(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExistsCNIC reports whether any teacher already carries the CNIC.
func (s *Store) ExistsCNIC(ctx context.Context, cnic string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"cnic_number": cnic})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update applies a $set patch to one teacher.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return dupError(err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
