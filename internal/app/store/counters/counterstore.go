// Package counterstore issues school-scoped monotonically increasing
// IDs for human-facing enrollment and join numbers.
package counterstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

// Kind selects which sequence a NextSequence call advances.
type Kind string

const (
	KindStudent Kind = "student"
	KindTeacher Kind = "teacher"
)

func (k Kind) field() (string, error) {
	switch k {
	case KindStudent:
		return "student_sequence", nil
	case KindTeacher:
		return "teacher_sequence", nil
	}
	return "", fmt.Errorf("unknown sequence kind %q", k)
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("counters")}
}

// NextSequence atomically increments and returns the counter for the
// given school and kind, creating the counter document on first use.
//
// Values are strictly increasing and gap-tolerant: an ID issued here is
// consumed even if the surrounding operation fails afterward. There is
// no rollback.
func (s *Store) NextSequence(ctx context.Context, schoolID primitive.ObjectID, kind Kind) (int64, error) {
	field, err := kind.field()
	if err != nil {
		return 0, err
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"school_id": schoolID},
		bson.M{"$inc": bson.M{field: 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	if kind == KindStudent {
		return counter.StudentSequence, nil
	}
	return counter.TeacherSequence, nil
}
