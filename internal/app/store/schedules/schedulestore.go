package schedulestore

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

var ErrNotFound = errors.New("schedule not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("schedules")}
}

// Create inserts a new schedule. Description defaults to the subject.
func (s *Store) Create(ctx context.Context, schedule models.Schedule) (models.Schedule, error) {
	now := time.Now().UTC()
	schedule.ID = primitive.NewObjectID()
	if schedule.Description == "" {
		schedule.Description = schedule.Subject
	}
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, schedule); err != nil {
		return models.Schedule{}, err
	}
	return schedule, nil
}

// GetByID retrieves a schedule by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Schedule, error) {
	var schedule models.Schedule
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Schedule{}, ErrNotFound
		}
		return models.Schedule{}, err
	}
	return schedule, nil
}

// Neighbours returns every schedule that could conflict with the
// candidate: same class or same instructor, intersecting weekday set.
// The conflict decision itself lives in system/timetable.
func (s *Store) Neighbours(ctx context.Context, candidate models.Schedule) ([]models.Schedule, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"days": bson.M{"$in": candidate.Days},
		"$or": []bson.M{
			{"class_id": candidate.ClassID},
			{"instructor": candidate.Instructor},
		},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Schedule
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns schedules matching the filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Schedule, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Schedule
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a $set patch to one schedule.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a schedule by ID.
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
