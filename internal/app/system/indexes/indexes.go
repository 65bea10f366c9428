// Package indexes creates the Mongo indexes the stores rely on.
// EnsureAll runs at startup and is idempotent; errors are aggregated so
// every problem is visible and startup can fail fast.
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(collection string, models []mongo.IndexModel) {
		_, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			problems = append(problems, collection+": "+err.Error())
		}
	}

	unique := options.Index().SetUnique(true)

	ensure("users", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	ensure("schools", []mongo.IndexModel{
		{Keys: bson.D{{Key: "school_name", Value: 1}, {Key: "school_admin", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "school_admin", Value: 1}}},
	})
	ensure("school_classes", []mongo.IndexModel{
		// One class per (name, section, school); the lifecycle rules key
		// off (class_name, school_id) lookups.
		{Keys: bson.D{{Key: "class_name", Value: 1}, {Key: "section_id", Value: 1}, {Key: "school_id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "class_name", Value: 1}, {Key: "school_id", Value: 1}}},
	})
	ensure("sections", []mongo.IndexModel{
		{Keys: bson.D{{Key: "school_id", Value: 1}, {Key: "section_name", Value: 1}}, Options: unique},
	})
	ensure("students", []mongo.IndexModel{
		{Keys: bson.D{{Key: "b_form", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "school_id", Value: 1}}},
		{Keys: bson.D{{Key: "class_id", Value: 1}}},
	})
	ensure("teachers", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "cnic_number", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "school_id", Value: 1}}},
	})
	ensure("schedules", []mongo.IndexModel{
		{Keys: bson.D{{Key: "class_id", Value: 1}, {Key: "days", Value: 1}}},
		{Keys: bson.D{{Key: "instructor", Value: 1}, {Key: "days", Value: 1}}},
	})
	ensure("events", []mongo.IndexModel{
		{Keys: bson.D{{Key: "school_id", Value: 1}, {Key: "event_start_date", Value: 1}}},
	})
	ensure("drafts", []mongo.IndexModel{
		{Keys: bson.D{{Key: "school_id", Value: 1}, {Key: "data_type", Value: 1}}},
	})
	ensure("counters", []mongo.IndexModel{
		{Keys: bson.D{{Key: "school_id", Value: 1}}, Options: unique},
	})

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
