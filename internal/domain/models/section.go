package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section is a named slice of a class year ("A", "B", "C") with a
// display color. Three sections are seeded for every new school.
type Section struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectionName string             `bson:"section_name" json:"section_name"`
	Color       string             `bson:"color" json:"color"`
	SchoolID    primitive.ObjectID `bson:"school_id" json:"school_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
