package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DraftType is the kind of staged payload a draft holds.
type DraftType string

const (
	DraftTeacher DraftType = "teacher"
	DraftStudent DraftType = "student"
	DraftEvent   DraftType = "event"
)

// Valid reports whether t is one of the known draft types.
func (t DraftType) Valid() bool {
	switch t {
	case DraftTeacher, DraftStudent, DraftEvent:
		return true
	}
	return false
}

// Draft is an opaque staged payload (an unfinished teacher, student or
// event form) scoped to a school.
type Draft struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID primitive.ObjectID `bson:"school_id" json:"school_id"`
	DataType DraftType          `bson:"data_type" json:"data_type"`
	Data     bson.M             `bson:"data" json:"data"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
