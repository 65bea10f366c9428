package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Class capacity bounds. A class defaults to 30 seats and can never be
// configured above 50.
const (
	DefaultClassCapacity = 30
	MaxClassCapacity     = 50
)

// SchoolClass is one class+section combination, unique per
// (class_name, section_id, school_id).
//
// Invariants maintained by the capacity engine and lifecycle manager:
//   - active_students_count never exceeds class_capacity
//   - at most one class per (class_name, school_id) has is_default set
//   - has_multiple_sections is true iff two or more classes share
//     (class_name, school_id)
type SchoolClass struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClassName           string              `bson:"class_name" json:"class_name"`
	ClassAdmin          *primitive.ObjectID `bson:"class_admin,omitempty" json:"class_admin,omitempty"`
	IsDefault           bool                `bson:"is_default" json:"is_default"`
	HasMultipleSections bool                `bson:"has_multiple_sections" json:"has_multiple_sections"`
	SectionID           primitive.ObjectID  `bson:"section_id" json:"section_id"`
	ClassCapacity       int                 `bson:"class_capacity" json:"class_capacity"`
	ActiveStudentsCount int                 `bson:"active_students_count" json:"active_students_count"`
	SchoolID            primitive.ObjectID  `bson:"school_id" json:"school_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AvailableCapacity returns the number of active students the class can
// still take.
func (c *SchoolClass) AvailableCapacity() int {
	return c.ClassCapacity - c.ActiveStudentsCount
}
