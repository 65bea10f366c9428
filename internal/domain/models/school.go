package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// School is the aggregate root for one tenant. Every other entity
// (classes, sections, students, teachers, schedules, events, drafts,
// counters) references it by school_id.
//
// The nine running counters are mutated only by the capacity engine
// (internal/app/system/capacity). They are eventually consistent with
// the underlying documents: class and school are saved as separate
// sequential writes, never as one atomic unit.
type School struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolName  string             `bson:"school_name" json:"school_name"`
	SchoolAdmin primitive.ObjectID `bson:"school_admin" json:"school_admin"`
	Address     string             `bson:"school_address" json:"school_address"`

	TotalStudents     int `bson:"total_students" json:"total_students"`
	ActiveStudents    int `bson:"active_students" json:"active_students"`
	GraduatedStudents int `bson:"graduated_students" json:"graduated_students"`
	LeftStudents      int `bson:"left_students" json:"left_students"`
	SuspendedStudents int `bson:"suspended_students" json:"suspended_students"`

	TotalTeachers     int `bson:"total_teachers" json:"total_teachers"`
	ActiveTeachers    int `bson:"active_teachers" json:"active_teachers"`
	LeftTeachers      int `bson:"left_teachers" json:"left_teachers"`
	SuspendedTeachers int `bson:"suspended_teachers" json:"suspended_teachers"`

	Status SchoolStatus `bson:"school_status" json:"school_status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CounterPatch returns the bson field set for persisting only the nine
// counters plus updated_at, so a counter save never clobbers concurrent
// edits to name/address fields.
func (s *School) CounterPatch() map[string]interface{} {
	return map[string]interface{}{
		"total_students":     s.TotalStudents,
		"active_students":    s.ActiveStudents,
		"graduated_students": s.GraduatedStudents,
		"left_students":      s.LeftStudents,
		"suspended_students": s.SuspendedStudents,
		"total_teachers":     s.TotalTeachers,
		"active_teachers":    s.ActiveTeachers,
		"left_teachers":      s.LeftTeachers,
		"suspended_teachers": s.SuspendedTeachers,
		"updated_at":         time.Now().UTC(),
	}
}
