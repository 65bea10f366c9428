package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Teacher belongs to a school. Teachers have no capacity ceiling; their
// status transitions only move school-level counters.
type Teacher struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName           string             `bson:"first_name" json:"first_name"`
	LastName            string             `bson:"last_name" json:"last_name"`
	Email               string             `bson:"email" json:"email"`
	Phone               string             `bson:"phone" json:"phone"`
	Address             string             `bson:"address" json:"address"`
	DateOfBirth         time.Time          `bson:"date_of_birth" json:"date_of_birth"`
	Status              TeacherStatus      `bson:"status" json:"status"`
	IsSpecialized       bool               `bson:"is_specialized" json:"is_specialized"`
	SpecializedSubjects []string           `bson:"specialized_subjects,omitempty" json:"specialized_subjects,omitempty"`
	University          string             `bson:"university" json:"university"`
	Degree              string             `bson:"degree" json:"degree"`
	DegreeStartDate     time.Time          `bson:"degree_start_date" json:"degree_start_date"`
	DegreeEndDate       time.Time          `bson:"degree_end_date" json:"degree_end_date"`
	DegreeCity          string             `bson:"degree_city" json:"degree_city"`
	CNICNumber          string             `bson:"cnic_number" json:"cnic_number"`
	Gender              string             `bson:"gender" json:"gender"`
	ProfileColor        string             `bson:"profile_color" json:"profile_color"`
	ProfileImage        string             `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	SchoolID            primitive.ObjectID `bson:"school_id" json:"school_id"`

	// School-scoped sequential join id issued by the counter store.
	JoinID int64 `bson:"sc_join_id" json:"sc_join_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
