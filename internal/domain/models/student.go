package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student belongs to exactly one class at a time. Status transitions
// move the student between counter buckets on the class and school
// documents; only "active" students count against class capacity.
type Student struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName       string             `bson:"first_name" json:"first_name"`
	LastName        string             `bson:"last_name" json:"last_name"`
	BForm           string             `bson:"b_form" json:"b_form"`
	DateOfBirth     time.Time          `bson:"date_of_birth" json:"date_of_birth"`
	StudentAge      int                `bson:"student_age" json:"student_age"`
	Gender          string             `bson:"gender" json:"gender"`
	ClassID         primitive.ObjectID `bson:"class_id" json:"class_id"`
	Status          StudentStatus      `bson:"student_status" json:"student_status"`
	ParentFirstName string             `bson:"parent_first_name" json:"parent_first_name"`
	ParentLastName  string             `bson:"parent_last_name" json:"parent_last_name"`
	CNICNumber      string             `bson:"cnic_number" json:"cnic_number"`
	Phone           string             `bson:"phone" json:"phone"`
	Email           string             `bson:"email" json:"email"`
	Payment         string             `bson:"payment" json:"payment"`
	ProfileColor    string             `bson:"profile_color" json:"profile_color"`
	ProfileImage    string             `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	SchoolID        primitive.ObjectID `bson:"school_id" json:"school_id"`

	// School-scoped sequential enrollment id issued by the counter store.
	EnrollID int64 `bson:"sc_enroll_id" json:"sc_enroll_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
