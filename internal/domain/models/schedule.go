package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekday codes accepted on a schedule. Sunday is not a school day.
var ScheduleDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ValidScheduleDay reports whether day is one of the accepted codes.
func ValidScheduleDay(day string) bool {
	for _, d := range ScheduleDays {
		if d == day {
			return true
		}
	}
	return false
}

// Schedule is one recurring class period. Start and end times are
// clock-of-day strings in "hh:mm A" form (e.g. "09:00 AM"); only the
// clock time matters, never the date.
type Schedule struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subject     string             `bson:"subject" json:"subject"`
	Instructor  primitive.ObjectID `bson:"instructor" json:"instructor"`
	ClassID     primitive.ObjectID `bson:"class_id" json:"class_id"`
	Description string             `bson:"schedule_description" json:"schedule_description"`
	StartTime   string             `bson:"start_time" json:"start_time"`
	EndTime     string             `bson:"end_time" json:"end_time"`
	Days        []string           `bson:"days" json:"days"`
	SchoolID    primitive.ObjectID `bson:"school_id" json:"school_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
