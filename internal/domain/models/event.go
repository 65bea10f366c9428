package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a school happening (sports day, exam week, fundraiser).
// Its status is derived from the start/end dates at query time:
// on_going, up_coming or completed.
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventName     string             `bson:"event_name" json:"event_name"`
	Description   string             `bson:"event_description,omitempty" json:"event_description,omitempty"`
	EventType     string             `bson:"event_type" json:"event_type"`
	EventCategory string             `bson:"event_category" json:"event_category"`
	StartDate     time.Time          `bson:"event_start_date" json:"event_start_date"`
	EndDate       time.Time          `bson:"event_end_date" json:"event_end_date"`
	SchoolID      primitive.ObjectID `bson:"school_id" json:"school_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
