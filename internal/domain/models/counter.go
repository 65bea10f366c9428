package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Counter holds the next sequence value per entity type for one school.
// Created lazily via upsert on first use; incremented atomically with
// $inc. Issued values are never reused, even when the surrounding
// operation fails afterward.
type Counter struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID        primitive.ObjectID `bson:"school_id" json:"school_id"`
	TeacherSequence int64              `bson:"teacher_sequence" json:"teacher_sequence"`
	StudentSequence int64              `bson:"student_sequence" json:"student_sequence"`
}
