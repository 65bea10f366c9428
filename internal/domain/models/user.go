package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a school-admin account. Authentication itself (token issuing,
// password policy) lives at the transport edge; the core only needs the
// identity to check school ownership.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	ProfileColor string             `bson:"profile_color" json:"profile_color"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
