package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a blog account. Passwords are stored as bcrypt hashes only.
// Accounts are never deleted by the system; only nickname and bio are mutable.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Nickname     string             `bson:"nickname" json:"nickname"`
	Bio          string             `bson:"bio" json:"bio"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
