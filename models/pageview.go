package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageView aggregates successful GET requests per day and path.
type PageView struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date      time.Time          `bson:"date" json:"date"`
	Path      string             `bson:"path" json:"path"`
	Count     int64              `bson:"count" json:"count"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
