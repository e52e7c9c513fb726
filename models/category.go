package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is a short unique label posts can reference.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}
