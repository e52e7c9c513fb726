package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post created by a user. Author never changes after
// creation. Likes and LikedBy move together in a single document update, so
// Likes == len(LikedBy) holds at all times.
type Post struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title      string               `bson:"title" json:"title"`
	Content    string               `bson:"content" json:"content"`
	Author     primitive.ObjectID   `bson:"author" json:"author"`
	Categories []primitive.ObjectID `bson:"categories" json:"categories"`
	Likes      int                  `bson:"likes" json:"likes"`
	LikedBy    []primitive.ObjectID `bson:"liked_by" json:"-"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}

// IsLikedBy reports whether the given user already liked the post.
func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
