package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapi/models"
)

// PostRepository persists posts and owns the like counter update.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// List returns posts newest first. A non-nil categoryIDs filter keeps only
	// posts whose category set intersects the given ids.
	List(ctx context.Context, categoryIDs []primitive.ObjectID) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Like records userID liking postID. It returns false when the user already
	// liked the post, ErrNotFound when the post does not exist.
	Like(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	collection *mongo.Collection
}

// NewPostRepository creates the posts repository.
func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{collection: db.Collection("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.Likes = 0
	post.LikedBy = []primitive.ObjectID{}
	if post.Categories == nil {
		post.Categories = []primitive.ObjectID{}
	}
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, categoryIDs []primitive.ObjectID) ([]models.Post, error) {
	filter := bson.M{}
	if categoryIDs != nil {
		filter["categories"] = bson.M{"$in": categoryIDs}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update persists the author-mutable fields. Likes and LikedBy are deliberately
// excluded; they change only through Like.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":      post.Title,
		"content":    post.Content,
		"categories": post.Categories,
		"updated_at": post.UpdatedAt,
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Like is a single conditional update: the filter only matches when the user
// is not yet in liked_by, and counter and set change together. Two concurrent
// likes by the same user cannot both match, which keeps likes == len(liked_by).
func (r *postRepository) Like(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": postID, "liked_by": bson.M{"$ne": userID}},
		bson.M{
			"$inc":      bson.M{"likes": 1},
			"$addToSet": bson.M{"liked_by": userID},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// Filter missed: either the post is gone or the user already liked it.
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
