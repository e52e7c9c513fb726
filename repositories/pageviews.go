package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapi/utils"
)

// PageViewRepository keeps daily per-path request counters.
type PageViewRepository interface {
	Increment(ctx context.Context, date time.Time, path string) error
	SumForDate(ctx context.Context, date time.Time) (int64, error)
}

type pageViewRepository struct {
	collection *mongo.Collection
}

// NewPageViewRepository creates the pageviews repository and ensures the
// date+path unique index backing the upsert.
func NewPageViewRepository(db *mongo.Database) PageViewRepository {
	collection := db.Collection("pageviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}, {Key: "path", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("failed to create pageviews date+path index: %v", err)
	}

	return &pageViewRepository{collection: collection}
}

// Increment bumps the counter for (date, path) atomically, creating the
// document when it is the first view of the day.
func (r *pageViewRepository) Increment(ctx context.Context, date time.Time, path string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"date": date, "path": path},
		bson.M{
			"$inc":         bson.M{"count": 1},
			"$set":         bson.M{"updated_at": time.Now()},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *pageViewRepository) SumForDate(ctx context.Context, date time.Time) (int64, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"date": date}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$count"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
