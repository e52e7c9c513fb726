package config

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
)

// InitDatabase establishes a connection to MongoDB using configuration values.
// It pings the server once at boot so network or auth problems surface immediately
// instead of on the first query.
func InitDatabase() *mongo.Database {
	if mongoDB != nil {
		return mongoDB
	}

	cfg := Get()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetMaxPoolSize(20).
		SetMaxConnIdleTime(10 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("mongodb ping failed: %v", err)
	}

	mongoClient = client
	mongoDB = client.Database(cfg.MongoDB)
	return mongoDB
}

// DB provides access to the initialized database handle.
func DB() *mongo.Database {
	if mongoDB == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return mongoDB
}

// CloseDatabase disconnects the client. Called on shutdown.
func CloseDatabase() error {
	if mongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return mongoClient.Disconnect(ctx)
}
