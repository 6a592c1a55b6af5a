// Package docstore implements the repository contracts on MongoDB.
package docstore

import (
	"context"
	"fmt"
	"time"

	"agora/internal/observability"
	"agora/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Backend is the Store.Backend name of document stores.
const Backend = "mongo"

// Collection names.
const (
	usersCollection    = "users"
	contentsCollection = "contents"
	followsCollection  = "follows"
	commentsCollection = "comments"
	imagesCollection   = "images"
)

// Connect dials uri and verifies the connection. Every command is observed
// for latency and traced.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMonitor(newCommandMonitor()).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// indexes are what enforce username, email and follow-edge uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	collections := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		contentsCollection: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		followsCollection: {
			{
				Keys:    bson.D{{Key: "follower_id", Value: 1}, {Key: "following_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_follow_pair"),
			},
			{Keys: bson.D{{Key: "following_id", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "content_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}

	for name, indexes := range collections {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// NewStore returns a Store backed by db. Closing the store disconnects client.
func NewStore(client *mongo.Client, db *mongo.Database) *repository.Store {
	return &repository.Store{
		Backend:  Backend,
		Users:    NewUserRepository(db),
		Contents: NewContentRepository(db),
		Follows:  NewFollowRepository(db),
		Comments: NewCommentRepository(db),
		Images:   NewImageRepository(db),
		PingFunc: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		CloseFunc: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	}
}

// Open connects, ensures indexes and returns the Store for database name.
func Open(ctx context.Context, uri, name string) (*repository.Store, error) {
	client, err := Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	db := client.Database(name)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger := observability.Component("docstore")
	logger.Info().Str("database", name).Msg("connected to MongoDB")
	return NewStore(client, db), nil
}

// now returns the current time at the precision MongoDB stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
