package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	interviewsCollection = "interviews"
	answersCollection    = "answers"
)

// EnsureIndexes creates the lookup indexes the Mongo repos query by.
// The (ownerId, question) index is not unique: duplicate answers are
// prevented by the existence check before insert.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := createIndex(ctx, db.Collection(interviewsCollection), bson.D{
		{Key: "ownerId", Value: 1},
		{Key: "createdAt", Value: -1},
	}, false); err != nil {
		return err
	}
	if err := createIndex(ctx, db.Collection(answersCollection), bson.D{
		{Key: "ownerId", Value: 1},
		{Key: "question", Value: 1},
	}, false); err != nil {
		return err
	}
	return createIndex(ctx, db.Collection(answersCollection), bson.D{
		{Key: "interviewId", Value: 1},
		{Key: "createdAt", Value: 1},
	}, false)
}

func createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) error {
	opts := options.Index().SetUnique(unique)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts}); err != nil {
		return fmt.Errorf("create index on %s: %w", coll.Name(), err)
	}
	return nil
}
