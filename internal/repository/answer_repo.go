package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mockprep/internal/model"
)

// AnswerRepo stores reviewed answers, at most one per (owner, question)
type AnswerRepo interface {
	// FindExisting returns nil when the owner has no answer for question
	FindExisting(ctx context.Context, ownerID, question string) (*model.StoredAnswer, error)
	// Insert writes answer and reports whether a new record was created.
	// Backends without a conditional insert always report true.
	Insert(ctx context.Context, answer *model.StoredAnswer) (bool, error)
	ListByInterview(ctx context.Context, ownerID, interviewID string) ([]*model.StoredAnswer, error)
}

type answerRepo struct {
	collection *mongo.Collection
}

func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{
		collection: db.Collection(answersCollection),
	}
}

func (r *answerRepo) FindExisting(ctx context.Context, ownerID, question string) (*model.StoredAnswer, error) {
	var answer model.StoredAnswer
	err := r.collection.FindOne(ctx, bson.M{"ownerId": ownerID, "question": question}).Decode(&answer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepo) Insert(ctx context.Context, answer *model.StoredAnswer) (bool, error) {
	answer.ID = ""
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, answer)
	if err != nil {
		return false, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		answer.ID = oid.Hex()
	}
	return true, nil
}

func (r *answerRepo) ListByInterview(ctx context.Context, ownerID, interviewID string) ([]*model.StoredAnswer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID, "interviewId": interviewID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	answers := []*model.StoredAnswer{}
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
