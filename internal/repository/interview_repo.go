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

type InterviewRepo interface {
	Create(ctx context.Context, interview *model.Interview) error
	GetByID(ctx context.Context, id string) (*model.Interview, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Interview, error)
	// ReplaceGenerated overwrites the profile fields and the whole question
	// set and stamps updatedAt. Returns nil when the interview does not exist.
	ReplaceGenerated(ctx context.Context, id string, profile model.InterviewProfile, questions []model.QuestionAnswer) (*model.Interview, error)
}

type interviewRepo struct {
	collection *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) InterviewRepo {
	return &interviewRepo{
		collection: db.Collection(interviewsCollection),
	}
}

func (r *interviewRepo) Create(ctx context.Context, interview *model.Interview) error {
	now := time.Now().UTC()
	interview.ID = ""
	interview.CreatedAt = now
	interview.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, interview)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		interview.ID = oid.Hex()
	}
	return nil
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*model.Interview, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // not a valid id, so not found
	}

	var interview model.Interview
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&interview)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	interviews := []*model.Interview{}
	if err = cursor.All(ctx, &interviews); err != nil {
		return nil, err
	}
	return interviews, nil
}

func (r *interviewRepo) ReplaceGenerated(ctx context.Context, id string, profile model.InterviewProfile, questions []model.QuestionAnswer) (*model.Interview, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	update := bson.M{
		"$set": bson.M{
			"position":    profile.Position,
			"description": profile.Description,
			"experience":  profile.Experience,
			"techStack":   profile.TechStack,
			"questions":   questions,
		},
		"$currentDate": bson.M{"updatedAt": true},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var interview model.Interview
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&interview)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &interview, nil
}
