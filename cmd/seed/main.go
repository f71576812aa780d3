package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mockprep/internal/config"
	"mockprep/internal/logging"
	"mockprep/internal/model"
	"mockprep/internal/repository"
	"mockprep/internal/service"
)

// Seed inserts a demo interview and prints a dev token for its owner.
// SEED_OWNER_ID picks the owner; a random one is used otherwise.
func main() {
	logger := logging.New("info", "text", os.Stderr)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}

	ownerID := os.Getenv("SEED_OWNER_ID")
	if ownerID == "" {
		ownerID = uuid.New().String()
	}

	interview := &model.Interview{
		InterviewProfile: model.InterviewProfile{
			Position:    "Backend Engineer",
			Description: "Design and operate HTTP services backed by MongoDB and Redis.",
			Experience:  3,
			TechStack:   "Go, MongoDB, Redis, Docker",
		},
		OwnerID: ownerID,
		Questions: []model.QuestionAnswer{
			{
				Question: "How does a Go channel differ from a mutex for sharing state?",
				Answer:   "A channel transfers ownership of data between goroutines while a mutex guards shared memory that several goroutines access in place.",
			},
			{
				Question: "What does context.Context give you in an HTTP handler?",
				Answer:   "Cancellation and deadlines that follow the request, plus request-scoped values such as the authenticated user.",
			},
			{
				Question: "When would you add an index to a MongoDB collection?",
				Answer:   "When a query filters or sorts on a field often enough that a collection scan is too slow; indexes also enforce uniqueness.",
			},
			{
				Question: "How can Redis be used to expire temporary state?",
				Answer:   "Store it under a key with a TTL so Redis deletes it automatically once the time passes.",
			},
			{
				Question: "Why should a service shut down gracefully?",
				Answer:   "So in-flight requests finish and connections close cleanly instead of being cut off when the process exits.",
			},
		},
	}

	if err := repository.NewInterviewRepo(db).Create(ctx, interview); err != nil {
		logger.Error("failed to insert interview", "error", err)
		os.Exit(1)
	}

	token, err := service.NewAuthService(cfg.JWTSecret).IssueToken(ownerID, "Demo Candidate", 24*time.Hour)
	if err != nil {
		logger.Error("failed to sign token", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Created interview %s (%s) for owner %s\n", interview.ID, interview.Position, ownerID)
	fmt.Printf("Token: %s\n", token)
}
