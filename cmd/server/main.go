package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	_ "mockprep/docs"
	"mockprep/internal/cache"
	"mockprep/internal/config"
	"mockprep/internal/logging"
	"mockprep/internal/repository"
	"mockprep/internal/service"
	"mockprep/internal/transport/rest"
	"mockprep/internal/transport/ws"
)

// @title Mock Interview API
// @version 1.0
// @description Generates mock interview questions and evaluates spoken answers.
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	logger.Info("ai config",
		"generation_model", cfg.AI.Models.Generation,
		"evaluation_model", cfg.AI.Models.Evaluation,
		"timeout_ms", cfg.AI.TimeoutMS,
		"question_count", cfg.AI.QuestionCount,
		"api_key_configured", cfg.AI.IsEnabled(),
	)
	if !cfg.AI.IsEnabled() {
		logger.Warn("GEMINI_API_KEY not set; generation requests will fail and answers get the fallback evaluation")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return err
	}
	logger.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	db := mongoClient.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return err
	}
	logger.Info("connected to Redis", "addr", cfg.RedisAddr)

	// Initialize repositories
	interviewRepo := repository.NewInterviewRepo(db)
	answerRepo := repository.NewAnswerRepo(db)

	if cfg.AnswerStore == config.AnswerStorePostgres {
		var pg *sql.DB
		pg, err = repository.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pg.Close()

		answerRepo, err = repository.NewPostgresAnswerRepo(ctx, pg)
		if err != nil {
			return err
		}
	}
	logger.Info("answer store selected", "store", cfg.AnswerStore)

	sessions := cache.NewSessionCache(rdb, cfg.SessionTTL)

	wsHub := ws.NewHub(logger)
	defer wsHub.Close()

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	generator := service.NewGeminiClient(&cfg.AI, cfg.AI.Models.Generation, logger)
	evaluator := service.NewGeminiClient(&cfg.AI, cfg.AI.Models.Evaluation, logger)

	interviewSvc := service.NewInterviewService(interviewRepo, answerRepo, generator, &cfg.AI, logger)
	answerSvc := service.NewAnswerService(sessions, interviewRepo, answerRepo, evaluator, &cfg.AI, logger)

	// wsHub implements service.Broadcaster
	answerSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		InterviewService: interviewSvc,
		AnswerService:    answerSvc,
		WSHub:            wsHub,
		CORSOrigins:      strings.Split(cfg.CORSOrigins, ","),
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.HTTPPort, "swagger", "/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}
