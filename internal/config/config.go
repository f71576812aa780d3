package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AnswerStoreMongo    = "mongo"
	AnswerStorePostgres = "postgres"
)

// Config is the process configuration. YAML values are overridden by env vars.
type Config struct {
	AI AIConfig `yaml:"ai"`

	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	RedisAddr     string `yaml:"redis_addr"`

	// AnswerStore selects the StoredAnswer backend: "mongo" or "postgres"
	AnswerStore string `yaml:"answer_store"`
	PostgresDSN string `yaml:"postgres_dsn"`

	HTTPPort    string        `yaml:"http_port"`
	JWTSecret   string        `yaml:"-"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	CORSOrigins string        `yaml:"cors_origins"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		AI:            DefaultAIConfig(),
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "mockprep",
		RedisAddr:     "localhost:6379",
		AnswerStore:   AnswerStoreMongo,
		HTTPPort:      "8080",
		SessionTTL:    2 * time.Hour,
		CORSOrigins:   "*",
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Load reads .env (if present), the optional YAML file at path, then env vars
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// optional
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.AI.APIKey = getEnv("GEMINI_API_KEY", c.AI.APIKey)
	c.AI.BaseURL = getEnv("GEMINI_BASE_URL", c.AI.BaseURL)
	c.AI.Models.Generation = getEnv("GEMINI_MODEL_GENERATION", c.AI.Models.Generation)
	c.AI.Models.Evaluation = getEnv("GEMINI_MODEL_EVALUATION", c.AI.Models.Evaluation)
	c.AI.TimeoutMS = getEnvAsInt("GEMINI_TIMEOUT_MS", c.AI.TimeoutMS)
	c.AI.QuestionCount = getEnvAsInt("INTERVIEW_QUESTION_COUNT", c.AI.QuestionCount)
	c.AI.GenerationAttempts = getEnvAsInt("GENERATION_ATTEMPTS", c.AI.GenerationAttempts)

	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGO_DATABASE", c.MongoDatabase)
	c.RedisAddr = strings.TrimPrefix(getEnv("REDIS_URI", c.RedisAddr), "redis://")
	c.AnswerStore = getEnv("ANSWER_STORE", c.AnswerStore)
	c.PostgresDSN = getEnv("DATABASE_URL", c.PostgresDSN)

	c.HTTPPort = getEnv("PORT", c.HTTPPort)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.SessionTTL = getEnvAsDuration("SESSION_TTL", c.SessionTTL)
	c.CORSOrigins = getEnv("CORS_ALLOWED_ORIGINS", c.CORSOrigins)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.AI.TimeoutMS <= 0 {
		return fmt.Errorf("ai timeout must be positive, got %d", c.AI.TimeoutMS)
	}
	if c.AI.QuestionCount <= 0 {
		return fmt.Errorf("question count must be positive, got %d", c.AI.QuestionCount)
	}
	if c.AI.GenerationAttempts <= 0 {
		return fmt.Errorf("generation attempts must be at least 1, got %d", c.AI.GenerationAttempts)
	}
	switch c.AnswerStore {
	case AnswerStoreMongo:
	case AnswerStorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("answer_store postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown answer store %q", c.AnswerStore)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Timeout returns the AI call timeout as a duration
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
