package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration, auth is disabled when empty
	JWTSecret string

	// Embedding API (OpenAI compatible)
	EmbeddingAPIKey string
	EmbeddingAPIURL string
	EmbeddingModel  string

	// Chat completion API (OpenAI compatible)
	LLMAPIKey      string
	LLMAPIURL      string
	LLMModel       string
	LLMTemperature float64

	// Cross-encoder rerank API
	RerankAPIURL string
	RerankModel  string

	// Pipeline tunables
	CandidateLimit     int
	RerankTopK         int
	ChoiceCount        int
	ProductSearchLimit int
	ProductMatches     int
	MatchWorkers       int

	ExternalTimeout  time.Duration
	URLCheckTimeout  time.Duration
	URLCacheSize     int
	URLCacheTTL      time.Duration
	ChoiceSessionTTL time.Duration
	RateLimitPerHour int

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from .env, environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is fine, the environment may already be populated
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{}
	loadFromEnv(cfg)

	if env == Production {
		loadSecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromEnv reads every setting from the environment, falling back to development defaults
func loadFromEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")

	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnv("DB_NAME", "ragcipe")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "ragcipe.db")

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	openAIKey := os.Getenv("OPENAI_API_KEY")
	cfg.EmbeddingAPIKey = getEnv("EMBEDDING_API_KEY", openAIKey)
	cfg.EmbeddingAPIURL = getEnv("EMBEDDING_API_URL", "https://api.openai.com/v1/embeddings")
	cfg.EmbeddingModel = getEnv("EMBEDDING_MODEL", "text-embedding-ada-002")

	cfg.LLMAPIKey = getEnv("LLM_API_KEY", openAIKey)
	cfg.LLMAPIURL = getEnv("LLM_API_URL", "https://api.openai.com/v1/chat/completions")
	cfg.LLMModel = getEnv("LLM_MODEL", "gpt-4o")
	cfg.LLMTemperature = getEnvFloat("LLM_TEMPERATURE", 0.3)

	cfg.RerankAPIURL = getEnv("RERANK_API_URL", "http://localhost:8081/rerank")
	cfg.RerankModel = getEnv("RERANK_MODEL", "cross-encoder/ms-marco-MiniLM-L-6-v2")

	cfg.CandidateLimit = getEnvInt("CANDIDATE_LIMIT", 30)
	cfg.RerankTopK = getEnvInt("RERANK_TOP_K", 20)
	cfg.ChoiceCount = getEnvInt("CHOICE_COUNT", 3)
	cfg.ProductSearchLimit = getEnvInt("PRODUCT_SEARCH_LIMIT", 10)
	cfg.ProductMatches = getEnvInt("PRODUCT_MATCHES", 3)
	cfg.MatchWorkers = getEnvInt("MATCH_WORKERS", 4)

	cfg.ExternalTimeout = getEnvDuration("EXTERNAL_TIMEOUT", 30*time.Second)
	cfg.URLCheckTimeout = getEnvDuration("URL_CHECK_TIMEOUT", 5*time.Second)
	cfg.URLCacheSize = getEnvInt("URL_CACHE_SIZE", 1000)
	cfg.URLCacheTTL = getEnvDuration("URL_CACHE_TTL", time.Hour)
	cfg.ChoiceSessionTTL = getEnvDuration("CHOICE_SESSION_TTL", time.Hour)
	cfg.RateLimitPerHour = getEnvInt("RATE_LIMIT_PER_HOUR", 30)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")
}

// loadSecrets overrides sensitive values with Docker secrets when they exist
func loadSecrets(cfg *Config) {
	if v := readSecret("db_password"); v != "" {
		cfg.DBPassword = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}
	if v := readSecret("jwt_secret"); v != "" {
		cfg.JWTSecret = v
	}
	if v := readSecret("openai_api_key"); v != "" {
		cfg.EmbeddingAPIKey = v
		cfg.LLMAPIKey = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
