// Package app wires configuration, stores and external clients into the recommendation service.
// The API server, the CLI and the indexing job all build their dependencies here.
package app

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/ragcipe/backend/config"
	"github.com/pageza/ragcipe/backend/internal/database"
	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/service"
)

// Stores are the connections owned by a running process
type Stores struct {
	DB *gorm.DB
	// Redis is nil when it could not be reached
	Redis *redis.Client
}

// Connect opens the database and, best effort, Redis
func Connect(cfg *config.Config) (*Stores, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Continue without choice sessions and rate limiting if Redis is not available
		logging.Warn().Err(err).Msg("redis unavailable, two-step choices and rate limiting disabled")
		redisClient = nil
	}
	return &Stores{DB: db, Redis: redisClient}, nil
}

// Close releases every open connection
func (s *Stores) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if s.DB != nil {
		if err := database.Close(s.DB); err != nil {
			logging.Warn().Err(err).Msg("failed to close database")
		}
	}
}

// NewEmbeddingService builds the embedding client from configuration
func NewEmbeddingService(cfg *config.Config) (*service.EmbeddingService, error) {
	return service.NewEmbeddingService(cfg.EmbeddingAPIKey, cfg.EmbeddingAPIURL, cfg.EmbeddingModel, cfg.ExternalTimeout)
}

// NewRecommendationService builds the full pipeline on top of the given stores
func NewRecommendationService(cfg *config.Config, stores *Stores) (*service.RecommendationService, error) {
	embeddings, err := NewEmbeddingService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding service: %w", err)
	}

	llm, err := service.NewLLMService(service.LLMOptions{
		APIKey:      cfg.LLMAPIKey,
		APIURL:      cfg.LLMAPIURL,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.ExternalTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM service: %w", err)
	}

	store := service.NewPGVectorStore(stores.DB, embeddings)
	checker := service.NewHTTPURLChecker(
		&http.Client{},
		cfg.URLCheckTimeout,
		service.NewLivenessCache(cfg.URLCacheSize, cfg.URLCacheTTL),
	)

	deps := service.Dependencies{
		Recipes:    store,
		Attributes: service.NewRecipeAttributeStore(stores.DB),
		Products:   store,
		Scorer:     service.NewCrossEncoderScorer(cfg.RerankAPIURL, cfg.RerankModel, cfg.ExternalTimeout),
		Generator:  llm,
		URLChecker: checker,
	}
	// A nil *RedisChoiceStore must not reach the interface field
	if stores.Redis != nil {
		deps.Sessions = service.NewRedisChoiceStore(stores.Redis, cfg.ChoiceSessionTTL)
	}

	return service.NewRecommendationService(deps, PipelineOptions(cfg)), nil
}

// PipelineOptions maps configuration onto the pipeline tunables
func PipelineOptions(cfg *config.Config) service.PipelineOptions {
	return service.PipelineOptions{
		CandidateLimit:     cfg.CandidateLimit,
		RerankTopK:         cfg.RerankTopK,
		ChoiceCount:        cfg.ChoiceCount,
		ProductSearchLimit: cfg.ProductSearchLimit,
		ProductMatches:     cfg.ProductMatches,
		MatchWorkers:       cfg.MatchWorkers,
	}
}
