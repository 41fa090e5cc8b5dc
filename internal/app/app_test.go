package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/ragcipe/backend/config"
)

func testConfig(t *testing.T, redisAddr string) *config.Config {
	return &config.Config{
		DBDriver:           "sqlite",
		SQLitePath:         filepath.Join(t.TempDir(), "ragcipe.db"),
		RedisURL:           "redis://" + redisAddr,
		EmbeddingAPIKey:    "sk-test",
		LLMAPIKey:          "sk-test",
		RerankAPIURL:       "http://localhost:8081/rerank",
		CandidateLimit:     12,
		RerankTopK:         8,
		ChoiceCount:        2,
		ProductSearchLimit: 10,
		ProductMatches:     3,
		MatchWorkers:       2,
		ExternalTimeout:    time.Second,
		ChoiceSessionTTL:   time.Minute,
	}
}

func TestConnectAndBuild(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr.Addr())

	stores, err := Connect(cfg)
	require.NoError(t, err)
	defer stores.Close()
	assert.NotNil(t, stores.DB)
	assert.NotNil(t, stores.Redis)

	svc, err := NewRecommendationService(cfg, stores)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestConnectWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t, addr)
	stores, err := Connect(cfg)
	require.NoError(t, err)
	defer stores.Close()
	assert.Nil(t, stores.Redis)

	svc, err := NewRecommendationService(cfg, stores)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewRecommendationServiceRequiresKeys(t *testing.T) {
	cfg := testConfig(t, "localhost:0")
	cfg.EmbeddingAPIKey = ""

	_, err := NewRecommendationService(cfg, &Stores{})
	assert.ErrorContains(t, err, "failed to create embedding service")

	cfg.EmbeddingAPIKey = "sk-test"
	cfg.LLMAPIKey = ""
	_, err = NewRecommendationService(cfg, &Stores{})
	assert.ErrorContains(t, err, "failed to create LLM service")
}

func TestPipelineOptions(t *testing.T) {
	opts := PipelineOptions(testConfig(t, "localhost:0"))
	assert.Equal(t, 12, opts.CandidateLimit)
	assert.Equal(t, 8, opts.RerankTopK)
	assert.Equal(t, 2, opts.ChoiceCount)
	assert.Equal(t, 2, opts.MatchWorkers)
}
