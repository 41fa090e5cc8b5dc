package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingService calls an OpenAI compatible embeddings endpoint
type EmbeddingService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewEmbeddingService creates a new EmbeddingService instance
func NewEmbeddingService(apiKey, apiURL, model string, timeout time.Duration) (*EmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding API key must be set")
	}
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/embeddings"
	}
	if model == "" {
		model = "text-embedding-ada-002"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EmbeddingService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// GenerateEmbedding returns the embedding vector for text
func (s *EmbeddingService) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	jsonData, err := json.Marshal(embeddingRequest{Model: s.model, Input: text})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return pgvector.Vector{}, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result embeddingResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return pgvector.Vector{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return pgvector.Vector{}, fmt.Errorf("no embedding in API response")
	}

	return pgvector.NewVector(result.Data[0].Embedding), nil
}
