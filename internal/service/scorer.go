package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CrossEncoderScorer calls a rerank endpoint hosting a cross-encoder model.
// The endpoint takes {"query", "texts"} and answers [{"index", "score"}].
type CrossEncoderScorer struct {
	apiURL string
	model  string
	client *http.Client
}

// NewCrossEncoderScorer creates a new CrossEncoderScorer instance
func NewCrossEncoderScorer(apiURL, model string, timeout time.Duration) *CrossEncoderScorer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CrossEncoderScorer{
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type rerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
	Model string   `json:"model,omitempty"`
}

type rerankScore struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Score returns one score per document, aligned with documents
func (s *CrossEncoderScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	if len(documents) == 0 {
		return []float64{}, nil
	}

	jsonData, err := json.Marshal(rerankRequest{Query: query, Texts: documents, Model: s.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var ranked []rerankScore
	if err := json.Unmarshal(body, &ranked); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scores := make([]float64, len(documents))
	seen := make([]bool, len(documents))
	for _, r := range ranked {
		if r.Index < 0 || r.Index >= len(documents) {
			return nil, fmt.Errorf("rerank response has out of range index %d", r.Index)
		}
		scores[r.Index] = r.Score
		seen[r.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("rerank response is missing a score for document %d", i)
		}
	}
	return scores, nil
}
