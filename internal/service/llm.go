package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LLMOptions configures an OpenAI compatible chat completion client
type LLMOptions struct {
	APIKey      string
	APIURL      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// LLMService generates the narrative answer through a chat completion API
type LLMService struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	client      *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService(opts LLMOptions) (*LLMService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("LLM API key must be set")
	}
	if opts.APIURL == "" {
		opts.APIURL = "https://api.openai.com/v1/chat/completions"
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &LLMService{
		apiKey:      opts.APIKey,
		apiURL:      opts.APIURL,
		model:       opts.Model,
		temperature: opts.Temperature,
		client:      &http.Client{Timeout: opts.Timeout},
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completion API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// GenerateText sends prompt as a single user message and returns the trimmed answer
func (s *LLMService) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model:       s.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: s.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
