package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMServiceRequiresKey(t *testing.T) {
	_, err := NewLLMService(LLMOptions{})
	assert.Error(t, err)
}

func TestGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 1e-9)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "suggest a soup", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Try miso soup.\n"}}]}`))
	}))
	defer srv.Close()

	llm, err := NewLLMService(LLMOptions{APIKey: "sk-test", APIURL: srv.URL, Temperature: 0.3})
	require.NoError(t, err)

	answer, err := llm.GenerateText(context.Background(), "suggest a soup")
	require.NoError(t, err)
	assert.Equal(t, "Try miso soup.", answer)
}

func TestGenerateTextErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "API error", status: http.StatusTooManyRequests, body: `{"error":"rate limited"}`, wantErr: "status 429"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no choices"},
		{name: "bad JSON", status: http.StatusOK, body: `not json`, wantErr: "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			llm, err := NewLLMService(LLMOptions{APIKey: "sk-test", APIURL: srv.URL})
			require.NoError(t, err)

			_, err = llm.GenerateText(context.Background(), "prompt")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
