package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-ada-002", req.Model)
		assert.Equal(t, "tofu", req.Input)
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService("sk-test", srv.URL, "", time.Second)
	require.NoError(t, err)

	vec, err := svc.GenerateEmbedding(context.Background(), "tofu")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec.Slice())
}

func TestGenerateEmbeddingEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService("sk-test", srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = svc.GenerateEmbedding(context.Background(), "tofu")
	assert.ErrorContains(t, err, "no embedding")
}

func TestNewEmbeddingServiceRequiresKey(t *testing.T) {
	_, err := NewEmbeddingService("", "", "", 0)
	assert.Error(t, err)
}
