package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/ragcipe/backend/internal/testhelpers"
	"github.com/pageza/ragcipe/backend/internal/types"
)

func checkHealth(t *testing.T, h *HealthHandler) (int, types.HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.HealthCheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthCheck(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	code, body := checkHealth(t, NewHealthHandler(db, client))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "up", body.Services["database"])
	assert.Equal(t, "up", body.Services["redis"])

	mr.Close()
	code, body = checkHealth(t, NewHealthHandler(db, client))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Services["redis"])
}

func TestHealthCheckWithoutStores(t *testing.T) {
	code, body := checkHealth(t, NewHealthHandler(nil, nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
}
