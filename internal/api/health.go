package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/ragcipe/backend/internal/database"
	"github.com/pageza/ragcipe/backend/internal/types"
)

// HealthHandler reports whether the API and its stores are reachable
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler instance. Either store may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := types.HealthResponse{Status: "healthy", Services: map[string]string{}}

	if h.db != nil {
		resp.Services["database"] = "up"
		if err := database.HealthCheck(ctx, h.db); err != nil {
			resp.Services["database"] = "down"
			resp.Status = "unhealthy"
		}
	}

	// Redis only backs choice sessions and rate limiting, so losing it degrades the API
	if h.redis != nil {
		resp.Services["redis"] = "up"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			resp.Services["redis"] = "down"
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		}
	}

	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
