package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/ragcipe/backend/internal/api"
	"github.com/pageza/ragcipe/backend/internal/middleware"
)

// Options carries the handlers and optional middleware of the HTTP API
type Options struct {
	Health          *api.HealthHandler
	Recommendations *api.RecommendationHandler
	// Validator enables bearer token auth on /api/v1 when set
	Validator middleware.TokenValidator
	// RateLimiter limits /api/v1 per client when set
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Recovery(), middleware.CORS(opts.AllowedOrigins...))

	// Health and metrics (no auth required)
	router.GET("/health", opts.Health.HealthCheck)
	router.GET("/api/health", opts.Health.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if opts.Validator != nil {
		v1.Use(middleware.AuthMiddleware(opts.Validator))
	}
	if opts.RateLimiter != nil {
		v1.Use(opts.RateLimiter.RateLimitMiddleware())
	}
	opts.Recommendations.RegisterRoutes(v1)

	return router
}
