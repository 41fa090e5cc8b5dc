package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/ragcipe/backend/config"
	"github.com/pageza/ragcipe/backend/internal/api"
	"github.com/pageza/ragcipe/backend/internal/app"
	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/middleware"
	"github.com/pageza/ragcipe/backend/internal/router"
	"github.com/pageza/ragcipe/backend/internal/server"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if config.GetEnvironment() == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	stores, err := app.Connect(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer stores.Close()

	recommendations, err := app.NewRecommendationService(cfg, stores)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build recommendation service")
	}

	opts := router.Options{
		Health:          api.NewHealthHandler(stores.DB, stores.Redis),
		Recommendations: api.NewRecommendationHandler(recommendations),
	}
	if cfg.JWTSecret != "" {
		opts.Validator = middleware.NewJWTValidator(cfg.JWTSecret)
	} else {
		logging.Warn().Msg("JWT_SECRET not set, API auth disabled")
	}
	if stores.Redis != nil {
		opts.RateLimiter = middleware.NewRecommendationRateLimiter(stores.Redis, cfg.RateLimitPerHour)
	}

	srv := server.New(cfg, router.SetupRouter(opts))

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logging.Error().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("received signal")
	}

	logging.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}
	logging.Info().Msg("server stopped")
}
