package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/pageza/ragcipe/backend/config"
	"github.com/pageza/ragcipe/backend/internal/logging"
)

// Server represents the HTTP server
type Server struct {
	http *http.Server
}

// New creates a new server instance serving handler on the configured address
func New(cfg *config.Config, handler http.Handler) *Server {
	// Generation can take a while, so the write timeout is generous
	writeTimeout := 2 * cfg.ExternalTimeout
	if writeTimeout < 30*time.Second {
		writeTimeout = 30 * time.Second
	}
	return &Server{
		http: &http.Server{
			Addr:              cfg.Address(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start listens on the configured address and blocks until the server stops
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l until Stop is called
func (s *Server) Serve(l net.Listener) error {
	logging.Info().Str("addr", l.Addr().String()).Msg("http server listening")
	if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
