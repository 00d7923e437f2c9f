// Package server provides the HTTP server implementation
package server

// @title           Pulse API
// @version         1.0
// @description     Pulse API server with dependency monitoring and global rate limiting.
// @x-skip-model-definitions true
//
// @description.markdown
// All /api endpoints are subject to rate limiting:
// * Default rate: 100 requests per 60 seconds
// * Burst allowance: 20 requests
// * Rate limits are applied per IP address
//
// When rate limit is exceeded:
// * Status code 429 (Too Many Requests) is returned
// * Headers:
//   - X-RateLimit-Limit: Maximum requests allowed
//   - X-RateLimit-Reset: Unix timestamp when the rate limit resets
//   - Retry-After: Seconds to wait before retrying
//
// @host            localhost:8080
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication
//
// @response 429 {object} models.ErrorResponse "Rate limit exceeded"

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"pulse/internal/config"
	"time"
)

// ShutdownTimeout bounds how long outstanding requests may run after shutdown begins
const ShutdownTimeout = 5 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	handler http.Handler
}

// New creates a new server instance serving handler
func New(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
	}
}

// Addr returns the listen address derived from the configured port
func (s *Server) Addr() string {
	return ":" + s.cfg.API.Port
}

// Start listens on the configured port and serves until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")

	// Give outstanding requests time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}
