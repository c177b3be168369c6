package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mcoot/bowlscore/internal/web/sse"
)

// ServerConfig holds listener settings for the scoring server. There is no
// write timeout: live scoreboard streams stay open for the length of a match.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns the settings used by cmd/server
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server serves the scoring API and lane pages
type Server struct {
	server *http.Server
	hubs   *sse.HubManager
	logger *slog.Logger
	config ServerConfig
}

// NewServer creates a server for handler. hubs may be nil; when set, every
// live match stream is ended at shutdown so it does not hold the drain open.
func NewServer(handler http.Handler, hubs *sse.HubManager, config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
			Handler:           handler,
			ReadTimeout:       config.ReadTimeout,
			ReadHeaderTimeout: config.ReadTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		hubs:   hubs,
		logger: logger.With(slog.String("component", "server")),
		config: config,
	}
}

// Start listens on the configured address and serves until shutdown
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("scoring server listening", slog.String("addr", ln.Addr().String()))

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown ends live match streams, then waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	live := 0
	if s.hubs != nil {
		live = s.hubs.CloseAll()
	}
	s.logger.Info("shutting down scoring server", slog.Int("live_matches", live))

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("scoring server stopped")
	return nil
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.server.Addr
}
