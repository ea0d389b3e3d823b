// Package server hosts the multiplayer side of the game: the session
// coordinator that owns rooms and their bound matches, the WebSocket
// transport that carries the room protocol, and the HTTP server with the
// liveness probe.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host         string        // Host to bind to (default "localhost")
	Port         int           // Port to listen on (default 8080)
	ReadTimeout  time.Duration // Read timeout (default 30s)
	WriteTimeout time.Duration // Write timeout (default 30s)
	IdleTimeout  time.Duration // Idle timeout (default 60s)
	Hub          HubConfig     // Room lifecycle timers
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		Hub:          DefaultHubConfig(),
	}
}

// HealthResponse is the response for the liveness probe.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Rooms         int    `json:"rooms"`
	Clients       int    `json:"clients"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

// Server is the HTTP front for the hub.
type Server struct {
	config  ServerConfig
	hub     *Hub
	server  *http.Server
	version string
	started time.Time
	log     zerolog.Logger
}

// NewServer creates a server around a fresh coordinator and hub.
func NewServer(config ServerConfig, version string, log zerolog.Logger) *Server {
	coord := NewCoordinator(CoordinatorConfig{}, log)
	return &Server{
		config:  config,
		hub:     NewHub(coord, config.Hub, log),
		version: version,
		log:     log,
	}
}

// Hub exposes the hub, mainly for tests.
func (s *Server) Hub() *Hub { return s.hub }

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("elapsed", time.Since(start)).Msg("request")
	})
}

// Health handles GET /api/health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	rooms, clients, err := s.hub.Stats(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "error", Version: s.version})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       s.version,
		Rooms:         rooms,
		Clients:       clients,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.Health)
	mux.HandleFunc("/api/ws", s.hub.ServeWS)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the hub loop and the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.started = time.Now()

	go s.hub.Run()

	s.log.Info().Str("addr", addr).Str("version", s.version).Msg("ludo server listening")
	s.log.Info().Msg("  GET /api/health - liveness probe")
	s.log.Info().Msg("  WS  /api/ws     - room protocol")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server and stops the hub.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.hub.Close()
	return err
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown
// signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		s.log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info().Msg("server stopped gracefully")
	return nil
}
