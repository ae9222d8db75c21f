// Package api exposes the assembler over HTTP: a REST endpoint for
// one-shot assembly and a WebSocket endpoint that assembles every source
// message it receives. The service is stateless; each request is one
// independent assembly.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// Server represents the HTTP API server
type Server struct {
	mux           *http.ServeMux
	server        *http.Server
	port          int
	maxSourceSize int
}

// NewServer creates a new API server. maxSourceSize bounds the accepted
// source length in bytes.
func NewServer(port, maxSourceSize int) *Server {
	s := &Server{
		mux:           http.NewServeMux(),
		port:          port,
		maxSourceSize: maxSourceSize,
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler with CORS middleware applied
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/assemble", s.handleAssemble)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("assembler API listening on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers restricted to localhost origins
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isAllowedOrigin checks if the origin is local: no origin at all (curl,
// native apps), file://, or localhost over http/https on any port.
func isAllowedOrigin(origin string) bool {
	if origin == "" || strings.HasPrefix(origin, "file://") {
		return true
	}
	for _, prefix := range []string{
		"http://localhost", "https://localhost",
		"http://127.0.0.1", "https://127.0.0.1",
	} {
		if rest, ok := strings.CutPrefix(origin, prefix); ok && (rest == "" || rest[0] == ':') {
			return true
		}
	}
	return false
}
