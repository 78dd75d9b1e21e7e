// Package server provides the local HTTP API the VibeCheck UI drives: the
// wizard session, credential management, persona generation, and the SSE
// analysis stream.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erin/vibecheck/internal/credentials"
	"github.com/erin/vibecheck/internal/wizard"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	controller  *wizard.Controller
	credentials *credentials.Store
}

// Config holds server configuration
type Config struct {
	Port int
}

// New creates a new server instance around an existing controller and
// credential store. The caller owns the store's lifecycle.
func New(cfg Config, controller *wizard.Controller, creds *credentials.Store) *Server {
	s := &Server{
		controller:  controller,
		credentials: creds,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /session", s.handleGetSession)
	mux.HandleFunc("POST /step", s.handleAdvance)
	mux.HandleFunc("POST /reset", s.handleReset)

	mux.HandleFunc("PUT /credential", s.handleSetCredential)
	mux.HandleFunc("GET /credential", s.handleCredentialStatus)

	mux.HandleFunc("PUT /content", s.handleSetContent)
	mux.HandleFunc("PUT /mode", s.handleSetMode)

	mux.HandleFunc("POST /personas/generate", s.handleGeneratePersonas)
	mux.HandleFunc("POST /personas/wildcard", s.handleGenerateWildcard)
	mux.HandleFunc("POST /personas/{id}/toggle", s.handleTogglePersona)

	mux.HandleFunc("POST /analyze/stream", s.handleAnalyzeStream)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second, // analysis streams stay open for the whole run
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers for the local UI
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
