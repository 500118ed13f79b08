// Package server provides the HTTP server for the signmatch service.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/signmatch/internal/ingest"
	"github.com/ayusman/signmatch/internal/server/api"
	"github.com/ayusman/signmatch/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Registry  api.Registry
	Converter *ingest.Converter
	TopK      int
	Logger    *slog.Logger
}

// Server represents the HTTP server for the signmatch service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Converter == nil {
		config.Converter = ingest.NewConverter(nil)
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Sign management needs both the store and the matching engine
	if s.config.Store != nil && s.config.Registry != nil {
		signHandler := api.NewSignHandler(s.config.Store, s.config.Registry, s.config.Logger)
		recordingsHandler := api.NewRecordingsHandler(s.config.Store, s.config.Registry, s.config.Converter)

		// Route /api/signs/{id}/recording(s) to the recordings handler
		signRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/recording") || strings.HasSuffix(r.URL.Path, "/recordings") {
				recordingsHandler.ServeHTTP(w, r)
				return
			}
			signHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/signs", signRouter)
		s.mux.Handle("/api/signs/", signRouter)
	}

	if s.config.Registry != nil {
		s.mux.Handle("/api/match", api.NewMatchHandler(s.config.Registry, s.config.Converter, s.config.TopK))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	signs := 0
	if s.config.Registry != nil {
		signs = s.config.Registry.Size()
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
		"signs":  signs,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
