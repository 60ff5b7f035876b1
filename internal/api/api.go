// Package api implements the HTTP rendering API.
//
// The API exposes the same pipeline as the CLI:
//
//	POST /v1/diagrams  render a description to one or more formats
//	GET  /v1/themes    list available themes and layouts
//	GET  /healthz      liveness probe
//
// A single requested format is returned as raw bytes with the matching
// content type; multiple formats come back as a JSON envelope with
// base64-encoded artifacts. Every response carries X-Diagram-ID and
// X-Cache headers so clients can observe caching behavior.
package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/drawforge/pkg/pipeline"
)

// Server wires the pipeline runner into an HTTP handler.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around the given runner. A nil logger falls back to
// the default logger.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/themes", s.handleThemes)
	r.Post("/v1/diagrams", s.handleDiagrams)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
