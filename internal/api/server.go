// Package api implements the HTTP presentation layer over pkg/audit: a
// small JSON API exposing package audits and cache-only report lookups
// alongside a liveness endpoint.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pkgaudit/pkgaudit/pkg/audit"
)

// Server wires an audit.Orchestrator behind an HTTP mux.
type Server struct {
	orchestrator *audit.Orchestrator
	logger       *log.Logger
}

// NewServer constructs a Server. logger may be nil, in which case
// log.Default() is used.
func NewServer(orchestrator *audit.Orchestrator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{orchestrator: orchestrator, logger: logger}
}

// Handler returns the configured http.Handler, suitable for
// http.ListenAndServe or httptest.NewServer.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/api/audit", s.handleAudit)
	r.Get("/api/report/{package}.json", s.handleReport)

	return r
}

// requestLogger logs each request's method, path, status, and duration
// through the structured charmbracelet/log logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Infof("%s %s %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}
