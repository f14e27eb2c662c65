package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	stackerrors "github.com/pkgaudit/pkgaudit/pkg/errors"
	"github.com/pkgaudit/pkgaudit/pkg/integrations"
)

// handleHealth answers GET /health with a static liveness payload.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAudit answers GET /api/audit?pkg={name}: a cache-check-then-audit
// lookup, matching the presentation layer's dual-channel error contract
// by always returning a JSON body, success or failure.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	pkg := strings.TrimSpace(r.URL.Query().Get("pkg"))
	if pkg == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pkg is required"})
		return
	}

	report, err := s.orchestrator.Audit(r.Context(), pkg, false)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": stackerrors.UserMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleReport answers GET /api/report/{package}.json: a cache-only
// lookup that never triggers an audit, 404ing if nothing is cached.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	pkg := integrations.NormalizePkgName(chi.URLParam(r, "package"))

	report, hit := s.orchestrator.CachedReport(r.Context(), pkg)
	if !hit {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found in cache"})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// statusForError maps a stackerrors.Error code to the HTTP status the API
// surfaces it under.
func statusForError(err error) int {
	switch stackerrors.GetCode(err) {
	case stackerrors.ErrCodeInvalidInput, stackerrors.ErrCodeInvalidPackage, stackerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case stackerrors.ErrCodeNotFound, stackerrors.ErrCodePackageNotFound:
		return http.StatusNotFound
	case stackerrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
