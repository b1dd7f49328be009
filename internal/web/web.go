// Package web serves the generated site for local preview alongside a small
// JSON API over the archives.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexalemi/kissimmee.fyi/internal/archive"
	"github.com/alexalemi/kissimmee.fyi/internal/metrics"
)

// Server holds dependencies for the HTTP handlers.
type Server struct {
	archives *archive.Store
	siteDir  string
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New wires up routes and returns a ready-to-use Server.
func New(archives *archive.Store, siteDir string, logger *slog.Logger) *Server {
	srv := &Server{archives: archives, siteDir: siteDir, logger: logger, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

// ServeHTTP makes Server satisfy the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ---------- Routes ----------

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/bodies", s.handleListBodies)
	s.mux.HandleFunc("GET /api/notices", s.handleListNotices)
	s.mux.Handle("GET /metrics", metrics.Handler())

	s.mux.Handle("/", http.FileServer(http.Dir(s.siteDir)))
}

// ---------- Handlers ----------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListBodies(w http.ResponseWriter, _ *http.Request) {
	keys := s.archives.Keys()
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, keys)
}

func (s *Server) handleListNotices(w http.ResponseWriter, r *http.Request) {
	body := r.URL.Query().Get("body")
	if body == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body query parameter is required"})
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	a := s.archives.Load(body)
	notices := archive.Sorted(a)
	if len(notices) > limit {
		notices = notices[:limit]
	}
	writeJSON(w, http.StatusOK, notices)
}

// ---------- Helpers ----------

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
