package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/groupflow/sage/internal/analyzer"
	"github.com/groupflow/sage/internal/minutes"
	"github.com/groupflow/sage/internal/profile"
)

type Server struct {
	router   *chi.Mux
	port     int
	analyzer *analyzer.Analyzer
	profiles *profile.Store
	minutes  *minutes.Generator
	logger   *slog.Logger
}

func NewServer(port int, apiToken string, a *analyzer.Analyzer, profiles *profile.Store, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		analyzer: a,
		profiles: profiles,
		minutes:  minutes.NewGenerator(),
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/sage/status", s.status)
	router.Get("/api/v1/participants/{id}/profile", s.participantProfile)

	router.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/api/v1/segments/analyze", s.analyzeSegment)
		r.Post("/api/v1/sessions/insights", s.sessionInsights)
		r.Post("/api/v1/minutes", s.generateMinutes)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// BearerAuthMiddleware rejects mutating requests without the expected
// bearer token. An empty configured token disables the check for local
// development.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got != token {
				writeError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":  "sage",
		"status": "active",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
