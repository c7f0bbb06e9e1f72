package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"reviewhub/internal/review"
	"reviewhub/internal/store"
	"reviewhub/internal/usage"
)

// Store is the minimal storage contract the API needs beyond the engine.
type Store interface {
	ListAllRules(ctx context.Context) ([]store.StoredRule, error)
	CreateRule(ctx context.Context, def review.RuleDefinition) (int64, error)
	DeleteRule(ctx context.Context, id int64) error
	ListApplicableRules(ctx context.Context, projectID int64) ([]review.RuleDefinition, error)

	ListProjects(ctx context.Context) ([]store.Project, error)
	CreateProject(ctx context.Context, name, repoPath string) (int64, error)
	GetProject(ctx context.Context, id int64) (store.Project, error)

	GetCommitCheck(ctx context.Context, id string) (review.CommitCheck, error)
	ListCommitChecksByProject(ctx context.Context, projectID int64, limit int) ([]review.CommitCheck, error)
	ListSessionFindings(ctx context.Context, reviewID string) ([]review.Finding, error)
}

// Server exposes the review pipeline over HTTP.
type Server struct {
	Engine *review.Engine
	DB     Store
	Usage  *usage.Ring
	Logger *zap.Logger
}

// Routes builds the handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.withCORS(s.handleHealth))

	mux.HandleFunc("POST /api/v1/reviews", s.withCORS(s.handleCreateReview))
	mux.HandleFunc("POST /api/v1/reviews/quick-check", s.withCORS(s.handleQuickCheck))

	mux.HandleFunc("POST /api/v1/commit-checks", s.withCORS(s.handlePreCommitCheck))
	mux.HandleFunc("GET /api/v1/commit-checks/{id}", s.withCORS(s.handleGetCommitCheck))
	mux.HandleFunc("GET /api/v1/projects/{id}/commit-checks", s.withCORS(s.handleListCommitChecks))

	mux.HandleFunc("GET /api/v1/rules", s.withCORS(s.handleListRules))
	mux.HandleFunc("POST /api/v1/rules", s.withCORS(s.handleCreateRule))
	mux.HandleFunc("DELETE /api/v1/rules/{id}", s.withCORS(s.handleDeleteRule))
	mux.HandleFunc("GET /api/v1/projects/{id}/rules", s.withCORS(s.handleListProjectRules))

	mux.HandleFunc("GET /api/v1/projects", s.withCORS(s.handleListProjects))
	mux.HandleFunc("POST /api/v1/projects", s.withCORS(s.handleCreateProject))
	mux.HandleFunc("GET /api/v1/projects/{id}", s.withCORS(s.handleGetProject))

	mux.HandleFunc("GET /api/v1/usage/recent", s.withCORS(s.handleRecentUsage))

	mux.HandleFunc("/", s.withCORS(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	return mux
}

func (s *Server) withCORS(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		start := time.Now()
		h(w, r)
		if s.Logger != nil {
			s.Logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(start)))
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) err(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
