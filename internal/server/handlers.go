package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"reviewhub/internal/review"
	"reviewhub/internal/store"
)

type reviewRequest struct {
	Files    []review.FileInput `json:"files"`
	Metadata review.Metadata    `json:"metadata"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.err(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := s.Engine.RunReview(r.Context(), req.Files, req.Metadata)
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"review": map[string]any{
			"id":       result.SessionID,
			"metadata": req.Metadata,
			"findings": result.Findings,
			"passed":   result.Passed,
			"usage":    result.Usage,
		},
	})
}

type quickCheckRequest struct {
	Files     []review.FileInput `json:"files"`
	ProjectID int64              `json:"projectId"`
}

func (s *Server) handleQuickCheck(w http.ResponseWriter, r *http.Request) {
	var req quickCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.err(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.ProjectID == 0 {
		s.err(w, http.StatusBadRequest, "projectId is required for quick check")
		return
	}

	result, err := s.Engine.QuickCheck(r.Context(), req.Files, req.ProjectID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePreCommitCheck(w http.ResponseWriter, r *http.Request) {
	var req review.PreCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.err(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := s.Engine.PreCommitCheck(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetCommitCheck(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	check, err := s.DB.GetCommitCheck(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.err(w, http.StatusNotFound, "commit check not found")
		return
	}
	if err != nil {
		s.storageError(w, err)
		return
	}

	var findings []review.Finding
	if check.ReviewID != "" {
		findings, err = s.DB.ListSessionFindings(r.Context(), check.ReviewID)
		if err != nil {
			s.storageError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"check":    check,
		"findings": findings,
	})
}

func (s *Server) handleListCommitChecks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r)
	if !ok {
		s.err(w, http.StatusBadRequest, "invalid project id")
		return
	}
	limit := clamp(parseInt(r.URL.Query().Get("limit"), 50), 1, 200)

	checks, err := s.DB.ListCommitChecksByProject(r.Context(), projectID, limit)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"checks": checks})
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.DB.ListAllRules(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rules":    rules,
		"defaults": review.DefaultRules(),
	})
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var def review.RuleDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		s.err(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if !def.Validate() {
		s.err(w, http.StatusBadRequest, "rule requires key, message, a valid severity and category")
		return
	}
	// The pattern must compile now so a broken rule is rejected at authoring
	// time instead of being silently dropped at review time.
	if _, err := review.Compile(def); err != nil {
		s.err(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.DB.CreateRule(r.Context(), def)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.err(w, http.StatusBadRequest, "invalid rule id")
		return
	}
	if err := s.DB.DeleteRule(r.Context(), id); err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProjectRules(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r)
	if !ok {
		s.err(w, http.StatusBadRequest, "invalid project id")
		return
	}
	rules, err := s.DB.ListApplicableRules(r.Context(), projectID)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.DB.ListProjects(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

type projectRequest struct {
	Name     string `json:"name"`
	RepoPath string `json:"repoPath"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.err(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Name == "" {
		s.err(w, http.StatusBadRequest, "project name is required")
		return
	}

	id, err := s.DB.CreateProject(r.Context(), req.Name, req.RepoPath)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.err(w, http.StatusBadRequest, "invalid project id")
		return
	}
	project, err := s.DB.GetProject(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.err(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

func (s *Server) handleRecentUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"usage": s.Usage.Recent()})
}

// respondError maps engine errors: validation failures are the caller's
// fault, everything else is a server error.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, review.ErrValidation) {
		s.err(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.Logger != nil {
		s.Logger.Error("request failed", zap.Error(err))
	}
	s.err(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) storageError(w http.ResponseWriter, err error) {
	if s.Logger != nil {
		s.Logger.Error("storage error", zap.Error(err))
	}
	s.err(w, http.StatusInternalServerError, "storage error: "+err.Error())
}
