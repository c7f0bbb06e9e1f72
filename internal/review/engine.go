package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrValidation marks malformed requests. It is the only error class
// surfaced to callers; every other failure degrades into synthetic findings.
var ErrValidation = errors.New("invalid request")

// CommitCheck is the gating record produced by a pre-commit check.
type CommitCheck struct {
	ID               string   `json:"id"`
	ProjectID        int64    `json:"projectId"`
	CommitHash       string   `json:"commitHash,omitempty"`
	BranchName       string   `json:"branchName,omitempty"`
	AuthorEmail      string   `json:"authorEmail,omitempty"`
	CommitMessage    string   `json:"commitMessage,omitempty"`
	FilesChecked     []string `json:"filesChecked"`
	Passed           bool     `json:"passed"`
	TotalFindings    int      `json:"totalFindings"`
	CriticalFindings int      `json:"criticalFindings"`
	ReviewID         string   `json:"reviewId,omitempty"`
}

// PersistenceGateway stores review sessions and commit checks. Failures are
// non-fatal to the review itself.
type PersistenceGateway interface {
	SaveSession(ctx context.Context, session ReviewSession, files []FileInput) (string, error)
	SaveCommitCheck(ctx context.Context, check CommitCheck) (string, error)
}

// UsageRecorder receives usage metrics from completed model calls.
type UsageRecorder interface {
	Record(u UsageMetrics)
}

// QuickCheckResult is the rule-engine-only gate outcome.
type QuickCheckResult struct {
	Passed     bool      `json:"passed"`
	Violations []Finding `json:"violations"`
	Message    string    `json:"message"`
}

// PreCommitRequest carries commit metadata alongside the file batch.
type PreCommitRequest struct {
	ProjectID     int64       `json:"projectId"`
	UserID        int64       `json:"userId,omitempty"`
	Files         []FileInput `json:"files"`
	CommitHash    string      `json:"commitHash,omitempty"`
	BranchName    string      `json:"branchName,omitempty"`
	AuthorEmail   string      `json:"authorEmail,omitempty"`
	CommitMessage string      `json:"commitMessage,omitempty"`
}

// PreCommitResult is returned to the hook that gates the commit.
type PreCommitResult struct {
	Passed           bool      `json:"passed"`
	CommitCheckID    string    `json:"commitCheckId,omitempty"`
	TotalFindings    int       `json:"totalFindings"`
	CriticalFindings int       `json:"criticalFindings"`
	Findings         []Finding `json:"findings"`
	Message          string    `json:"message"`
}

// Engine orchestrates one analysis request: resolve rules, evaluate,
// optionally invoke the model, aggregate, persist, respond. It holds no
// per-request mutable state and is safe for concurrent use.
type Engine struct {
	builder *RuleSetBuilder
	model   *ModelReviewer
	gateway PersistenceGateway
	usage   UsageRecorder
	logger  *zap.Logger
}

// NewEngine wires the pipeline. model, gateway, and usage may be nil; the
// corresponding steps are skipped.
func NewEngine(builder *RuleSetBuilder, model *ModelReviewer, gateway PersistenceGateway, usage UsageRecorder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{builder: builder, model: model, gateway: gateway, usage: usage, logger: logger}
}

func validateFiles(files []FileInput) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: payload must include a non-empty files array with {path, content}", ErrValidation)
	}
	return nil
}

// RunRuleChecks evaluates the project's rule set against the file batch.
func (e *Engine) RunRuleChecks(ctx context.Context, files []FileInput, projectID int64) ([]Finding, error) {
	if err := validateFiles(files); err != nil {
		return nil, err
	}
	ruleSet := e.builder.Build(ctx, projectID)
	return Evaluate(files, ruleSet), nil
}

// RunReview executes the full pipeline: rule findings, model findings,
// aggregation, usage recording, and persistence. Model and persistence
// failures never fail the review.
func (e *Engine) RunReview(ctx context.Context, files []FileInput, meta Metadata) (Result, error) {
	if err := validateFiles(files); err != nil {
		return Result{}, err
	}
	if meta.Mode == "" {
		meta.Mode = ModeUpload
	}

	ruleFindings := Evaluate(files, e.builder.Build(ctx, meta.ProjectID))

	var modelFindings []Finding
	var usagePtr *UsageMetrics
	if e.model != nil {
		mr := e.model.Review(ctx, files, meta)
		modelFindings = mr.Findings
		u := mr.Usage
		usagePtr = &u
		if e.usage != nil {
			e.usage.Record(u)
		}
	}

	result := Aggregate(ruleFindings, modelFindings)
	result.Usage = usagePtr
	result.SessionID = e.persist(ctx, meta, files, result.Findings, usagePtr)
	return result, nil
}

// QuickCheck is the rule-engine-only gate: it passes only when no rule
// fires at all.
func (e *Engine) QuickCheck(ctx context.Context, files []FileInput, projectID int64) (QuickCheckResult, error) {
	violations, err := e.RunRuleChecks(ctx, files, projectID)
	if err != nil {
		return QuickCheckResult{}, err
	}

	res := QuickCheckResult{
		Passed:     len(violations) == 0,
		Violations: violations,
	}
	if res.Passed {
		res.Message = "All mandatory rules passed!"
	} else {
		res.Message = fmt.Sprintf("Found %d violation%s.", len(violations), plural(len(violations)))
	}
	return res, nil
}

// PreCommitCheck runs rule checks for a commit gate. The commit is blocked
// only on critical findings; the full finding list is returned regardless.
func (e *Engine) PreCommitCheck(ctx context.Context, req PreCommitRequest) (PreCommitResult, error) {
	if req.ProjectID == 0 {
		return PreCommitResult{}, fmt.Errorf("%w: projectId is required", ErrValidation)
	}
	if err := validateFiles(req.Files); err != nil {
		return PreCommitResult{}, err
	}

	ruleFindings := Evaluate(req.Files, e.builder.Build(ctx, req.ProjectID))
	agg := Aggregate(ruleFindings, nil)

	meta := Metadata{ProjectID: req.ProjectID, UserID: req.UserID, Mode: ModePreCommit}
	reviewID := e.persist(ctx, meta, req.Files, agg.Findings, nil)

	check := CommitCheck{
		ProjectID:        req.ProjectID,
		CommitHash:       req.CommitHash,
		BranchName:       req.BranchName,
		AuthorEmail:      req.AuthorEmail,
		CommitMessage:    req.CommitMessage,
		FilesChecked:     filePaths(req.Files),
		Passed:           agg.Passed,
		TotalFindings:    agg.TotalCount,
		CriticalFindings: agg.CriticalCount,
		ReviewID:         reviewID,
	}

	var checkID string
	if e.gateway != nil {
		id, err := e.gateway.SaveCommitCheck(ctx, check)
		if err != nil {
			e.logger.Error("persisting commit check failed", zap.Error(err))
		} else {
			checkID = id
		}
	}

	res := PreCommitResult{
		Passed:           agg.Passed,
		CommitCheckID:    checkID,
		TotalFindings:    agg.TotalCount,
		CriticalFindings: agg.CriticalCount,
		Findings:         agg.Findings,
	}
	if res.Passed {
		res.Message = "All mandatory checks passed! Commit allowed."
	} else {
		res.Message = fmt.Sprintf("Found %d critical issue(s). Fix them before committing.", agg.CriticalCount)
	}
	return res, nil
}

// persist stores the session, swallowing failures. Returns the assigned
// session id, or empty when persistence was skipped or failed.
func (e *Engine) persist(ctx context.Context, meta Metadata, files []FileInput, findings []Finding, usage *UsageMetrics) string {
	if e.gateway == nil {
		return ""
	}
	session := ReviewSession{Metadata: meta, Findings: findings, Usage: usage}
	id, err := e.gateway.SaveSession(ctx, session, files)
	if err != nil {
		e.logger.Error("persisting review session failed", zap.Error(err))
		return ""
	}
	return id
}

func filePaths(files []FileInput) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
