package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/review"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// rawInputLimit bounds how much of the submitted payload is retained per
// session.
const rawInputLimit = 10000

// SaveSession persists a review session with its findings and usage in one
// transaction and returns the assigned session id.
func (db *DB) SaveSession(ctx context.Context, session review.ReviewSession, files []review.FileInput) (string, error) {
	id := session.ID
	if id == "" {
		id = uuid.NewString()
	}

	rawInput, err := json.Marshal(struct {
		Metadata review.Metadata    `json:"metadata"`
		Files    []review.FileInput `json:"files"`
	}{session.Metadata, files})
	if err != nil {
		return "", fmt.Errorf("encoding raw input: %w", err)
	}
	if len(rawInput) > rawInputLimit {
		rawInput = rawInput[:rawInputLimit]
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO reviews (id, project_id, user_id, mode, raw_input, summary, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, zeroNull(session.Metadata.ProjectID), zeroNull(session.Metadata.UserID),
		string(session.Metadata.Mode), string(rawInput), nullable(session.Metadata.Summary),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("inserting review: %w", err)
	}

	for i, f := range session.Findings {
		_, err = tx.ExecContext(ctx, `
INSERT INTO findings (review_id, position, file, line_start, line_end, category, severity,
                      title, explanation, recommendation, source, effort_minutes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, f.File, f.LineStart, f.LineEnd, string(f.Category), string(f.Severity),
			f.Title, f.Explanation, f.Recommendation, string(f.Source), f.EffortMinutes)
		if err != nil {
			return "", fmt.Errorf("inserting finding: %w", err)
		}
	}

	if session.Usage != nil {
		u := session.Usage
		_, err = tx.ExecContext(ctx, `
INSERT INTO usage_metrics (review_id, provider, model, chars_in, chars_out, latency_ms)
VALUES (?, ?, ?, ?, ?, ?)`,
			id, u.Provider, u.Model, u.CharsIn, u.CharsOut, u.LatencyMs)
		if err != nil {
			return "", fmt.Errorf("inserting usage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing session: %w", err)
	}
	return id, nil
}

// ListSessionFindings returns a session's findings in persisted order.
func (db *DB) ListSessionFindings(ctx context.Context, reviewID string) ([]review.Finding, error) {
	rows, err := db.conn.QueryContext(ctx, `
SELECT file, line_start, line_end, category, severity, title, explanation, recommendation, source, effort_minutes
FROM findings
WHERE review_id = ?
ORDER BY position ASC`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("listing findings: %w", err)
	}
	defer rows.Close()

	findings := []review.Finding{}
	for rows.Next() {
		var f review.Finding
		if err := rows.Scan(&f.File, &f.LineStart, &f.LineEnd, &f.Category, &f.Severity,
			&f.Title, &f.Explanation, &f.Recommendation, &f.Source, &f.EffortMinutes); err != nil {
			return nil, fmt.Errorf("scanning finding row: %w", err)
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// SaveCommitCheck persists a commit gate record and returns its id.
func (db *DB) SaveCommitCheck(ctx context.Context, check review.CommitCheck) (string, error) {
	id := check.ID
	if id == "" {
		id = uuid.NewString()
	}

	filesJSON, err := json.Marshal(check.FilesChecked)
	if err != nil {
		return "", fmt.Errorf("encoding files checked: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
INSERT INTO commit_checks (id, project_id, commit_hash, branch_name, author_email, commit_message,
                           files_checked, passed, total_findings, critical_findings, review_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, check.ProjectID, nullable(check.CommitHash), nullable(check.BranchName),
		nullable(check.AuthorEmail), nullable(check.CommitMessage), string(filesJSON),
		boolInt(check.Passed), check.TotalFindings, check.CriticalFindings,
		nullable(check.ReviewID), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("inserting commit check: %w", err)
	}
	return id, nil
}

// GetCommitCheck loads one commit check by id.
func (db *DB) GetCommitCheck(ctx context.Context, id string) (review.CommitCheck, error) {
	row := db.conn.QueryRowContext(ctx, `
SELECT id, project_id, commit_hash, branch_name, author_email, commit_message,
       files_checked, passed, total_findings, critical_findings, review_id
FROM commit_checks
WHERE id = ?`, id)
	check, err := scanCommitCheck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return review.CommitCheck{}, ErrNotFound
	}
	return check, err
}

// ListCommitChecksByProject returns recent commit checks, newest first.
func (db *DB) ListCommitChecksByProject(ctx context.Context, projectID int64, limit int) ([]review.CommitCheck, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, `
SELECT id, project_id, commit_hash, branch_name, author_email, commit_message,
       files_checked, passed, total_findings, critical_findings, review_id
FROM commit_checks
WHERE project_id = ?
ORDER BY created_at DESC
LIMIT ?`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing commit checks: %w", err)
	}
	defer rows.Close()

	checks := []review.CommitCheck{}
	for rows.Next() {
		check, err := scanCommitCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommitCheck(row rowScanner) (review.CommitCheck, error) {
	var (
		c         review.CommitCheck
		hash      sql.NullString
		branch    sql.NullString
		email     sql.NullString
		message   sql.NullString
		filesJSON sql.NullString
		passed    int
		reviewID  sql.NullString
	)
	err := row.Scan(&c.ID, &c.ProjectID, &hash, &branch, &email, &message,
		&filesJSON, &passed, &c.TotalFindings, &c.CriticalFindings, &reviewID)
	if err != nil {
		return review.CommitCheck{}, err
	}
	c.CommitHash = hash.String
	c.BranchName = branch.String
	c.AuthorEmail = email.String
	c.CommitMessage = message.String
	c.Passed = passed != 0
	c.ReviewID = reviewID.String
	if filesJSON.String != "" {
		if err := json.Unmarshal([]byte(filesJSON.String), &c.FilesChecked); err != nil {
			c.FilesChecked = nil
		}
	}
	return c, nil
}

func zeroNull(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
