package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reviewhub/internal/review"
)

// StoredRule is a rule row with its storage identity.
type StoredRule struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	review.RuleDefinition
}

// ListApplicableRules returns rules scoped to the project plus all global
// rules. Project rules come first so they take dedup precedence over globals
// and defaults sharing their key.
func (db *DB) ListApplicableRules(ctx context.Context, projectID int64) ([]review.RuleDefinition, error) {
	rows, err := db.conn.QueryContext(ctx, `
SELECT id, project_id, key, message, pattern, recommendation, category, severity, scope, created_at
FROM rules
WHERE project_id = ? OR scope = 'global'
ORDER BY (scope = 'global') ASC, created_at ASC, id ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var defs []review.RuleDefinition
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, r.RuleDefinition)
	}
	return defs, rows.Err()
}

// ListAllRules returns every stored rule, newest first.
func (db *DB) ListAllRules(ctx context.Context) ([]StoredRule, error) {
	rows, err := db.conn.QueryContext(ctx, `
SELECT id, project_id, key, message, pattern, recommendation, category, severity, scope, created_at
FROM rules
ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var out []StoredRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateRule stores a validated rule definition and returns its id.
func (db *DB) CreateRule(ctx context.Context, def review.RuleDefinition) (int64, error) {
	if !def.Validate() {
		return 0, fmt.Errorf("invalid rule definition: key=%q", def.Key)
	}
	if def.Scope == "" {
		def.Scope = review.ScopeProject
	}

	var projectID any
	if def.ProjectID != 0 {
		projectID = def.ProjectID
	}

	res, err := db.conn.ExecContext(ctx, `
INSERT INTO rules (project_id, key, message, pattern, recommendation, category, severity, scope, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		projectID, def.Key, def.Message, nullable(def.Pattern), nullable(def.Recommendation),
		string(def.Category), string(def.Severity), string(def.Scope),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting rule: %w", err)
	}
	return res.LastInsertId()
}

// DeleteRule removes one rule by id.
func (db *DB) DeleteRule(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	return err
}

// DeleteRulesForProject removes all project-scoped rules of a project.
func (db *DB) DeleteRulesForProject(ctx context.Context, projectID int64) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM rules WHERE project_id = ? AND scope = 'project'`, projectID)
	return err
}

// scanRule is the single mapping point from storage rows to rule
// definitions; column NULLs and legacy casing never leak past it.
func scanRule(rows *sql.Rows) (StoredRule, error) {
	var (
		r         StoredRule
		projectID sql.NullInt64
		pattern   sql.NullString
		rec       sql.NullString
		scope     sql.NullString
		createdAt string
	)
	if err := rows.Scan(&r.ID, &projectID, &r.Key, &r.Message, &pattern, &rec,
		&r.Category, &r.Severity, &scope, &createdAt); err != nil {
		return StoredRule{}, fmt.Errorf("scanning rule row: %w", err)
	}
	r.ProjectID = projectID.Int64
	r.Pattern = pattern.String
	r.Recommendation = rec.String
	r.Scope = review.RuleScope(scope.String)
	if r.Scope == "" {
		r.Scope = review.ScopeProject
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		r.CreatedAt = t
	}
	return r, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
