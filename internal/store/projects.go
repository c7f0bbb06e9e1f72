package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Project is an admin-managed project row.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	RepoPath  string    `json:"repoPath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateProject stores a project and returns its id.
func (db *DB) CreateProject(ctx context.Context, name, repoPath string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("project name is required")
	}
	res, err := db.conn.ExecContext(ctx, `
INSERT INTO projects (name, repo_path, created_at) VALUES (?, ?, ?)`,
		name, nullable(repoPath), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting project: %w", err)
	}
	return res.LastInsertId()
}

// GetProject loads one project by id.
func (db *DB) GetProject(ctx context.Context, id int64) (Project, error) {
	row := db.conn.QueryRowContext(ctx, `
SELECT id, name, repo_path, created_at FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

// ListProjects returns all projects, oldest first.
func (db *DB) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := db.conn.QueryContext(ctx, `
SELECT id, name, repo_path, created_at FROM projects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(row rowScanner) (Project, error) {
	var (
		p         Project
		repoPath  sql.NullString
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &repoPath, &createdAt); err != nil {
		return Project{}, err
	}
	p.RepoPath = repoPath.String
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	return p, nil
}
