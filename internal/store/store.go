package store

import (
	"database/sql"

	_ "modernc.org/sqlite" // CGO-free SQLite driver
)

// DB is the durable storage backed by SQLite. It implements both the rule
// store and the review persistence gateway contracts.
type DB struct {
	conn *sql.DB
}

// Open opens (and creates if missing) a SQLite DB at path.
func Open(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures all tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS projects (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  name       TEXT NOT NULL,
  repo_path  TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  project_id     INTEGER,
  key            TEXT NOT NULL,
  message        TEXT NOT NULL,
  pattern        TEXT,
  recommendation TEXT,
  category       TEXT NOT NULL,
  severity       TEXT NOT NULL,
  scope          TEXT NOT NULL DEFAULT 'project',
  created_at     TEXT NOT NULL,
  FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_rules_project ON rules(project_id);

CREATE TABLE IF NOT EXISTS reviews (
  id         TEXT PRIMARY KEY,
  project_id INTEGER,
  user_id    INTEGER,
  mode       TEXT NOT NULL,
  raw_input  TEXT,
  summary    TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  review_id      TEXT NOT NULL,
  position       INTEGER NOT NULL,
  file           TEXT,
  line_start     INTEGER,
  line_end       INTEGER,
  category       TEXT,
  severity       TEXT,
  title          TEXT,
  explanation    TEXT,
  recommendation TEXT,
  source         TEXT,
  effort_minutes INTEGER,
  FOREIGN KEY(review_id) REFERENCES reviews(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_review ON findings(review_id);

CREATE TABLE IF NOT EXISTS usage_metrics (
  review_id  TEXT PRIMARY KEY,
  provider   TEXT,
  model      TEXT,
  chars_in   INTEGER,
  chars_out  INTEGER,
  latency_ms INTEGER,
  FOREIGN KEY(review_id) REFERENCES reviews(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS commit_checks (
  id                TEXT PRIMARY KEY,
  project_id        INTEGER NOT NULL,
  commit_hash       TEXT,
  branch_name       TEXT,
  author_email      TEXT,
  commit_message    TEXT,
  files_checked     TEXT,
  passed            INTEGER NOT NULL,
  total_findings    INTEGER NOT NULL,
  critical_findings INTEGER NOT NULL,
  review_id         TEXT,
  created_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_commit_checks_project ON commit_checks(project_id);
`)
	return err
}
