// Package auditstore persists n8n callback payloads to a local SQLite
// database for centralized audit retention.
//
// The store is append-only: each accepted callback becomes one row holding
// the full payload JSON plus the columns needed for lookup. Nothing reads
// these rows on the request path; they exist for operators and for the
// planned status-store phase.
package auditstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/natbkgift/flowbiz-infra-n8n/pkg/callback"
)

const driverName = "sqlite"

// Store is a SQLite-backed audit log.
type Store struct {
	db   *sql.DB
	path string
}

// Record is one persisted callback.
type Record struct {
	ID          int64
	StoredAt    time.Time
	JobID       string
	Status      string
	PayloadJSON string
}

// Open opens (and creates if needed) the audit database at path, applying
// the schema and pragmas for predictable single-writer behavior.
func Open(ctx context.Context, path string) (*Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("audit db path is empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit db dir: %w", err)
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit store: %w", err)
	}

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure audit store: %w", err)
		}
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stored_at TEXT NOT NULL,
			job_id TEXT NOT NULL,
			status TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_job ON audit_logs(job_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate audit store: %w", err)
		}
	}
	return nil
}

// Insert appends one callback payload to the audit log.
func (s *Store) Insert(ctx context.Context, cb *callback.Payload) error {
	if cb == nil {
		return fmt.Errorf("callback payload is nil")
	}

	payload, err := json.Marshal(cb)
	if err != nil {
		return fmt.Errorf("marshal callback payload: %w", err)
	}

	storedAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_logs (stored_at, job_id, status, payload_json) VALUES (?, ?, ?, ?)`,
		storedAt, cb.JobID, string(cb.Status), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stored_at, job_id, status, payload_json
		 FROM audit_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var rec Record
		var storedAt string
		if err := rows.Scan(&rec.ID, &storedAt, &rec.JobID, &rec.Status, &rec.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		if ts, perr := time.Parse(time.RFC3339Nano, storedAt); perr == nil {
			rec.StoredAt = ts
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return out, nil
}
