// Package history persists one record per build invocation in SQLite,
// backing the `texbuilder history` command.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed build.
type Record struct {
	BuildID      string
	Document     string
	Outcome      string
	EnginePasses int
	ToolsRun     []string
	Duration     time.Duration
	ErrorText    string
	StartedAt    time.Time
}

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens a history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		document TEXT NOT NULL,
		outcome TEXT NOT NULL,
		engine_passes INTEGER NOT NULL,
		tools_run TEXT,
		duration_ms INTEGER NOT NULL,
		error_text TEXT,
		started_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_document ON builds(document);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores one build record.
func (s *Store) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (build_id, document, outcome, engine_passes, tools_run, duration_ms, error_text, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.BuildID, rec.Document, rec.Outcome, rec.EnginePasses,
		strings.Join(rec.ToolsRun, ","), rec.Duration.Milliseconds(),
		rec.ErrorText, rec.StartedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns the most recent builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, document, outcome, engine_passes, tools_run, duration_ms, error_text, started_at
		 FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var tools string
		var durationMS, startedAt int64
		if err := rows.Scan(&rec.BuildID, &rec.Document, &rec.Outcome, &rec.EnginePasses,
			&tools, &durationMS, &rec.ErrorText, &startedAt); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		if tools != "" {
			rec.ToolsRun = strings.Split(tools, ",")
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.StartedAt = time.Unix(startedAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
