package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on schema changes; old databases must be deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different version.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

// Run is one completed pipeline pass.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Workers    int
	Received   int
	Sent       int
	Elapsed    time.Duration
	Clean      bool
}

// Store manages the run-history database.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Record inserts one completed run and returns it with its assigned id.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	clean := 0
	if run.Clean {
		clean = 1
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, started_at, finished_at, workers, received, sent, elapsed_ms, clean)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Workers,
		run.Received,
		run.Sent,
		run.Elapsed.Milliseconds(),
		clean,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, started_at, finished_at, workers, received, sent, elapsed_ms, clean
         FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			started   string
			finished  string
			elapsedMS int64
			clean     int
		)
		if err := rows.Scan(&run.ID, &started, &finished, &run.Workers, &run.Received, &run.Sent, &elapsedMS, &clean); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		run.Clean = clean != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}
