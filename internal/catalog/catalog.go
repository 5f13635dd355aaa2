// Package catalog indexes parsed statements in a SQLite database so that
// definitions can be queried across files and unchanged files skipped.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

var errNotOpen = errors.New("catalog not opened")

// RunStatus is the lifecycle state of an index run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one `rwspec index` invocation.
type Run struct {
	ID          string     `json:"id"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Files       int        `json:"files"`
	Statements  int        `json:"statements"`
	Errors      int        `json:"errors"`
	Error       string     `json:"error,omitempty"`
}

// Catalog is a SQLite-backed statement index.
type Catalog struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the catalog at path and runs migrations.
// Use ":memory:" for an in-memory catalog.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dsn := "file::memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	c := &Catalog{db: db, path: path, logger: logger}
	if err := c.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug("catalog opened", "path", path)
	return c, nil
}

// New wraps an existing connection without migrating it.
func New(db *sql.DB, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{db: db, logger: logger}
}

// Path returns the database path given to Open.
func (c *Catalog) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// --- Run operations ---

// BeginRun records the start of an index run.
func (c *Catalog) BeginRun(ctx context.Context) (*Run, error) {
	if c.db == nil {
		return nil, errNotOpen
	}

	run := &Run{
		ID:        generateID(),
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	c.logger.Debug("run started", "run_id", run.ID)
	return run, nil
}

// CompleteRun stores the run's counters and final status.
func (c *Catalog) CompleteRun(ctx context.Context, run *Run, status RunStatus, errMsg string) error {
	if c.db == nil {
		return errNotOpen
	}

	now := time.Now().UTC()
	run.Status = status
	run.CompletedAt = &now
	run.Error = errMsg

	res, err := c.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, files = ?, statements = ?, errors = ?, error = ? WHERE id = ?`,
		status, now, run.Files, run.Statements, run.Errors, nullString(errMsg), run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	c.logger.Debug("run completed", "run_id", run.ID, "status", status)
	return nil
}

// GetRun retrieves a run by ID.
func (c *Catalog) GetRun(ctx context.Context, id string) (*Run, error) {
	if c.db == nil {
		return nil, errNotOpen
	}
	row := c.db.QueryRowContext(ctx,
		`SELECT id, status, started_at, completed_at, files, statements, errors, error FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first.
func (c *Catalog) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if c.db == nil {
		return nil, errNotOpen
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, status, started_at, completed_at, files, statements, errors, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	run := &Run{}
	var completedAt sql.NullTime
	var errMsg sql.NullString
	if err := s.Scan(&run.ID, &run.Status, &run.StartedAt, &completedAt,
		&run.Files, &run.Statements, &run.Errors, &errMsg); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	run.Error = errMsg.String
	return run, nil
}

// nullString returns a sql.NullString for optional string fields.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
