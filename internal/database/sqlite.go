package database

import (
	"database/sql"
	"fmt"
	"time"

	"fo-go/internal/database/migrations"
	"fo-go/internal/fo"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the fo.Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens (or creates) the run-history database at path and
// brings its schema to the latest version.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteDatabase{
		db:   db,
		path: path,
	}, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tests that need a raw, properly configured handle.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite defaults foreign keys to OFF for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// CreateRun inserts a run record in its initial state.
func (s *SQLiteDatabase) CreateRun(run *fo.Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, operation, root, dry_run, scanned, moved, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Operation, run.Root, run.DryRun, run.Scanned, run.Moved, run.Status, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// FinishRun stamps the finish time and final counters on a run.
func (s *SQLiteDatabase) FinishRun(id string, status string, scanned, moved int64) error {
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, scanned = ?, moved = ?, finished_at = ? WHERE id = ?`,
		status, scanned, moved, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking finished run: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteDatabase) ListRuns(limit int) ([]*fo.Run, error) {
	rows, err := s.db.Query(
		`SELECT id, operation, root, dry_run, scanned, moved, status, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*fo.Run
	for rows.Next() {
		var r fo.Run
		if err := rows.Scan(&r.ID, &r.Operation, &r.Root, &r.DryRun, &r.Scanned, &r.Moved, &r.Status, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteDatabase implements fo.Database
var _ fo.Database = (*SQLiteDatabase)(nil)
