package fo

import (
	"database/sql"
	"time"
)

// Run is one recorded organize or undo invocation in the history database.
type Run struct {
	ID         string // UUID
	Operation  string // "Organize" or "Undo"
	Root       string // absolute root path the run operated on
	DryRun     bool
	Scanned    int64 // files considered (organize) or log records read (undo)
	Moved      int64 // files moved (organize) or reversals applied (undo)
	Status     string // "success" or "error"
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// Database stores the run history.
type Database interface {
	// CreateRun inserts a run record in its initial (unfinished) state.
	CreateRun(run *Run) error

	// FinishRun stamps the finish time and final counters on a run.
	FinishRun(id string, status string, scanned, moved int64) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	// Close closes the database connection.
	Close() error
}
