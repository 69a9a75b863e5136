// Package txlog implements the append-only transaction log that makes
// organize runs reversible. The log is a UTF-8 text file with one
// JSON-serialized record per line. It is created lazily on the first append,
// read fresh on every invocation, and retired by an atomic rename (never
// truncated or deleted) once an undo run consumes it.
package txlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TimeLayout is the record timestamp format: second precision, UTC, ISO-8601
// with a trailing Z.
const TimeLayout = "2006-01-02T15:04:05Z"

// DefaultName is the log filename used when the caller does not supply one.
const DefaultName = ".fo_transactions.jsonl"

// archiveSuffix replaces the log's extension when an undo run retires it.
const archiveSuffix = ".undone.jsonl"

// Action is one immutable record of a completed relocation.
// A record exists if and only if the underlying move succeeded.
type Action struct {
	Src       string `json:"src"`
	Dst       string `json:"dst"`
	TimeUTC   string `json:"time_utc"`
	SrcSHA256 string `json:"src_sha256"`
}

// Log is a handle on a transaction log file. The file on disk exclusively
// owns the record sequence; no state is cached between calls.
type Log struct {
	path string
}

// New creates a handle for the log at path. The file itself is not created
// until the first Append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Append serializes one action and appends it as a single line. The file is
// opened in append mode per record; there is exactly one writer per run.
func (l *Log) Append(a Action) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding action: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening transaction log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending to transaction log: %w", err)
	}
	return nil
}

// Read returns every recorded action in log order. A missing log yields an
// empty slice and no error; blank lines are skipped.
func (l *Log) Read() ([]Action, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening transaction log: %w", err)
	}
	defer f.Close()

	var actions []Action
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var a Action
		if err := json.Unmarshal([]byte(line), &a); err != nil {
			return nil, fmt.Errorf("decoding transaction record: %w", err)
		}
		actions = append(actions, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transaction log: %w", err)
	}
	return actions, nil
}

// Archive renames the log to its archived sibling name and returns that path.
// Renaming rather than deleting preserves the audit trail and prevents a
// second undo from replaying a stale log.
func (l *Log) Archive() (string, error) {
	archived := ArchivePath(l.path)
	if err := os.Rename(l.path, archived); err != nil {
		return "", fmt.Errorf("renaming transaction log: %w", err)
	}
	return archived, nil
}

// ArchivePath returns the archived sibling name for a log path: the final
// extension, if any, is replaced by ".undone.jsonl".
func ArchivePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + archiveSuffix
}
