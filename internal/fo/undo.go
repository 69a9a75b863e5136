package fo

import (
	"fmt"
	"path/filepath"

	"fo-go/internal/txlog"
)

// UndoResult summarizes an undo run.
type UndoResult struct {
	// Total is the number of records read from the transaction log.
	Total int
	// Undone counts records eligible for reversal. Dry runs count the
	// reversals they would have applied.
	Undone int64
	DryRun bool
	// ArchivedPath is where the transaction log was renamed to, empty for
	// dry runs and empty logs.
	ArchivedPath string
}

// Undo replays the transaction log backward, reversing each recorded move
// whose destination still exists with unchanged content. Records are
// processed in reverse chronological order: a file moved twice must be
// unwound in the opposite order of its moves, and later moves may occupy
// paths that earlier reversals need clear.
//
// Integrity failures (missing destination, content drift) skip the one
// record with a warning and never abort the run. On completion of a real
// run the log is archived by rename so a stale log cannot be undone twice.
func (s *Service) Undo(log *txlog.Log, dryRun bool) (*UndoResult, error) {
	actions, err := log.Read()
	if err != nil {
		return nil, fmt.Errorf("reading transaction log: %w", err)
	}

	res := &UndoResult{Total: len(actions), DryRun: dryRun}
	if len(actions) == 0 {
		return res, nil
	}

	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]

		if !s.fsmgr.Exists(a.Dst) {
			s.logger.Warn("undo skip, destination missing", "dst", a.Dst)
			continue
		}

		sum, err := HashFile(s.fsmgr, a.Dst)
		if err != nil {
			return res, err
		}
		if sum != a.SrcSHA256 {
			// Content changed since the move; reversing would destroy newer data.
			s.logger.Warn("undo skip, content changed since move", "dst", a.Dst)
			continue
		}

		s.logger.Info("undoing move", "dst", a.Dst, "src", a.Src, "dry_run", dryRun)

		if !dryRun {
			if err := s.undoOne(a); err != nil {
				return res, err
			}
		}
		res.Undone++
	}

	if !dryRun {
		archived, err := log.Archive()
		if err != nil {
			return res, fmt.Errorf("archiving transaction log: %w", err)
		}
		res.ArchivedPath = archived
	}

	return res, nil
}

// undoOne moves a.Dst back to a.Src, renaming aside anything that has
// reoccupied the original path since the move.
func (s *Service) undoOne(a txlog.Action) error {
	if err := s.fsmgr.MkdirAll(filepath.Dir(a.Src)); err != nil {
		return fmt.Errorf("creating original directory: %w", err)
	}

	if s.fsmgr.Exists(a.Src) {
		backup := s.nextBackupPath(a.Src)
		if err := s.fsmgr.Move(a.Src, backup); err != nil {
			return fmt.Errorf("backing up existing file: %w", err)
		}
		s.logger.Warn("existing file saved as backup", "src", a.Src, "backup", backup)
	}

	if err := s.fsmgr.Move(a.Dst, a.Src); err != nil {
		return fmt.Errorf("moving %s back: %w", a.Dst, err)
	}
	return nil
}

// nextBackupPath finds a free aside-name for a reoccupied original path:
// "{name}.backup", then "{name}.backup1", "{name}.backup2", and so on.
// The search is unbounded, matching the destination resolver.
func (s *Service) nextBackupPath(src string) string {
	candidate := src + ".backup"
	for i := 1; s.fsmgr.Exists(candidate); i++ {
		candidate = fmt.Sprintf("%s.backup%d", src, i)
	}
	return candidate
}
