package fo

import (
	"fmt"
	"path/filepath"
	"strings"

	"fo-go/internal/txlog"
)

// OutputDirName is the directory created under the organize root to hold
// category subfolders. It is always excluded from traversal so repeated runs
// never reorganize their own output.
const OutputDirName = "Organized"

// OrganizeOptions controls a single organize run.
type OrganizeOptions struct {
	Recursive     bool
	DryRun        bool
	Duplicates    DuplicatePolicy
	IncludeHidden bool
	ExcludeDirs   []string
	// KeepStructure mirrors the source subdirectory layout beneath each
	// category directory. Only meaningful together with Recursive.
	KeepStructure bool
}

// OrganizeResult summarizes an organize run.
type OrganizeResult struct {
	Scanned int64
	Moved   int64
	DryRun  bool
}

// Organize classifies files under root and relocates them into
// <root>/Organized/<Category>/ directories, appending one transaction record
// per completed move. A dry run reports the planned moves without touching
// the filesystem or the log.
//
// Resolvable duplicate conflicts never abort the batch; an I/O failure does,
// leaving all previously logged moves valid and reversible.
func (s *Service) Organize(root *Path, log *txlog.Log, opts OrganizeOptions) (*OrganizeResult, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root.String())
	}

	organizedDir := filepath.Join(root.String(), OutputDirName)

	find := FindOptions{
		Recursive:     opts.Recursive,
		IncludeHidden: opts.IncludeHidden,
		ExcludeDirs:   append(append([]string{}, opts.ExcludeDirs...), OutputDirName),
	}
	files, err := s.fsmgr.FindFiles(root, find)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}

	res := &OrganizeResult{DryRun: opts.DryRun}

	for _, f := range files {
		res.Scanned++

		// Traversal already prunes the output directory by name; this guards
		// against a log or exclusion misconfiguration pointing inside it.
		if isUnder(f.String(), organizedDir) {
			continue
		}

		name := filepath.Base(f.String())
		dst := filepath.Join(organizedDir, s.classifier.Classify(name), name)
		if opts.KeepStructure && opts.Recursive {
			rel, err := filepath.Rel(root.String(), filepath.Dir(f.String()))
			if err != nil {
				return res, fmt.Errorf("computing relative path for %s: %w", f.String(), err)
			}
			dst = filepath.Join(organizedDir, s.classifier.Classify(name), rel, name)
		}

		action, err := s.moveFile(f.String(), dst, log, opts)
		if err != nil {
			return res, err
		}
		if action != nil {
			res.Moved++
		}
	}

	s.logger.Info("organize complete", "scanned", res.Scanned, "moved", res.Moved, "dry_run", res.DryRun)
	return res, nil
}

// moveFile performs one classified move: resolve the destination, hash the
// source, stamp a transaction record, then mutate the filesystem and append
// the record. The record is written if and only if the move succeeded.
// A nil action with nil error means the file was skipped or already in place.
func (s *Service) moveFile(src, desired string, log *txlog.Log, opts OrganizeOptions) (*txlog.Action, error) {
	dst, ok := ResolveDestination(s.fsmgr, desired, opts.Duplicates)
	if !ok {
		s.logger.Info("skip, destination exists", "src", src, "dst", desired)
		return nil, nil
	}

	if dst == src {
		// Already in place.
		return nil, nil
	}

	// Hash before moving: the digest captures pre-move content so undo can
	// detect drift later.
	sum, err := HashFile(s.fsmgr, src)
	if err != nil {
		return nil, err
	}

	action := &txlog.Action{
		Src:       src,
		Dst:       dst,
		TimeUTC:   s.clock.Now().UTC().Format(txlog.TimeLayout),
		SrcSHA256: sum,
	}

	s.logger.Info("moving file", "src", src, "dst", dst, "dry_run", opts.DryRun)

	if opts.DryRun {
		return action, nil
	}

	if err := s.fsmgr.MkdirAll(filepath.Dir(dst)); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}
	if opts.Duplicates == DuplicateOverwrite && s.fsmgr.Exists(dst) {
		if err := s.fsmgr.Remove(dst); err != nil {
			return nil, fmt.Errorf("removing existing destination: %w", err)
		}
	}
	if err := s.fsmgr.Move(src, dst); err != nil {
		return nil, fmt.Errorf("moving %s: %w", src, err)
	}
	if err := log.Append(*action); err != nil {
		return nil, fmt.Errorf("recording move: %w", err)
	}

	return action, nil
}

// isUnder reports whether path is equal to or inside parent.
func isUnder(path, parent string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
