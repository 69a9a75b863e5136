package fo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DuplicatePolicy governs what happens when a move's destination already exists.
type DuplicatePolicy string

const (
	// DuplicateRename picks the smallest free "{stem} ({i}){suffix}" slot.
	DuplicateRename DuplicatePolicy = "rename"
	// DuplicateSkip declines the move.
	DuplicateSkip DuplicatePolicy = "skip"
	// DuplicateOverwrite keeps the destination; the mover removes the existing
	// file before writing.
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

// ParseDuplicatePolicy validates a raw policy string.
func ParseDuplicatePolicy(raw string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(raw) {
	case DuplicateRename, DuplicateSkip, DuplicateOverwrite:
		return DuplicatePolicy(raw), nil
	}
	return "", fmt.Errorf("unknown duplicate policy: %q", raw)
}

// ResolveDestination decides the actual path a move should write to.
// The boolean result is false when the policy declines the move (skip on an
// existing destination). For a fixed filesystem state the choice is
// deterministic: rename always picks the smallest free index.
func ResolveDestination(fsmgr FilesystemManager, desired string, policy DuplicatePolicy) (string, bool) {
	if !fsmgr.Exists(desired) {
		return desired, true
	}

	switch policy {
	case DuplicateOverwrite:
		return desired, true
	case DuplicateSkip:
		return "", false
	}

	// rename: probe upward until a free slot is found. The search is
	// unbounded; collision chains of any length resolve to the next index.
	parent := filepath.Dir(desired)
	suffix := filepath.Ext(desired)
	stem := strings.TrimSuffix(filepath.Base(desired), suffix)
	for i := 1; ; i++ {
		candidate := filepath.Join(parent, fmt.Sprintf("%s (%d)%s", stem, i, suffix))
		if !fsmgr.Exists(candidate) {
			return candidate, true
		}
	}
}
