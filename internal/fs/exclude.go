package fs

import "strings"

// excludeSet matches directory basenames case-insensitively.
type excludeSet map[string]struct{}

func newExcludeSet(names []string) excludeSet {
	s := make(excludeSet, len(names))
	for _, n := range names {
		s[strings.ToLower(n)] = struct{}{}
	}
	return s
}

// Contains reports whether name is excluded.
func (s excludeSet) Contains(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// isHidden reports whether a basename follows the dot-prefix hidden
// convention.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
