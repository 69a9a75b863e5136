package fo

import (
	"io"
	"io/fs"
)

// FindOptions controls file discovery under a root directory.
type FindOptions struct {
	// Recursive walks subdirectories top-down. When false, only direct
	// children of the root are considered.
	Recursive bool

	// IncludeHidden includes dot-prefixed files and directories. When false,
	// hidden directories are pruned before descending into them.
	IncludeHidden bool

	// ExcludeDirs is a set of directory basenames (matched case-insensitively)
	// that are pruned from recursive walks; their contents are never yielded.
	ExcludeDirs []string
}

// FilesystemManager abstracts filesystem access so the service layer can be
// exercised against a mock in tests.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// The path is converted to an absolute path, stat'ed, and rejected if it
	// is a symlink, device, pipe, or socket.
	Resolve(rawPath string) (*Path, error)

	// Open opens the file at the given absolute path for reading.
	Open(path string) (io.ReadCloser, error)

	// Stat fetches current file info for a path. Unlike Path.Info, which is
	// cached from resolve time, this always hits the filesystem.
	Stat(path string) (fs.FileInfo, error)

	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool

	// FindFiles discovers regular files under the given directory.
	FindFiles(root *Path, opts FindOptions) ([]*Path, error)

	// MkdirAll creates a directory along with any missing parents.
	MkdirAll(path string) error

	// Move relocates src to dst. Implementations must handle destinations on
	// a different filesystem volume than the source.
	Move(src, dst string) error

	// Remove deletes the file at path.
	Remove(path string) error
}
