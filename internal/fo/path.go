package fo

import "io/fs"

// Path is a validated filesystem path with cached metadata.
// Paths are produced by FilesystemManager.Resolve, which converts the raw
// input to an absolute path and stats it once.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// Intended for FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		isDir:   isDir,
		info:    info,
	}
}

// String returns the absolute path.
func (p *Path) String() string {
	return p.absPath
}

// IsDir reports whether this path points to a directory.
func (p *Path) IsDir() bool {
	return p.isDir
}

// Info returns the file info cached when the path was resolved.
func (p *Path) Info() fs.FileInfo {
	return p.info
}
