package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"fo-go/internal/fo"
)

// OSFilesystemManager is the real filesystem implementation of
// fo.FilesystemManager, built on the os package.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*fo.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	mode := info.Mode()
	if mode&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlinks not supported: %s", absPath)
	}
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return fo.NewPath(absPath, info.IsDir(), info), nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Stat returns fresh file info for a path.
func (m *OSFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Exists reports whether a file or directory exists at path.
func (m *OSFilesystemManager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MkdirAll creates a directory along with any missing parents.
func (m *OSFilesystemManager) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Remove deletes the file at path.
func (m *OSFilesystemManager) Remove(path string) error {
	return os.Remove(path)
}

// Move relocates src to dst by rename. When the destination sits on a
// different filesystem volume, rename fails with EXDEV and the move degrades
// to copy-then-delete.
func (m *OSFilesystemManager) Move(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("copying across volumes: %w", err)
		}
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("removing source after copy: %w", err)
		}
		return nil
	}

	return renameErr
}

// FindFiles discovers regular files under the given directory.
// Recursive walks are top-down: excluded and hidden directories are pruned
// before descending, so their contents are never yielded. The result is a
// single pass over current filesystem state; no snapshot isolation.
func (m *OSFilesystemManager) FindFiles(root *fo.Path, opts fo.FindOptions) ([]*fo.Path, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}

	exclude := newExcludeSet(opts.ExcludeDirs)
	var paths []*fo.Path

	if opts.Recursive {
		err := filepath.WalkDir(root.String(), func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p == root.String() {
					return nil
				}
				if exclude.Contains(d.Name()) {
					return fs.SkipDir
				}
				if isHidden(d.Name()) && !opts.IncludeHidden {
					return fs.SkipDir
				}
				return nil
			}
			if isHidden(d.Name()) && !opts.IncludeHidden {
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", p, err)
			}
			paths = append(paths, fo.NewPath(p, false, info))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory: %w", err)
		}
		return paths, nil
	}

	entries, err := os.ReadDir(root.String())
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isHidden(entry.Name()) && !opts.IncludeHidden {
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		paths = append(paths, fo.NewPath(filepath.Join(root.String(), entry.Name()), false, info))
	}
	return paths, nil
}

// copyFile streams src to dst, preserving the source's permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Compile-time check that OSFilesystemManager implements fo.FilesystemManager
var _ fo.FilesystemManager = (*OSFilesystemManager)(nil)
