package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fo-go/internal/fo"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Paths are stored as given; use absolute slash-separated paths in tests.
type MockFilesystemManager struct {
	files map[string]*MockFile

	// OpenErrors maps paths to errors returned by Open, for exercising
	// read-failure handling.
	OpenErrors map[string]error
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:      make(map[string]*MockFile),
		OpenErrors: make(map[string]error),
	}
}

// AddFile adds a regular file to the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     time.Now(),
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.files[path] = &MockFile{
		Permissions: 0755 | fs.ModeDir,
		ModTime:     time.Now(),
		IsDirectory: true,
	}
}

// File returns the mock file at path, or nil if absent.
func (m *MockFilesystemManager) File(path string) *MockFile {
	return m.files[path]
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*fo.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}

	return fo.NewPath(absPath, file.IsDirectory, m.infoFor(absPath, file)), nil
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	if err, ok := m.OpenErrors[path]; ok {
		return nil, err
	}

	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path)
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return m.infoFor(path, file), nil
}

func (m *MockFilesystemManager) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *MockFilesystemManager) FindFiles(root *fo.Path, opts fo.FindOptions) ([]*fo.Path, error) {
	exclude := make(map[string]struct{}, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		exclude[strings.ToLower(d)] = struct{}{}
	}

	prefix := root.String() + string(filepath.Separator)

	var paths []string
	for p, f := range m.files {
		if f.IsDirectory || !strings.HasPrefix(p, prefix) {
			continue
		}

		rel := strings.TrimPrefix(p, prefix)
		parts := strings.Split(rel, string(filepath.Separator))
		if !opts.Recursive && len(parts) > 1 {
			continue
		}

		skip := false
		for _, dir := range parts[:len(parts)-1] {
			if _, ok := exclude[strings.ToLower(dir)]; ok {
				skip = true
			}
			if !opts.IncludeHidden && strings.HasPrefix(dir, ".") {
				skip = true
			}
		}
		name := parts[len(parts)-1]
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			skip = true
		}
		if skip {
			continue
		}

		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]*fo.Path, 0, len(paths))
	for _, p := range paths {
		out = append(out, fo.NewPath(p, false, m.infoFor(p, m.files[p])))
	}
	return out, nil
}

func (m *MockFilesystemManager) MkdirAll(path string) error {
	for p := path; p != "/" && p != "." && p != ""; p = filepath.Dir(p) {
		if existing, ok := m.files[p]; ok {
			if !existing.IsDirectory {
				return fmt.Errorf("not a directory: %s", p)
			}
			continue
		}
		m.AddDirectory(p)
	}
	return nil
}

func (m *MockFilesystemManager) Move(src, dst string) error {
	file, ok := m.files[src]
	if !ok {
		return fmt.Errorf("file not found: %s", src)
	}
	m.files[dst] = file
	delete(m.files, src)
	return nil
}

func (m *MockFilesystemManager) Remove(path string) error {
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(m.files, path)
	return nil
}

func (m *MockFilesystemManager) infoFor(path string, file *MockFile) fs.FileInfo {
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(file.Content)),
		mode:    file.Permissions,
		modTime: file.ModTime,
		isDir:   file.IsDirectory,
	}
}

var _ fo.FilesystemManager = (*MockFilesystemManager)(nil)

type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return i.size }
func (i *mockFileInfo) Mode() fs.FileMode  { return i.mode }
func (i *mockFileInfo) ModTime() time.Time { return i.modTime }
func (i *mockFileInfo) IsDir() bool        { return i.isDir }
func (i *mockFileInfo) Sys() any           { return nil }
