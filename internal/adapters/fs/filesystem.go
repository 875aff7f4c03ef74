// Package fs implements the pipeline's file access on the local disk.
package fs

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem on the OS file system.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// Glob returns regular files under base matching the doublestar pattern.
// A missing base is an error wrapping fs.ErrNotExist.
func (f *FileSystem) Glob(base, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, zerr.With(domain.ErrInvalidPattern, "pattern", pattern)
	}

	info, err := os.Stat(base)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGlobFailed.Error()), "base", base)
	}
	if !info.IsDir() {
		return nil, zerr.With(domain.ErrGlobFailed, "base", base)
	}

	matches, err := doublestar.Glob(os.DirFS(base), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrGlobFailed.Error()), "base", base), "pattern", pattern)
	}
	slices.Sort(matches)

	return matches, nil
}

// ReadFile returns the content of path.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}
	return data, nil
}

// WriteFile writes content to path unless the file already holds the same bytes.
func (f *FileSystem) WriteFile(path string, content []byte) (bool, error) {
	existing, ok, err := ComputeFileHash(path)
	if err != nil {
		return false, err
	}
	if ok && existing == xxhash.Sum64(content) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, content, domain.FilePerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return true, nil
}

// RemoveAll removes path recursively.
func (f *FileSystem) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path)
	}
	return nil
}
