package ports

// FileSystem is the file access used by pipeline stages.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Glob returns the files under base matching pattern, as sorted slash-separated relative paths.
	// A missing base is an error wrapping fs.ErrNotExist.
	Glob(base, pattern string) ([]string, error)
	// ReadFile returns the content of path.
	ReadFile(path string) ([]byte, error)
	// WriteFile writes content to path, creating parent directories.
	// It reports false when path already held identical content and was left untouched.
	WriteFile(path string, content []byte) (bool, error)
	// RemoveAll removes path and everything below it. A missing path is not an error.
	RemoveAll(path string) error
}
