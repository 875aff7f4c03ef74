package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "pages.yaml"

	// InternalRoutePrefix is the URL prefix reserved for dev server endpoints.
	InternalRoutePrefix = "/__pages"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultConfigPath returns the path of the configuration file inside root.
func DefaultConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}
