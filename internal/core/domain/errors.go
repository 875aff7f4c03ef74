package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no configuration file exists at the expected path.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrConfigReadFailed is returned when the config file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a parsed configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidPattern is returned when a glob pattern is malformed.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrInvalidGraph is returned when a task graph contains a nil task or an unnamed leaf.
	ErrInvalidGraph = zerr.New("invalid task graph")

	// ErrDuplicateTask is returned when two leaves of one graph share a name.
	ErrDuplicateTask = zerr.New("duplicate task name in graph")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrAssetSkipped is returned by a transformer that deliberately produces no output for an asset.
	ErrAssetSkipped = zerr.New("asset skipped")

	// ErrTransformFailed is returned when an external collaborator rejects an asset.
	ErrTransformFailed = zerr.New("failed to transform asset")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileWriteFailed is returned when an output file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrGlobFailed is returned when enumerating files for a pattern fails.
	ErrGlobFailed = zerr.New("failed to enumerate files")

	// ErrCleanFailed is returned when an output directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean output directory")

	// ErrPathOutsideRoot is returned when a directory resolves to the project root or outside it.
	ErrPathOutsideRoot = zerr.New("path is not inside project root")

	// ErrPathEscapesOutput is returned when an asset path would be written outside its output directory.
	ErrPathEscapesOutput = zerr.New("asset path escapes output directory")

	// ErrReferenceNotFound is returned when a bundle block references a file absent from every search root.
	ErrReferenceNotFound = zerr.New("referenced file not found")

	// ErrMalformedDirective is returned when a build directive is unterminated or of unknown type.
	ErrMalformedDirective = zerr.New("malformed build directive")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrServerBindFailed is returned when the dev server cannot bind its port.
	ErrServerBindFailed = zerr.New("failed to bind dev server port")

	// ErrWatchSetupFailed is returned when a watch binding cannot be established.
	ErrWatchSetupFailed = zerr.New("failed to set up file watching")
)
