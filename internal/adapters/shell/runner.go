// Package shell runs external command-line tools.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes argv in dir, feeding stdin to the process and returning its stdout.
//
// The nearest node_modules/.bin at or above dir is searched before the inherited PATH, so a
// locally installed tool wins over a global one. Stderr of a successful run is logged as warnings;
// stderr of a failed run becomes part of the returned error.
func (r *Runner) Run(ctx context.Context, dir string, argv []string, stdin []byte) ([]byte, error) {
	if len(argv) == 0 {
		return nil, zerr.With(domain.ErrCommandFailed, "reason", "empty command")
	}

	name := argv[0]
	env := resolveEnvironment(os.Environ(), dir)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // configured tool
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		msg := domain.ErrCommandFailed.Error()
		if tail := strings.TrimSpace(stderr.String()); tail != "" {
			msg += ": " + tail
		}
		return nil, zerr.With(zerr.With(zerr.Wrap(err, msg), "command", name), "exit_code", exitCode)
	}

	if r.logger != nil {
		for line := range strings.Lines(stderr.String()) {
			if line = strings.TrimRight(line, "\r\n"); line != "" {
				r.logger.Warn(name + ": " + line)
			}
		}
	}

	return stdout.Bytes(), nil
}

// resolveEnvironment returns sysEnv with the nearest node_modules/.bin prepended to PATH.
func resolveEnvironment(sysEnv []string, dir string) []string {
	bin, ok := findLocalBin(dir)
	if !ok {
		return sysEnv
	}

	result := make([]string, 0, len(sysEnv)+1)
	found := false
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok && k == "PATH" {
			found = true
			if v != "" {
				entry = "PATH=" + bin + string(os.PathListSeparator) + v
			} else {
				entry = "PATH=" + bin
			}
		}
		result = append(result, entry)
	}
	if !found {
		result = append(result, "PATH="+bin)
	}
	return result
}

func findLocalBin(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		bin := filepath.Join(dir, "node_modules", ".bin")
		if info, err := os.Stat(bin); err == nil && info.IsDir() {
			return bin, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
