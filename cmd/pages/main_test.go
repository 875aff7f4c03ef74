package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pages/internal/adapters/config"
	"go.trai.ch/pages/internal/adapters/fs"
	"go.trai.ch/pages/internal/adapters/telemetry"
	"go.trai.ch/pages/internal/app"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/pages/internal/core/ports/mocks"
	"go.trai.ch/pages/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func providerFor(logger ports.Logger, toolchains ports.ToolchainProvider) ComponentProvider {
	application := app.New(
		config.NewLoader(logger),
		logger,
		fs.NewFileSystem(),
		toolchains,
		scheduler.NewScheduler(telemetry.NewNoOpTracer(), nil),
		nil,
		nil,
	)
	return func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: logger}, func() {}, nil
	}
}

// TestRun_Success verifies that run returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	stdout := new(bytes.Buffer)
	exitCode := run(t.Context(), []string{"version"}, stdout, new(bytes.Buffer),
		providerFor(mockLogger, mocks.NewMockToolchainProvider(ctrl)))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "pages version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(t.Context(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that failures outside the task graph are logged.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	toolchains := mocks.NewMockToolchainProvider(ctrl)

	toolchains.EXPECT().Toolchain(gomock.Any(), gomock.Any()).Return(nil, errors.New("sass not installed"))
	mockLogger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, "sass not installed")
	})

	exitCode := run(t.Context(), []string{"build", "--cwd", t.TempDir()}, new(bytes.Buffer), new(bytes.Buffer),
		providerFor(mockLogger, toolchains))

	assert.Equal(t, 1, exitCode)
}

// TestRun_TaskFailureNotLogged verifies that task failures only set the exit code.
func TestRun_TaskFailureNotLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	toolchains := mocks.NewMockToolchainProvider(ctrl)

	failing := ports.TransformerFunc(func(context.Context, domain.Asset) (domain.Asset, error) {
		return domain.Asset{}, errors.New("broken")
	})
	toolchains.EXPECT().Toolchain(gomock.Any(), gomock.Any()).Return(&ports.Toolchain{
		Style:      failing,
		Script:     failing,
		Page:       failing,
		Image:      failing,
		Font:       failing,
		MinifyJS:   failing,
		MinifyCSS:  failing,
		MinifyHTML: failing,
	}, nil)

	root := t.TempDir()
	styles := filepath.Join(root, "src", "assets", "styles")
	require.NoError(t, os.MkdirAll(styles, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(styles, "main.scss"), []byte("a{}"), domain.FilePerm))

	// No Error expectation on the logger: logging would fail the test.
	exitCode := run(t.Context(), []string{"build", "--cwd", root}, new(bytes.Buffer), new(bytes.Buffer),
		providerFor(mockLogger, toolchains))

	assert.Equal(t, 1, exitCode)
}
