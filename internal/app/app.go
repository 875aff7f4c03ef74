// Package app implements the application layer for pages.
package app

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"go.trai.ch/pages/internal/adapters/metrics" //nolint:depguard // Metrics registry is served by the dev server
	"go.trai.ch/pages/internal/adapters/server"  //nolint:depguard // Dev server is constructed per invocation
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/pages/internal/engine/devloop"
	"go.trai.ch/pages/internal/engine/pipeline"
	"go.trai.ch/pages/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	files        ports.FileSystem
	toolchains   ports.ToolchainProvider
	scheduler    *scheduler.Scheduler
	watcher      ports.Watcher
	recorder     *metrics.PrometheusRecorder
}

// New creates a new App instance. The recorder may be nil.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	files ports.FileSystem,
	toolchains ports.ToolchainProvider,
	sched *scheduler.Scheduler,
	watcher ports.Watcher,
	recorder *metrics.PrometheusRecorder,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		files:        files,
		toolchains:   toolchains,
		scheduler:    sched,
		watcher:      watcher,
		recorder:     recorder,
	}
}

// Options configures one invocation.
type Options struct {
	// Dir is the project root. Empty means the working directory.
	Dir string
	// ConfigPath overrides the configuration file. Relative paths resolve against the working directory.
	ConfigPath string
	// Port overrides server.port when positive.
	Port int
}

// SetJSON switches the logger to JSON output when it supports it.
func (a *App) SetJSON(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// Build runs clean, then compiles, bundles and copies the project into the dist directory.
func (a *App) Build(ctx context.Context, opts Options) error {
	p, _, err := a.prepare(opts)
	if err != nil {
		return err
	}
	return a.run(ctx, p.Build())
}

// Clean removes the dist and temp directories.
func (a *App) Clean(ctx context.Context, opts Options) error {
	p, _, err := a.prepare(opts)
	if err != nil {
		return err
	}
	return a.run(ctx, p.Clean())
}

// Develop compiles the project, then serves it and rebuilds on change until ctx is cancelled.
func (a *App) Develop(ctx context.Context, opts Options) error {
	p, cfg, err := a.prepare(opts)
	if err != nil {
		return err
	}

	var (
		metricsHandler http.Handler
		recorder       ports.Recorder
	)
	if a.recorder != nil {
		metricsHandler = a.recorder.Handler()
		recorder = a.recorder
	}
	hub := server.NewLiveReloadHub(recorder)
	srv := server.New(p.Root(), cfg, hub, metricsHandler, a.logger)

	loop := devloop.New(a.watcher, a.scheduler, hub, a.logger, cfg.Server.Debounce)
	bindings := devloop.Bindings(p, cfg)

	serve := func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Serve(ctx) })
		g.Go(func() error { return loop.Run(ctx, bindings) })
		return g.Wait()
	}

	return a.run(ctx, p.Develop(serve))
}

func (a *App) run(ctx context.Context, node domain.Node) error {
	if err := a.scheduler.Run(ctx, node); err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// prepare resolves the project root, loads the configuration and assembles the pipeline.
func (a *App) prepare(opts Options) (*pipeline.Pipeline, *domain.Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to resolve project directory")
	}

	cfgPath := domain.DefaultConfigPath(root)
	if opts.ConfigPath != "" {
		if cfgPath, err = filepath.Abs(opts.ConfigPath); err != nil {
			return nil, nil, zerr.Wrap(err, "failed to resolve config path")
		}
	}

	// A missing or broken configuration never stops the build.
	cfg, err := a.configLoader.LoadOrDefault(cfgPath)
	if err != nil && !errors.Is(err, domain.ErrConfigNotFound) {
		a.logger.Warn("using default configuration: " + err.Error())
	}

	if opts.Port < 0 || opts.Port > 65535 {
		return nil, nil, zerr.Wrap(domain.ErrInvalidConfig, "invalid port "+strconv.Itoa(opts.Port))
	}
	if opts.Port > 0 {
		cfg.Server.Port = opts.Port
	}

	tools, err := a.toolchains.Toolchain(root, cfg)
	if err != nil {
		return nil, nil, err
	}

	return pipeline.New(root, cfg, a.files, tools), cfg, nil
}
