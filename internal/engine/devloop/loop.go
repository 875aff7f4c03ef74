package devloop

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

// GraphRunner executes a task graph.
type GraphRunner interface {
	Run(ctx context.Context, node domain.Node, opts ...ports.SpanOption) error
}

// Loop dispatches watcher events to bindings.
type Loop struct {
	watcher  ports.Watcher
	runner   GraphRunner
	reloader ports.Reloader
	logger   ports.Logger
	window   time.Duration
}

// New creates a Loop. window is the debounce period handed to the watcher.
func New(
	watcher ports.Watcher,
	runner GraphRunner,
	reloader ports.Reloader,
	logger ports.Logger,
	window time.Duration,
) *Loop {
	return &Loop{
		watcher:  watcher,
		runner:   runner,
		reloader: reloader,
		logger:   logger,
		window:   window,
	}
}

// Run watches the bindings until ctx is cancelled.
// Setup problems are returned immediately; handler failures are logged and watching continues.
func (l *Loop) Run(ctx context.Context, bindings []Binding) error {
	active, err := l.activeBindings(bindings)
	if err != nil {
		return err
	}
	if len(active) == 0 {
		l.logger.Warn("nothing to watch")
		<-ctx.Done()
		return nil
	}

	if err := l.watcher.Start(ctx, l.window, roots(active)...); err != nil {
		return zerr.Wrap(err, domain.ErrWatchSetupFailed.Error())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		_ = l.watcher.Stop()
	}()

	workers := make([]*worker, len(active))
	var wg sync.WaitGroup
	for i, b := range active {
		workers[i] = newWorker(b)
		wg.Go(func() {
			workers[i].run(ctx, l)
		})
	}

	for event := range l.watcher.Events() {
		for _, w := range workers {
			if paths := w.binding.match(event.Paths); len(paths) > 0 {
				w.trigger(paths)
			}
		}
	}

	cancel()
	<-stopped
	wg.Wait()
	return nil
}

// activeBindings validates every binding and drops those whose base does not exist yet.
func (l *Loop) activeBindings(bindings []Binding) ([]Binding, error) {
	active := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		for _, pattern := range b.Patterns {
			if !doublestar.ValidatePattern(pattern) {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrWatchSetupFailed,
					"invalid pattern "+pattern+" for "+b.Name), "binding", b.Name), "pattern", pattern)
			}
		}

		info, err := os.Stat(b.Base)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			l.logger.Warn("not watching " + b.Name + ": " + b.Base + " does not exist")
			continue
		case err != nil:
			return nil, zerr.With(zerr.Wrap(domain.ErrWatchSetupFailed, "cannot watch "+b.Base), "binding", b.Name)
		case !info.IsDir():
			return nil, zerr.With(zerr.Wrap(domain.ErrWatchSetupFailed, b.Base+" is not a directory"), "binding", b.Name)
		}
		if _, err := os.ReadDir(b.Base); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrWatchSetupFailed, "cannot read "+b.Base), "binding", b.Name)
		}

		active = append(active, b)
	}
	return active, nil
}

func roots(bindings []Binding) []string {
	var dirs []string
	for _, b := range bindings {
		dirs = append(dirs, b.Base)
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

// match returns the changed paths covered by the binding, as site paths ("/assets/x.css").
func (b Binding) match(paths []string) []string {
	var matched []string
	for _, p := range paths {
		rel, err := filepath.Rel(b.Base, p)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range b.Patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				matched = append(matched, "/"+rel)
				break
			}
		}
	}
	return matched
}

// worker runs one binding's handler at a time. Triggers that arrive while it runs
// collapse into a single rerun.
type worker struct {
	binding Binding
	wake    chan struct{}

	mu      sync.Mutex
	pending map[string]struct{}
}

func newWorker(b Binding) *worker {
	return &worker{
		binding: b,
		wake:    make(chan struct{}, 1),
		pending: make(map[string]struct{}),
	}
}

func (w *worker) trigger(paths []string) {
	w.mu.Lock()
	for _, p := range paths {
		w.pending[p] = struct{}{}
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *worker) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	slices.Sort(paths)
	return paths
}

func (w *worker) run(ctx context.Context, l *Loop) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		}

		paths := w.drain()
		if h := w.binding.Handler; h != nil {
			if err := l.runner.Run(ctx, *h, ports.WithSpanKind(ports.SpanKindRebuild)); err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error(zerr.With(err, "binding", w.binding.Name))
				continue
			}
		}
		l.reloader.Reload(w.binding.Reload, paths...)
	}
}
