package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements recursive file system watching using fsnotify.
type Watcher struct {
	logger ports.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	events   chan ports.WatchEvent
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a new file system watcher. Watching begins with Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		events: make(chan ports.WatchEvent, eventChannelBuffer),
		done:   make(chan struct{}),
	}
}

// Start begins watching every root recursively. Each root must be an existing directory.
func (w *Watcher) Start(ctx context.Context, window time.Duration, roots ...string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}

	for _, root := range roots {
		for dir, walkErr := range watchRecursively(root) {
			if walkErr == nil {
				walkErr = fsWatcher.Add(dir)
			}
			if walkErr != nil {
				_ = fsWatcher.Close()
				return zerr.With(zerr.Wrap(walkErr, "failed to watch "+root), "root", root)
			}
		}
	}

	w.mu.Lock()
	w.fsWatcher = fsWatcher
	w.debouncer = NewDebouncer(window, w.emit)
	w.mu.Unlock()

	go w.processEvents(ctx, fsWatcher)

	return nil
}

// Stop stops the watcher and releases all resources. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		defer w.mu.Unlock()
		if w.debouncer != nil {
			w.debouncer.Stop()
		}
		if w.fsWatcher != nil {
			err = w.fsWatcher.Close()
		}
	})
	return err
}

// Events returns an iterator of debounced change batches. It ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for {
			select {
			case <-w.done:
				return
			case event := <-w.events:
				if !yield(event) {
					return
				}
			}
		}
	}
}

func (w *Watcher) emit(paths []string) {
	select {
	case w.events <- ports.WatchEvent{Paths: paths}:
	case <-w.done:
	}
}

// watchRecursively walks the directory tree and yields all directories.
// The root itself must be readable; problems below it are skipped.
func watchRecursively(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return nil //nolint:nilerr // unreadable subdirectories are not watched
			}
			if !d.IsDir() {
				if path == root {
					return zerr.With(zerr.New("not a directory"), "path", root)
				}
				return nil
			}
			if path != root && shouldSkip(d.Name()) {
				return fs.SkipDir
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

func shouldSkip(name string) bool {
	return shouldSkipDirectories[name]
}

// processEvents feeds raw fsnotify events into the debouncer until the context ends.
func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher) {
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}

			w.debouncer.Add(event.Name)

			// New directories are watched together with everything already inside them.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldSkip(info.Name()) {
					w.watchCreated(fsWatcher, event.Name)
				}
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}

func (w *Watcher) watchCreated(fsWatcher *fsnotify.Watcher, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // vanished while walking
		}
		if d.IsDir() {
			if path != dir && shouldSkip(d.Name()) {
				return fs.SkipDir
			}
			_ = fsWatcher.Add(path)
			return nil
		}
		w.debouncer.Add(path)
		return nil
	})
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
