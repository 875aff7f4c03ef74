package ports

import (
	"context"
	"iter"
	"time"
)

// WatchEvent is a coalesced batch of file system changes.
type WatchEvent struct {
	// Paths are the absolute paths that changed during one debounce window, sorted.
	Paths []string
}

// Watcher defines the interface for watching file system changes.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given root directories recursively.
	// Changes are coalesced into one event per quiet period of length window.
	// It returns an error if any root cannot be watched.
	Start(ctx context.Context, window time.Duration, roots ...string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of debounced change batches.
	// The iterator ends when the watcher stops.
	Events() iter.Seq[WatchEvent]
}
