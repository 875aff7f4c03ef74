package ports

import "time"

// Recorder collects pipeline metrics.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Recorder interface {
	// ObserveTask records one task execution and its outcome.
	ObserveTask(name string, d time.Duration, err error)
	// IncReload counts a live-reload broadcast of the given kind.
	IncReload(kind string)
	// SetReloadClients reports the number of connected live-reload clients.
	SetReloadClients(n int)
}
