// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pages/internal/adapters/config"
	_ "go.trai.ch/pages/internal/adapters/fs"
	_ "go.trai.ch/pages/internal/adapters/linear"
	_ "go.trai.ch/pages/internal/adapters/logger"
	_ "go.trai.ch/pages/internal/adapters/metrics"
	_ "go.trai.ch/pages/internal/adapters/shell"
	_ "go.trai.ch/pages/internal/adapters/telemetry"
	_ "go.trai.ch/pages/internal/adapters/toolchain"
	_ "go.trai.ch/pages/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/pages/internal/app"
	_ "go.trai.ch/pages/internal/engine/scheduler"
)
