package ports

import "go.trai.ch/pages/internal/core/domain"

// Reloader notifies connected browsers that output changed.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	Reload(kind domain.ReloadKind, paths ...string)
}
