package ports

import "go.trai.ch/pages/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path and overlays it on the defaults.
	// It returns domain.ErrConfigNotFound when the file does not exist.
	Load(path string) (*domain.Config, error)
	// LoadOrDefault never returns a nil config: when Load fails it returns the defaults along
	// with the load error, leaving the decision to discard it to the caller.
	LoadOrDefault(path string) (*domain.Config, error)
}
