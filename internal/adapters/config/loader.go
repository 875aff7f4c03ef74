// Package config loads pages.yaml and overlays it on the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// knownKeys are the top-level sections understood by the loader.
var knownKeys = []string{"build", "data", "server", "tools"}

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration file at path and decodes it over domain.DefaultConfig.
// Keys present in the file replace defaults at any depth; absent keys keep their defaults
// and maps merge key by key.
func (l *Loader) Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.warnUnknownKeys(path, data)

	return cfg, nil
}

func (l *Loader) warnUnknownKeys(path string, data []byte) {
	if l.Logger == nil {
		return
	}

	var top map[string]yaml.Node
	if err := yaml.Unmarshal(data, &top); err != nil {
		return
	}

	var unknown []string
	for key := range top {
		if !slices.Contains(knownKeys, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return
	}
	slices.Sort(unknown)

	l.Logger.Warn(fmt.Sprintf("%s: ignoring unknown keys: %s", path, strings.Join(unknown, ", ")))
}

// LoadOrDefault returns the configuration at path, or domain.DefaultConfig together with the
// reason the file could not be used. The returned config is never nil.
func (l *Loader) LoadOrDefault(path string) (*domain.Config, error) {
	cfg, err := l.Load(path)
	if err != nil {
		return domain.DefaultConfig(), err
	}
	return cfg, nil
}
