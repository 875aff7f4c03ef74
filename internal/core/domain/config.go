package domain

import (
	"iter"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/zerr"
)

// Config is the build configuration for one invocation.
// It is produced once at startup and never mutated afterwards.
type Config struct {
	Build  BuildConfig    `yaml:"build"`
	Data   map[string]any `yaml:"data"`
	Server ServerConfig   `yaml:"server"`
	Tools  ToolsConfig    `yaml:"tools"`
}

// BuildConfig names the project directories and the asset patterns.
type BuildConfig struct {
	Src    string      `yaml:"src"`
	Dist   string      `yaml:"dist"`
	Tmp    string      `yaml:"tmp"`
	Public string      `yaml:"public"`
	Paths  PathsConfig `yaml:"paths"`
}

// PathsConfig holds glob patterns relative to the source directory.
type PathsConfig struct {
	Styles  string `yaml:"styles"`
	Scripts string `yaml:"scripts"`
	Pages   string `yaml:"pages"`
	Images  string `yaml:"images"`
	Fonts   string `yaml:"fonts"`
}

// ServerConfig configures the development server.
type ServerConfig struct {
	Port int `yaml:"port"`
	// Routes maps URL path prefixes to alternate directories, relative to the project root.
	Routes   map[string]string `yaml:"routes"`
	Debounce time.Duration     `yaml:"debounce"`
}

// ToolsConfig names external programs invoked by the pipeline.
type ToolsConfig struct {
	// Sass is the style compiler command line. It reads SCSS on stdin and writes CSS to stdout.
	Sass []string `yaml:"sass"`
}

// DefaultConfig returns the built-in configuration. Every call allocates fresh maps and slices.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			Src:    "src",
			Dist:   "dist",
			Tmp:    "temp",
			Public: "public",
			Paths: PathsConfig{
				Styles:  "assets/styles/*.scss",
				Scripts: "assets/scripts/*.js",
				Pages:   "*.html",
				Images:  "assets/images/**",
				Fonts:   "assets/fonts/**",
			},
		},
		Data: map[string]any{},
		Server: ServerConfig{
			Port: 2080,
			Routes: map[string]string{
				"/node_modules": "node_modules",
			},
			Debounce: 200 * time.Millisecond,
		},
		Tools: ToolsConfig{
			Sass: []string{"sass", "--stdin", "--no-source-map", "--style=expanded"},
		},
	}
}

// Validate reports the first structural problem in the configuration.
func (c *Config) Validate() error {
	dirs := []struct{ key, value string }{
		{"build.src", c.Build.Src},
		{"build.dist", c.Build.Dist},
		{"build.tmp", c.Build.Tmp},
		{"build.public", c.Build.Public},
	}
	for _, d := range dirs {
		if d.value == "" {
			return zerr.With(ErrInvalidConfig, "key", d.key)
		}
	}

	for key, pattern := range c.Build.Paths.All() {
		if pattern == "" {
			return zerr.With(ErrInvalidConfig, "key", key)
		}
		if !doublestar.ValidatePattern(pattern) {
			return zerr.With(zerr.With(ErrInvalidPattern, "key", key), "pattern", pattern)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return zerr.With(ErrInvalidConfig, "key", "server.port")
	}
	if c.Server.Debounce < 0 {
		return zerr.With(ErrInvalidConfig, "key", "server.debounce")
	}
	if len(c.Tools.Sass) == 0 || c.Tools.Sass[0] == "" {
		return zerr.With(ErrInvalidConfig, "key", "tools.sass")
	}

	return nil
}

// All yields every pattern keyed by its configuration path, in a fixed order.
func (p PathsConfig) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		entries := [...]struct{ key, value string }{
			{"build.paths.styles", p.Styles},
			{"build.paths.scripts", p.Scripts},
			{"build.paths.pages", p.Pages},
			{"build.paths.images", p.Images},
			{"build.paths.fonts", p.Fonts},
		}
		for _, e := range entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}
