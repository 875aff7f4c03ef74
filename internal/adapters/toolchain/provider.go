// Package toolchain assembles the transformers used by the build pipeline.
package toolchain

import (
	"path/filepath"

	"go.trai.ch/pages/internal/adapters/esbuild"
	"go.trai.ch/pages/internal/adapters/minify"
	"go.trai.ch/pages/internal/adapters/optimize"
	"go.trai.ch/pages/internal/adapters/sass"
	"go.trai.ch/pages/internal/adapters/templates"
	"go.trai.ch/pages/internal/adapters/useref"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ToolchainProvider = (*Provider)(nil)

// Provider implements ports.ToolchainProvider.
type Provider struct {
	runner ports.CommandRunner
}

// NewProvider creates a Provider running external tools through runner.
func NewProvider(runner ports.CommandRunner) *Provider {
	return &Provider{runner: runner}
}

// Toolchain returns the transformers for the project at root.
func (p *Provider) Toolchain(root string, cfg *domain.Config) (*ports.Toolchain, error) {
	if cfg == nil {
		return nil, zerr.With(domain.ErrInvalidConfig, "reason", "nil config")
	}

	src := cfg.Build.Src
	if !filepath.IsAbs(src) {
		src = filepath.Join(root, src)
	}
	minifier := minify.New()
	opt := optimize.NewOptimizer(minifier.SVG())

	return &ports.Toolchain{
		Style:      sass.NewCompiler(p.runner, src, cfg.Tools.Sass),
		Script:     esbuild.NewTranspiler(),
		Page:       templates.NewRenderer(src, cfg.Data),
		Image:      opt,
		Font:       opt,
		References: useref.NewResolver(root),
		MinifyJS:   minifier.JS(),
		MinifyCSS:  minifier.CSS(),
		MinifyHTML: minifier.HTML(),
	}, nil
}
