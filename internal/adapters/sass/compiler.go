// Package sass compiles SCSS stylesheets by piping them through the sass command-line tool.
package sass

import (
	"context"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
)

var _ ports.Transformer = (*Compiler)(nil)

// Compiler implements ports.Transformer for SCSS sources.
type Compiler struct {
	runner ports.CommandRunner
	srcDir string
	argv   []string
}

// NewCompiler creates a Compiler. argv must read the stylesheet from stdin and write CSS to stdout.
func NewCompiler(runner ports.CommandRunner, srcDir string, argv []string) *Compiler {
	return &Compiler{
		runner: runner,
		srcDir: srcDir,
		argv:   slices.Clone(argv),
	}
}

// Transform compiles asset to CSS. Partials (files starting with an underscore) are only
// meaningful as imports and yield domain.ErrAssetSkipped.
func (c *Compiler) Transform(ctx context.Context, asset domain.Asset) (domain.Asset, error) {
	if strings.HasPrefix(path.Base(asset.Path), "_") {
		return domain.Asset{}, domain.ErrAssetSkipped
	}

	// Relative @use and @import resolve against the working directory for stdin input.
	dir := filepath.Join(c.srcDir, filepath.FromSlash(path.Dir(asset.Path)))

	css, err := c.runner.Run(ctx, dir, c.argv, asset.Content)
	if err != nil {
		return domain.Asset{}, err
	}

	out := asset.WithExt(".css")
	out.Content = css
	return out, nil
}
