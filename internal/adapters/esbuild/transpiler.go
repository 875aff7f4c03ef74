// Package esbuild transpiles scripts with the esbuild transform API.
package esbuild

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Transpiler)(nil)

// Target is the language level every script is lowered to.
const Target = api.ES2015

// Transpiler implements ports.Transformer for JavaScript sources.
type Transpiler struct{}

// NewTranspiler creates a new Transpiler.
func NewTranspiler() *Transpiler {
	return &Transpiler{}
}

// Transform lowers asset to Target. The path is kept as is.
func (t *Transpiler) Transform(ctx context.Context, asset domain.Asset) (domain.Asset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Asset{}, err
	}

	result := api.Transform(string(asset.Content), api.TransformOptions{
		Loader:     api.LoaderJS,
		Target:     Target,
		Sourcefile: asset.Path,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return domain.Asset{}, zerr.With(zerr.New(formatMessages(result.Errors)), "path", asset.Path)
	}

	asset.Content = result.Code
	return asset, nil
}

func formatMessages(msgs []api.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if loc := msg.Location; loc != nil {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s", loc.File, loc.Line, loc.Column, msg.Text))
			continue
		}
		lines = append(lines, msg.Text)
	}
	return strings.Join(lines, "\n")
}
