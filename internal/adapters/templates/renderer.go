// Package templates renders page templates with pongo2.
//
// Templates use Django syntax. {% extends %} and {% include %} paths resolve against the
// source directory, and the configuration's data blob is the render context. Every call
// builds a fresh template set so edits to layouts are picked up without a cache.
package templates

import (
	"bytes"
	"context"
	"maps"

	"github.com/flosch/pongo2/v6"
	"github.com/yuin/goldmark"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Renderer)(nil)

var markdown = goldmark.New()

func init() {
	if err := pongo2.RegisterFilter("markdown", filterMarkdown); err != nil {
		panic(err)
	}
}

// filterMarkdown renders its input as CommonMark: {{ body|markdown }}.
func filterMarkdown(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(in.String()), &buf); err != nil {
		return nil, &pongo2.Error{Sender: "filter:markdown", OrigError: err}
	}
	return pongo2.AsSafeValue(buf.String()), nil
}

// Renderer implements ports.Transformer for page templates.
type Renderer struct {
	srcDir string
	data   map[string]any
}

// NewRenderer creates a Renderer loading templates from srcDir with data as context.
func NewRenderer(srcDir string, data map[string]any) *Renderer {
	return &Renderer{
		srcDir: srcDir,
		data:   data,
	}
}

// Transform renders asset. The path is kept as is.
func (r *Renderer) Transform(ctx context.Context, asset domain.Asset) (domain.Asset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Asset{}, err
	}

	loader, err := pongo2.NewLocalFileSystemLoader(r.srcDir)
	if err != nil {
		return domain.Asset{}, zerr.With(zerr.Wrap(err, "failed to open template directory"), "dir", r.srcDir)
	}
	set := pongo2.NewSet("pages", loader)

	tpl, err := set.FromBytes(asset.Content)
	if err != nil {
		return domain.Asset{}, zerr.With(zerr.Wrap(err, "failed to parse template"), "path", asset.Path)
	}

	out, err := tpl.ExecuteBytes(pongo2.Context(maps.Clone(r.data)))
	if err != nil {
		return domain.Asset{}, zerr.With(zerr.Wrap(err, "failed to render template"), "path", asset.Path)
	}

	asset.Content = out
	return asset, nil
}
