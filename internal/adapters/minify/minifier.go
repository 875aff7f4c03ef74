// Package minify exposes tdewolff/minify as per-media-type transformers.
package minify

import (
	"context"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

// Media types understood by the Minifier.
const (
	MediaCSS  = "text/css"
	MediaJS   = "application/javascript"
	MediaHTML = "text/html"
	MediaSVG  = "image/svg+xml"
)

// Minifier holds one configured minify.M shared by every media type.
type Minifier struct {
	m *minify.M
}

// New creates a Minifier. HTML minification collapses whitespace and minifies inline
// <style> and <script> through the CSS and JS minifiers.
func New() *Minifier {
	m := minify.New()
	m.AddFunc(MediaCSS, css.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	m.AddFunc(MediaSVG, svg.Minify)
	m.Add(MediaHTML, &html.Minifier{
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
	})
	return &Minifier{m: m}
}

// CSS returns the stylesheet minifier.
func (m *Minifier) CSS() ports.Transformer { return m.transformer(MediaCSS) }

// JS returns the script minifier.
func (m *Minifier) JS() ports.Transformer { return m.transformer(MediaJS) }

// HTML returns the markup minifier.
func (m *Minifier) HTML() ports.Transformer { return m.transformer(MediaHTML) }

// SVG returns the vector image minifier.
func (m *Minifier) SVG() ports.Transformer { return m.transformer(MediaSVG) }

func (m *Minifier) transformer(mediatype string) ports.Transformer {
	return ports.TransformerFunc(func(ctx context.Context, asset domain.Asset) (domain.Asset, error) {
		if err := ctx.Err(); err != nil {
			return domain.Asset{}, err
		}
		out, err := m.m.Bytes(mediatype, asset.Content)
		if err != nil {
			return domain.Asset{}, zerr.With(zerr.Wrap(err, "failed to minify "+asset.Path), "media_type", mediatype)
		}
		asset.Content = out
		return asset, nil
	})
}
