// Package optimize shrinks image and font files without changing how they render.
package optimize

import (
	"bytes"
	"context"
	"image/png"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Optimizer)(nil)

// Optimizer implements ports.Transformer for binary assets.
// A candidate output is only used when it is smaller than the input.
type Optimizer struct {
	svg ports.Transformer
}

// NewOptimizer creates an Optimizer that minifies SVG documents with svg.
func NewOptimizer(svg ports.Transformer) *Optimizer {
	return &Optimizer{svg: svg}
}

// Transform optimizes PNG and SVG files. Other formats are copied verbatim.
func (o *Optimizer) Transform(ctx context.Context, asset domain.Asset) (domain.Asset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Asset{}, err
	}

	var (
		out []byte
		err error
	)
	switch asset.Ext() {
	case ".png":
		out, err = recompressPNG(asset.Content)
	case ".svg":
		var minified domain.Asset
		minified, err = o.svg.Transform(ctx, asset)
		out = minified.Content
	default:
		return asset, nil
	}
	if err != nil {
		return domain.Asset{}, err
	}

	if len(out) < len(asset.Content) {
		asset.Content = out
	}
	return asset, nil
}

func recompressPNG(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to decode png")
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, zerr.Wrap(err, "failed to encode png")
	}
	return buf.Bytes(), nil
}
