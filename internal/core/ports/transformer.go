package ports

import (
	"context"

	"go.trai.ch/pages/internal/core/domain"
)

//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks

// Transformer turns one asset into another.
// It returns domain.ErrAssetSkipped when the asset deliberately yields no output.
type Transformer interface {
	Transform(ctx context.Context, asset domain.Asset) (domain.Asset, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(ctx context.Context, asset domain.Asset) (domain.Asset, error)

// Transform calls f.
func (f TransformerFunc) Transform(ctx context.Context, asset domain.Asset) (domain.Asset, error) {
	return f(ctx, asset)
}

// ReferenceResolver expands build-directive blocks of an HTML page.
type ReferenceResolver interface {
	// Resolve rewrites page and returns it first, followed by one asset per concatenated bundle.
	// Referenced files are looked up in searchPath in order.
	Resolve(ctx context.Context, page domain.Asset, searchPath []string) ([]domain.Asset, error)
}

// Toolchain gathers the external collaborators used by the pipeline stages.
type Toolchain struct {
	Style  Transformer
	Script Transformer
	Page   Transformer
	Image  Transformer
	Font   Transformer

	References ReferenceResolver

	MinifyJS   Transformer
	MinifyCSS  Transformer
	MinifyHTML Transformer
}

// ToolchainProvider builds the toolchain for a project.
type ToolchainProvider interface {
	Toolchain(root string, cfg *domain.Config) (*Toolchain, error)
}
