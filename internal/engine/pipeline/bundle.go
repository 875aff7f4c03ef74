package pipeline

import (
	"context"
	"errors"
	iofs "io/fs"
	"path/filepath"
	"runtime"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Bundle expands the build blocks of the compiled pages and minifies every resulting file
// into the dist directory. References are looked up in the temp directory first, then in
// the project root.
func (p *Pipeline) Bundle() domain.Node {
	return domain.Leaf(StageBundle, func(ctx context.Context) error {
		tmp := p.Dir(p.cfg.Build.Tmp)
		// Temp is absent when compile produced nothing.
		pages, err := p.files.Glob(tmp, p.cfg.Build.Paths.Pages)
		if err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return err
		}

		searchPath := []string{tmp, p.root}
		outputs := make([][]domain.Asset, len(pages))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for i, rel := range pages {
			g.Go(func() error {
				assets, err := p.bundlePage(gctx, tmp, rel, searchPath)
				outputs[i] = assets
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		// Pages may share a bundle target, so writes happen in page order.
		dist := p.Dir(p.cfg.Build.Dist)
		for _, assets := range outputs {
			for _, asset := range assets {
				if err := p.write(dist, asset); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (p *Pipeline) bundlePage(ctx context.Context, tmp, rel string, searchPath []string) ([]domain.Asset, error) {
	content, err := p.files.ReadFile(filepath.Join(tmp, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}

	assets, err := p.tools.References.Resolve(ctx, domain.Asset{Path: rel, Content: content}, searchPath)
	if err != nil {
		return nil, err
	}

	for i, asset := range assets {
		m := p.minifierFor(asset)
		if m == nil {
			continue
		}
		if assets[i], err = m.Transform(ctx, asset); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()+" "+asset.Path), "path", asset.Path)
		}
	}
	return assets, nil
}

// minifierFor selects exactly one minifier by extension, or nil.
func (p *Pipeline) minifierFor(asset domain.Asset) ports.Transformer {
	switch asset.Ext() {
	case ".js":
		return p.tools.MinifyJS
	case ".css":
		return p.tools.MinifyCSS
	case ".html", ".htm":
		return p.tools.MinifyHTML
	default:
		return nil
	}
}
