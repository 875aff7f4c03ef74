package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// transformStage returns a leaf that transforms every file under base matching pattern
// and writes the results below dest at the path the transformer returns.
func (p *Pipeline) transformStage(name, base, pattern string, t ports.Transformer, dest string) domain.Node {
	return domain.Leaf(name, func(ctx context.Context) error {
		files, err := p.files.Glob(base, pattern)
		if err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for _, rel := range files {
			g.Go(func() error {
				return p.transformFile(ctx, base, rel, t, dest)
			})
		}
		return g.Wait()
	})
}

func (p *Pipeline) transformFile(ctx context.Context, base, rel string, t ports.Transformer, dest string) error {
	content, err := p.files.ReadFile(filepath.Join(base, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}

	out, err := t.Transform(ctx, domain.Asset{Path: rel, Content: content})
	if err != nil {
		if errors.Is(err, domain.ErrAssetSkipped) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()+" "+rel), "path", rel)
	}

	return p.write(dest, out)
}

func (p *Pipeline) write(dest string, asset domain.Asset) error {
	if !filepath.IsLocal(filepath.FromSlash(asset.Path)) {
		return zerr.With(zerr.Wrap(domain.ErrPathEscapesOutput, "refusing to write "+asset.Path), "path", asset.Path)
	}
	_, err := p.files.WriteFile(filepath.Join(dest, filepath.FromSlash(asset.Path)), asset.Content)
	return err
}
