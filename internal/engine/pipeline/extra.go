package pipeline

import (
	"context"
	"errors"
	iofs "io/fs"
	"path/filepath"
	"runtime"

	"go.trai.ch/pages/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// Extra copies the public directory into dist unchanged. A project without a public
// directory has nothing to copy.
func (p *Pipeline) Extra() domain.Node {
	return domain.Leaf(StageExtra, func(ctx context.Context) error {
		public := p.Dir(p.cfg.Build.Public)
		files, err := p.files.Glob(public, "**")
		if err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return err
		}

		dist := p.Dir(p.cfg.Build.Dist)
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for _, rel := range files {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				content, err := p.files.ReadFile(filepath.Join(public, filepath.FromSlash(rel)))
				if err != nil {
					return err
				}
				return p.write(dist, domain.Asset{Path: rel, Content: content})
			})
		}
		return g.Wait()
	})
}
