package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/zerr"
)

// Clean removes the dist and temp directories. Missing directories are not an error.
func (p *Pipeline) Clean() domain.Node {
	return domain.Leaf(StageClean, func(ctx context.Context) error {
		for _, dir := range []string{p.cfg.Build.Dist, p.cfg.Build.Tmp} {
			if err := ctx.Err(); err != nil {
				return err
			}
			target := p.Dir(dir)
			if err := p.checkInsideRoot(target); err != nil {
				return err
			}
			if err := p.files.RemoveAll(target); err != nil {
				return err
			}
		}
		return nil
	})
}

// checkInsideRoot rejects the project root itself and anything outside it.
func (p *Pipeline) checkInsideRoot(target string) error {
	rel, err := filepath.Rel(p.root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.With(zerr.Wrap(domain.ErrPathOutsideRoot, "refusing to remove "+target), "path", target)
	}
	return nil
}
