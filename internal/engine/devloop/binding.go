// Package devloop reruns pipeline stages when their sources change and tells browsers to reload.
package devloop

import (
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/engine/pipeline"
)

// Binding ties source patterns to the stage that rebuilds them.
type Binding struct {
	Name string
	// Base is the absolute directory the patterns are relative to.
	Base     string
	Patterns []string
	// Handler is rerun on change. A nil handler only triggers a reload.
	Handler *domain.Node
	Reload  domain.ReloadKind
}

// Bindings returns the watch bindings of a project.
func Bindings(p *pipeline.Pipeline, cfg *domain.Config) []Binding {
	src := p.Dir(cfg.Build.Src)
	paths := cfg.Build.Paths

	style := p.Style()
	script := p.Script()
	page := p.Page()

	return []Binding{
		{Name: pipeline.StageStyle, Base: src, Patterns: []string{paths.Styles}, Handler: &style, Reload: domain.ReloadCSS},
		{Name: pipeline.StageScript, Base: src, Patterns: []string{paths.Scripts}, Handler: &script, Reload: domain.ReloadPage},
		{Name: pipeline.StagePage, Base: src, Patterns: []string{paths.Pages}, Handler: &page, Reload: domain.ReloadPage},
		{Name: "assets", Base: src, Patterns: []string{paths.Images, paths.Fonts}, Reload: domain.ReloadAsset},
		{Name: "public", Base: p.Dir(cfg.Build.Public), Patterns: []string{"**"}, Reload: domain.ReloadAsset},
	}
}
