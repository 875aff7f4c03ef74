// Package pipeline builds the task graphs of the asset pipeline.
//
// Stages are plain domain.Node leaves; Compile, Build and Develop compose them. Running a
// graph is the scheduler's job.
package pipeline

import (
	"path/filepath"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
)

// Stage names, as shown in progress output.
const (
	StageClean  = "clean"
	StageStyle  = "style"
	StageScript = "script"
	StagePage   = "page"
	StageImage  = "image"
	StageFont   = "font"
	StageBundle = "bundle"
	StageExtra  = "extra"
	StageServe  = "serve"
)

// Pipeline binds the stages to one project.
type Pipeline struct {
	root  string
	cfg   *domain.Config
	files ports.FileSystem
	tools *ports.Toolchain
}

// New creates a Pipeline for the project at root, which must be absolute.
func New(root string, cfg *domain.Config, files ports.FileSystem, tools *ports.Toolchain) *Pipeline {
	return &Pipeline{
		root:  root,
		cfg:   cfg,
		files: files,
		tools: tools,
	}
}

// Root returns the absolute project root.
func (p *Pipeline) Root() string {
	return p.root
}

// Dir resolves a configured directory against the project root.
func (p *Pipeline) Dir(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(p.root, dir)
}

// Style compiles stylesheets into the temp directory.
func (p *Pipeline) Style() domain.Node {
	b := p.cfg.Build
	return p.transformStage(StageStyle, p.Dir(b.Src), b.Paths.Styles, p.tools.Style, p.Dir(b.Tmp))
}

// Script transpiles scripts into the temp directory.
func (p *Pipeline) Script() domain.Node {
	b := p.cfg.Build
	return p.transformStage(StageScript, p.Dir(b.Src), b.Paths.Scripts, p.tools.Script, p.Dir(b.Tmp))
}

// Page renders templates into the temp directory.
func (p *Pipeline) Page() domain.Node {
	b := p.cfg.Build
	return p.transformStage(StagePage, p.Dir(b.Src), b.Paths.Pages, p.tools.Page, p.Dir(b.Tmp))
}

// Image optimizes images into the dist directory.
func (p *Pipeline) Image() domain.Node {
	b := p.cfg.Build
	return p.transformStage(StageImage, p.Dir(b.Src), b.Paths.Images, p.tools.Image, p.Dir(b.Dist))
}

// Font optimizes fonts into the dist directory.
func (p *Pipeline) Font() domain.Node {
	b := p.cfg.Build
	return p.transformStage(StageFont, p.Dir(b.Src), b.Paths.Fonts, p.tools.Font, p.Dir(b.Dist))
}

// Compile is fanout(style, script, page).
func (p *Pipeline) Compile() domain.Node {
	return domain.Fanout(p.Style(), p.Script(), p.Page())
}

// Build is sequence(clean, fanout(sequence(compile, bundle), image, font, extra)).
func (p *Pipeline) Build() domain.Node {
	return domain.Sequence(
		p.Clean(),
		domain.Fanout(
			domain.Sequence(p.Compile(), p.Bundle()),
			p.Image(),
			p.Font(),
			p.Extra(),
		),
	)
}

// Develop is sequence(compile, serve). serve is expected to block until its context ends.
func (p *Pipeline) Develop(serve domain.TaskFunc) domain.Node {
	return domain.Sequence(p.Compile(), domain.Leaf(StageServe, serve))
}
