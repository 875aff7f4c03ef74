package devloop_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/pages/internal/engine/devloop"
	"go.trai.ch/pages/internal/engine/pipeline"
)

func TestBindings(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "project")
	cfg := domain.DefaultConfig()
	p := pipeline.New(root, cfg, nil, &ports.Toolchain{})

	bindings := devloop.Bindings(p, cfg)
	require.Len(t, bindings, 5)

	src := filepath.Join(root, "src")
	type row struct {
		name     string
		base     string
		patterns []string
		handler  string
		reload   domain.ReloadKind
	}
	want := []row{
		{"style", src, []string{"assets/styles/*.scss"}, "style", domain.ReloadCSS},
		{"script", src, []string{"assets/scripts/*.js"}, "script", domain.ReloadPage},
		{"page", src, []string{"*.html"}, "page", domain.ReloadPage},
		{"assets", src, []string{"assets/images/**", "assets/fonts/**"}, "", domain.ReloadAsset},
		{"public", filepath.Join(root, "public"), []string{"**"}, "", domain.ReloadAsset},
	}

	for i, b := range bindings {
		handler := ""
		if b.Handler != nil {
			handler = b.Handler.String()
		}
		assert.Equal(t, want[i], row{b.Name, b.Base, b.Patterns, handler, b.Reload})
	}
}
