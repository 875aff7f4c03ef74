// Package useref expands build blocks in HTML pages.
//
// A block is delimited by comments:
//
//	<!-- build:js assets/app.js -->
//	<script src="assets/scripts/a.js"></script>
//	<script src="assets/scripts/b.js"></script>
//	<!-- endbuild -->
//
// The referenced files are concatenated into the target and the block is replaced by a
// single tag pointing at it. Supported types are css, js and remove. An optional list of
// alternate search directories may follow the type: build:css(styles,vendor).
package useref

import (
	"bytes"
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

var _ ports.ReferenceResolver = (*Resolver)(nil)

var (
	beginPattern = regexp.MustCompile(`^\s*build:([A-Za-z]+)(?:\(([^)]*)\))?(?:\s+(\S+))?\s*$`)
	endPattern   = regexp.MustCompile(`^\s*endbuild\s*$`)
)

const (
	kindCSS    = "css"
	kindJS     = "js"
	kindRemove = "remove"
)

type block struct {
	kind   string
	target string
	alt    []string
	refs   []string
}

// Resolver implements ports.ReferenceResolver.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver. Alternate search directories are relative to root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve rewrites the build blocks of page. The rewritten page comes first in the result,
// followed by one asset per css or js block, in document order.
func (r *Resolver) Resolve(ctx context.Context, page domain.Asset, searchPath []string) ([]domain.Asset, error) {
	pageDir := path.Dir(page.Path)
	z := html.NewTokenizer(bytes.NewReader(page.Content))

	var (
		out     bytes.Buffer
		bundles []domain.Asset
		current *block
	)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, zerr.With(zerr.Wrap(err, "failed to tokenize page"), "path", page.Path)
			}
			break
		}
		// Text and TagAttr unescape in place, so the raw bytes are copied first.
		raw := bytes.Clone(z.Raw())

		switch tt {
		case html.CommentToken:
			text := string(z.Text())
			if m := beginPattern.FindStringSubmatch(text); m != nil {
				if current != nil {
					return nil, malformed(page.Path, "nested build block inside "+current.kind+" block")
				}
				b, err := newBlock(m)
				if err != nil {
					return nil, malformed(page.Path, err.Error())
				}
				current = b
				continue
			}
			if endPattern.MatchString(text) && current != nil {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				asset, ok, err := r.bundle(pageDir, current, searchPath)
				if err != nil {
					return nil, zerr.With(err, "page", page.Path)
				}
				if ok {
					bundles = append(bundles, asset)
				}
				out.WriteString(replacement(current))
				current = nil
				continue
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if current != nil {
				if ref := reference(z); ref != "" {
					current.refs = append(current.refs, ref)
				}
			}
		}

		if current == nil {
			out.Write(raw)
		}
	}

	if current != nil {
		return nil, malformed(page.Path, "unterminated "+current.kind+" block")
	}

	page.Content = out.Bytes()
	return append([]domain.Asset{page}, bundles...), nil
}

func newBlock(m []string) (*block, error) {
	b := &block{kind: strings.ToLower(m[1]), target: m[3]}
	switch b.kind {
	case kindCSS, kindJS:
		if b.target == "" {
			return nil, zerr.New(b.kind + " block without target")
		}
	case kindRemove:
	default:
		return nil, zerr.New("unknown block type " + m[1])
	}
	for alt := range strings.SplitSeq(m[2], ",") {
		if alt = strings.TrimSpace(alt); alt != "" {
			b.alt = append(b.alt, alt)
		}
	}
	return b, nil
}

func malformed(pagePath, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrMalformedDirective, pagePath+": "+reason), "path", pagePath)
}

// reference returns the stylesheet href or script src of the current tag.
func reference(z *html.Tokenizer) string {
	name, hasAttr := z.TagName()
	attrs := map[string]string{}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}

	switch string(name) {
	case "link":
		if strings.Contains(strings.ToLower(attrs["rel"]), "stylesheet") {
			return attrs["href"]
		}
	case "script":
		return attrs["src"]
	}
	return ""
}

func replacement(b *block) string {
	switch b.kind {
	case kindCSS:
		return `<link rel="stylesheet" href="` + html.EscapeString(b.target) + `">`
	case kindJS:
		return `<script src="` + html.EscapeString(b.target) + `"></script>`
	default:
		return ""
	}
}

func (r *Resolver) bundle(pageDir string, b *block, searchPath []string) (domain.Asset, bool, error) {
	if b.kind == kindRemove {
		return domain.Asset{}, false, nil
	}

	target := resolveRef(pageDir, b.target)
	if !filepath.IsLocal(filepath.FromSlash(target)) {
		return domain.Asset{}, false, zerr.With(
			zerr.Wrap(domain.ErrMalformedDirective, "bundle target "+b.target+" escapes the output directory"),
			"target", b.target)
	}

	roots := searchPath
	if len(b.alt) > 0 {
		roots = make([]string, 0, len(b.alt))
		for _, alt := range b.alt {
			if !filepath.IsAbs(alt) {
				alt = filepath.Join(r.root, filepath.FromSlash(alt))
			}
			roots = append(roots, alt)
		}
	}

	parts := make([][]byte, 0, len(b.refs))
	for _, ref := range b.refs {
		data, err := read(pageDir, ref, roots)
		if err != nil {
			return domain.Asset{}, false, err
		}
		parts = append(parts, data)
	}

	return domain.Asset{
		Path:    target,
		Content: bytes.Join(parts, []byte("\n")),
	}, true, nil
}

// resolveRef maps a URL reference to a slash-separated path relative to a search root.
func resolveRef(pageDir, ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if strings.HasPrefix(ref, "/") {
		return path.Clean(strings.TrimPrefix(ref, "/"))
	}
	return path.Join(pageDir, ref)
}

// read returns the content of ref from the first root that has it.
func read(pageDir, ref string, roots []string) ([]byte, error) {
	rel := filepath.FromSlash(resolveRef(pageDir, ref))
	for _, root := range roots {
		data, err := os.ReadFile(filepath.Join(root, rel)) //nolint:gosec // roots are project directories
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, iofs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "ref", ref)
		}
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrReferenceNotFound, "cannot bundle "+ref), "ref", ref)
}
