// Package server is the development web server: static files from the build directories
// plus a live-reload channel.
package server

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	indexFile         = "index.html"
)

// route maps a URL prefix to an alternate directory.
type route struct {
	prefix string
	dir    string
}

// Server serves a project during development.
type Server struct {
	port    int
	roots   []string
	routes  []route
	hub     *LiveReloadHub
	metrics http.Handler
	logger  ports.Logger
}

// New creates a Server for the project at root. metrics may be nil.
func New(root string, cfg *domain.Config, hub *LiveReloadHub, metrics http.Handler, logger ports.Logger) *Server {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(root, dir)
	}

	routes := make([]route, 0, len(cfg.Server.Routes))
	for prefix, dir := range cfg.Server.Routes {
		routes = append(routes, route{prefix: "/" + strings.Trim(prefix, "/"), dir: resolve(dir)})
	}
	// Longest prefix first.
	slices.SortFunc(routes, func(a, b route) int {
		if n := len(b.prefix) - len(a.prefix); n != 0 {
			return n
		}
		return strings.Compare(a.prefix, b.prefix)
	})

	return &Server{
		port:    cfg.Server.Port,
		roots:   []string{resolve(cfg.Build.Tmp), resolve(cfg.Build.Src), resolve(cfg.Build.Public)},
		routes:  routes,
		hub:     hub,
		metrics: metrics,
		logger:  logger,
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get(livereloadPath, s.hub.ServeHTTP)
	r.Get(livereloadJSPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write([]byte(clientScript))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, metricsPath, s.metrics)
	}
	r.Get("/*", s.serveStatic)

	return r
}

// Serve binds the configured port and serves until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := ":" + strconv.Itoa(s.port)
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrServerBindFailed, err.Error()), "addr", addr)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("Serving at http://localhost:" + strconv.Itoa(s.port))

	select {
	case err := <-errCh:
		s.hub.Shutdown()
		return zerr.Wrap(err, "dev server stopped")
	case <-ctx.Done():
	}

	// Streams end first so Shutdown does not wait on them.
	s.hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, "dev server shutdown failed")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, "dev server stopped")
	}
	return nil
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	urlPath := path.Clean("/" + r.URL.Path)

	for _, rt := range s.routes {
		if urlPath != rt.prefix && !strings.HasPrefix(urlPath, rt.prefix+"/") {
			continue
		}
		if s.serveFrom(w, r, rt.dir, strings.TrimPrefix(urlPath, rt.prefix)) {
			return
		}
		break
	}

	for _, root := range s.roots {
		if s.serveFrom(w, r, root, urlPath) {
			return
		}
	}

	http.NotFound(w, r)
}

// serveFrom serves rel from dir and reports whether a file was found there.
func (s *Server) serveFrom(w http.ResponseWriter, r *http.Request, dir, rel string) bool {
	name := filepath.Join(dir, filepath.FromSlash(rel))
	if name != dir && !strings.HasPrefix(name, dir+string(filepath.Separator)) {
		return false
	}

	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		name = filepath.Join(name, indexFile)
		if info, err = os.Stat(name); err != nil || info.IsDir() {
			return false
		}
	}

	content, err := os.ReadFile(name)
	if err != nil {
		return false
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".html" || ext == ".htm" {
		content = injectClient(content)
		w.Header().Set("Cache-Control", "no-cache")
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), bytes.NewReader(content))
	return true
}
