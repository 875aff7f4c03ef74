package server_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pages/internal/adapters/server"
	"go.trai.ch/pages/internal/core/domain"
	"go.trai.ch/pages/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const clientTag = `<script src="/__pages/livereload.js"></script>`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	}
}

func newServer(t *testing.T, cfg *domain.Config, metrics http.Handler) (*server.Server, string) {
	t.Helper()
	root := t.TempDir()
	ctrl := gomock.NewController(t)
	hub := server.NewLiveReloadHub(nil)
	t.Cleanup(hub.Shutdown)
	return server.New(root, cfg, hub, metrics, mocks.NewMockLogger(ctrl)), root
}

func get(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, http.NoBody))
	return rec
}

func TestServer_StaticLookup(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Server.Routes["/node_modules/pkg"] = "vendor/pkg"
	srv, root := newServer(t, cfg, nil)

	writeFiles(t, root, map[string]string{
		"temp/assets/styles/main.css": "from temp",
		"src/assets/styles/main.css":  "from src",
		"src/assets/images/logo.svg":  "<svg/>",
		"public/robots.txt":           "User-agent: *",
		"src/docs/index.html":         "<html><body>docs</body></html>",
		"node_modules/normalize.css":  "normalize",
		"node_modules/pkg/index.js":   "from node_modules",
		"vendor/pkg/index.js":         "from vendor",
		"secret.txt":                  "secret",
	})

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{"temp wins over src", "/assets/styles/main.css", http.StatusOK, "from temp"},
		{"src fallback", "/assets/images/logo.svg", http.StatusOK, "<svg/>"},
		{"public fallback", "/robots.txt", http.StatusOK, "User-agent: *"},
		{"route override", "/node_modules/normalize.css", http.StatusOK, "normalize"},
		{"longest route prefix", "/node_modules/pkg/index.js", http.StatusOK, "from vendor"},
		{"directory index", "/docs/", http.StatusOK, "<html><body>docs" + clientTag + "</body></html>"},
		{"missing", "/nope.css", http.StatusNotFound, ""},
		{"traversal", "/../secret.txt", http.StatusNotFound, ""},
		{"project root not served", "/secret.txt", http.StatusNotFound, ""},
	}

	h := srv.Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, http.MethodGet, tt.target)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestServer_InjectsClient(t *testing.T) {
	srv, root := newServer(t, domain.DefaultConfig(), nil)
	writeFiles(t, root, map[string]string{
		"temp/index.html":    "<html><BODY><p>hi</p></BODY></html>",
		"temp/fragment.html": "<p>fragment</p>",
		"temp/app.js":        "console.log('</body>')",
	})
	h := srv.Handler()

	rec := get(t, h, http.MethodGet, "/")
	assert.Equal(t, "<html><BODY><p>hi</p>"+clientTag+"</BODY></html>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = get(t, h, http.MethodGet, "/fragment.html")
	assert.Equal(t, "<p>fragment</p>"+clientTag, rec.Body.String())

	rec = get(t, h, http.MethodGet, "/app.js")
	assert.Equal(t, "console.log('</body>')", rec.Body.String())
}

func TestServer_HeadRequest(t *testing.T) {
	srv, root := newServer(t, domain.DefaultConfig(), nil)
	writeFiles(t, root, map[string]string{"public/robots.txt": "User-agent: *"})

	rec := get(t, srv.Handler(), http.MethodHead, "/robots.txt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestServer_InternalEndpoints(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pages_task_results_total 1\n")
	})
	srv, _ := newServer(t, domain.DefaultConfig(), metrics)
	h := srv.Handler()

	rec := get(t, h, http.MethodGet, "/__pages/livereload.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/javascript")
	assert.Contains(t, rec.Body.String(), "new EventSource('/__pages/livereload')")

	rec = get(t, h, http.MethodGet, "/__pages/metrics")
	assert.Equal(t, "pages_task_results_total 1\n", rec.Body.String())
}

func TestServer_NoMetricsHandler(t *testing.T) {
	srv, _ := newServer(t, domain.DefaultConfig(), nil)

	rec := get(t, srv.Handler(), http.MethodGet, "/__pages/metrics")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestServer_Serve_BindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	cfg := domain.DefaultConfig()
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port
	srv, _ := newServer(t, cfg, nil)

	err = srv.Serve(t.Context())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrServerBindFailed))
}

func TestServer_Serve_ShutsDownOnCancel(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Server.Port = freePort(t)

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info("Serving at http://localhost:" + strconv.Itoa(cfg.Server.Port))

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"public/robots.txt": "User-agent: *"})
	hub := server.NewLiveReloadHub(nil)
	srv := server.New(root, cfg, hub, nil, log)

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	url := "http://127.0.0.1:" + strconv.Itoa(cfg.Server.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/robots.txt") //nolint:noctx // polling a local test server
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	// An open live-reload stream must not hold up shutdown.
	connect(t, url+"/__pages/livereload")

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
