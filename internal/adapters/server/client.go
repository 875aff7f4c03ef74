package server

import (
	"bytes"

	"go.trai.ch/pages/internal/core/domain"
)

const (
	livereloadPath   = domain.InternalRoutePrefix + "/livereload"
	livereloadJSPath = domain.InternalRoutePrefix + "/livereload.js"
	metricsPath      = domain.InternalRoutePrefix + "/metrics"
)

// clientTag is injected into every served HTML page.
const clientTag = `<script src="` + livereloadJSPath + `"></script>`

// clientScript applies reload events: stylesheets are swapped for css, changed images are
// cache-busted for image-only asset events, anything else reloads the page.
const clientScript = `(() => {
  if (window.__pagesLiveReload) return;
  window.__pagesLiveReload = true;
  const images = /\.(png|jpe?g|gif|svg|webp|avif|ico)$/i;
  const bust = (url) => {
    const u = new URL(url, location.href);
    u.searchParams.set('livereload', Date.now());
    return u.toString();
  };
  const apply = (msg) => {
    const paths = msg.paths || [];
    if (msg.kind === 'css') {
      document.querySelectorAll('link[rel="stylesheet"]').forEach((link) => { link.href = bust(link.href); });
      return;
    }
    if (msg.kind === 'asset' && paths.length > 0 && paths.every((p) => images.test(p))) {
      document.querySelectorAll('img').forEach((img) => {
        if (paths.includes(new URL(img.src, location.href).pathname)) img.src = bust(img.src);
      });
      return;
    }
    location.reload();
  };
  const connect = () => {
    const es = new EventSource('` + livereloadPath + `');
    es.onmessage = (e) => {
      try { apply(JSON.parse(e.data)); } catch (_) {}
    };
    es.onerror = () => {
      es.close();
      setTimeout(connect, 2000);
    };
  };
  connect();
})();
`

// injectClient inserts the live-reload client before the last </body>, or appends it.
func injectClient(page []byte) []byte {
	i := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if i < 0 {
		return append(page, clientTag...)
	}

	out := make([]byte, 0, len(page)+len(clientTag))
	out = append(out, page[:i]...)
	out = append(out, clientTag...)
	return append(out, page[i:]...)
}
