package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pages/internal/adapters/metrics"
)

func TestPrometheusRecorder_ObserveTask(t *testing.T) {
	reg := prom.NewRegistry()
	pr := metrics.NewPrometheusRecorder(reg)

	pr.ObserveTask("style", 150*time.Millisecond, nil)
	pr.ObserveTask("style", 20*time.Millisecond, errors.New("boom"))
	pr.ObserveTask("bundle", time.Second, nil)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.Equal(t, 3, testutil.CollectAndCount(reg, "pages_task_results_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "pages_task_duration_seconds"))
}

func TestPrometheusRecorder_Reloads(t *testing.T) {
	pr := metrics.NewPrometheusRecorder(nil)

	pr.IncReload("css")
	pr.IncReload("css")
	pr.IncReload("page")
	pr.SetReloadClients(2)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pages_livereload_broadcasts_total{kind="css"} 2`)
	assert.Contains(t, string(body), "pages_livereload_clients 2")
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *metrics.PrometheusRecorder

	assert.NotPanics(t, func() {
		pr.ObserveTask("style", time.Millisecond, nil)
		pr.IncReload("page")
		pr.SetReloadClients(1)
	})
}
