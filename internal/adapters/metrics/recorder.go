// Package metrics records pipeline metrics with Prometheus.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/pages/internal/core/ports"
)

// Namespace prefixes every metric name.
const Namespace = "pages"

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

var _ ports.Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements ports.Recorder on its own registry.
type PrometheusRecorder struct {
	reg           *prom.Registry
	taskDuration  *prom.HistogramVec
	taskResults   *prom.CounterVec
	reloads       *prom.CounterVec
	reloadClients prom.Gauge
}

// NewPrometheusRecorder constructs and registers the metrics. A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of pipeline tasks",
			Buckets:   prom.DefBuckets,
		}, []string{"task"}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "task_results_total",
			Help:      "Task result counts by outcome",
		}, []string{"task", "result"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "livereload_broadcasts_total",
			Help:      "Live-reload notifications sent, by kind",
		}, []string{"kind"}),
		reloadClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: Namespace,
			Name:      "livereload_clients",
			Help:      "Connected live-reload clients",
		}),
	}
	reg.MustRegister(pr.taskDuration, pr.taskResults, pr.reloads, pr.reloadClients)
	return pr
}

// ObserveTask records one task run.
func (p *PrometheusRecorder) ObserveTask(name string, d time.Duration, err error) {
	if p == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailed
	}
	p.taskDuration.WithLabelValues(name).Observe(d.Seconds())
	p.taskResults.WithLabelValues(name, result).Inc()
}

// IncReload counts one live-reload broadcast.
func (p *PrometheusRecorder) IncReload(kind string) {
	if p == nil {
		return
	}
	p.reloads.WithLabelValues(kind).Inc()
}

// SetReloadClients sets the number of connected live-reload clients.
func (p *PrometheusRecorder) SetReloadClients(n int) {
	if p == nil {
		return
	}
	p.reloadClients.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
