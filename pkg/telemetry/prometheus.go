package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromMetrics mirrors the Provider's RED metrics as a Prometheus
// registry, adapted from the moduleMetrics lazy-singleton pattern used
// across the corpus (CounterVec per outcome, HistogramVec for latency)
// so cmd/eqcgate's serve subcommand can expose a plain /metrics
// endpoint without requiring an OTLP collector.
type PromMetrics struct {
	Decisions  *prometheus.CounterVec
	Blocked    *prometheus.CounterVec
	DecideSecs *prometheus.HistogramVec
	ExecSecs   *prometheus.HistogramVec
	registry   *prometheus.Registry
}

var (
	promOnce sync.Once
	promReg  *PromMetrics
)

// NewPromMetrics returns the process-wide Prometheus registry, created
// once on first call.
func NewPromMetrics() *PromMetrics {
	promOnce.Do(func() {
		reg := prometheus.NewRegistry()
		m := &PromMetrics{
			Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "eqc",
				Name:      "decisions_total",
				Help:      "Total EQC decisions segmented by verdict kind.",
			}, []string{"verdict"}),
			Blocked: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "eqc",
				Name:      "executions_blocked_total",
				Help:      "Total guarded executions blocked segmented by error kind.",
			}, []string{"kind"}),
			DecideSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "eqc",
				Name:      "decide_duration_seconds",
				Help:      "Engine.Decide latency.",
				Buckets:   prometheus.DefBuckets,
			}, []string{}),
			ExecSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "eqc",
				Name:      "execute_duration_seconds",
				Help:      "GuardedExecutor.Execute latency.",
				Buckets:   prometheus.DefBuckets,
			}, []string{}),
			registry: reg,
		}
		reg.MustRegister(m.Decisions, m.Blocked, m.DecideSecs, m.ExecSecs)
		promReg = m
	})
	return promReg
}

// Handler returns the HTTP handler to mount at /metrics.
func (m *PromMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
