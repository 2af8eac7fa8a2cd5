// Package metrics exposes Prometheus metrics for the playground.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors, registered on a dedicated registry so tests
// can create as many instances as they like.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	RateLimited    prometheus.Counter
	CodeSizeBytes  prometheus.Histogram
	TrackedClients prometheus.GaugeFunc
	WarmContainers prometheus.GaugeFunc
}

// New creates and registers all collectors. trackedClients and
// warmContainers are sampled at scrape time; either may be nil.
func New(trackedClients, warmContainers func() int) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "playground",
				Name:      "runs_total",
				Help:      "Total number of executed snippets by outcome.",
			},
			[]string{"status"},
		),

		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "playground",
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of snippet runs.",
				Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
			},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "playground",
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the sliding-window limiter.",
			},
		),

		CodeSizeBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "playground",
				Name:      "code_size_bytes",
				Help:      "Size of submitted code in bytes.",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 7),
			},
		),
	}

	m.TrackedClients = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "playground",
			Name:      "rate_limiter_clients",
			Help:      "Client identities currently tracked by the limiter.",
		},
		sample(trackedClients),
	)
	m.WarmContainers = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "playground",
			Name:      "warm_containers",
			Help:      "Idle pre-warmed containers (docker runner only).",
		},
		sample(warmContainers),
	)

	reg.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RateLimited,
		m.CodeSizeBytes,
		m.TrackedClients,
		m.WarmContainers,
	)

	return m
}

func sample(fn func() int) func() float64 {
	if fn == nil {
		return func() float64 { return 0 }
	}
	return func() float64 { return float64(fn()) }
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RecordRun records a finished run. Safe on a nil receiver.
func (m *Metrics) RecordRun(status string, durationSec float64, codeBytes int) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(durationSec)
	m.CodeSizeBytes.Observe(float64(codeBytes))
}

// RecordRateLimited counts a rejected request. Safe on a nil receiver.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
