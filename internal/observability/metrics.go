// Package observability holds the process metrics registry.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the pipeline's Prometheus collectors. A nil *Metrics
// is a valid no-op recorder, so callers never need to guard.
type Metrics struct {
	registry *prometheus.Registry

	fetches      *prometheus.CounterVec
	pipelineRuns *prometheus.CounterVec
	pipelineSecs prometheus.Histogram
	cacheLookups *prometheus.CounterVec
	scoredTiers  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpSecs     *prometheus.HistogramVec
}

// NewMetrics builds a registry with all pipeline collectors registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainscore",
			Name:      "explorer_fetches_total",
			Help:      "Explorer category fetches by outcome.",
		}, []string{"category", "outcome"}),
		pipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainscore",
			Name:      "pipeline_runs_total",
			Help:      "Scoring pipeline executions by outcome.",
		}, []string{"outcome"}),
		pipelineSecs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chainscore",
			Name:      "pipeline_duration_seconds",
			Help:      "Wall-clock duration of one scoring pipeline run.",
			// Rate-limited upstream paging makes multi-minute runs normal.
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainscore",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
		scoredTiers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainscore",
			Name:      "scores_total",
			Help:      "Scored wallets by resulting risk tier.",
		}, []string{"tier"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainscore",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
		httpSecs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chainscore",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request handling duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

// RecordFetch counts one explorer category fetch.
func (m *Metrics) RecordFetch(category, outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(category, outcome).Inc()
}

// RecordPipeline counts one pipeline run and its duration.
func (m *Metrics) RecordPipeline(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(outcome).Inc()
	m.pipelineSecs.Observe(seconds)
}

// RecordCache counts one result cache lookup.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordScore counts one scored wallet by tier.
func (m *Metrics) RecordScore(tier string) {
	if m == nil {
		return
	}
	m.scoredTiers.WithLabelValues(tier).Inc()
}

// RecordHTTP counts one served request.
func (m *Metrics) RecordHTTP(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpSecs.WithLabelValues(path).Observe(seconds)
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
