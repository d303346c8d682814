// Package prometheus exposes the evaluator's operational metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "compound_analyzer"

// Metrics holds every collector the application registers.  It satisfies the
// analyzer's metrics port.
type Metrics struct {
	registry *prometheus.Registry

	batchesTotal     prometheus.Counter
	compoundsTotal   prometheus.Counter
	invalidTotal     prometheus.Counter
	violationsTotal  prometheus.Counter
	batchDuration    prometheus.Histogram
	batchSize        prometheus.Histogram
	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics builds and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: reg,
		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Number of batch evaluations completed.",
		}),
		compoundsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compounds_total",
			Help:      "Number of compounds evaluated.",
		}),
		invalidTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_compounds_total",
			Help:      "Number of compounds that failed to parse or compute.",
		}),
		violationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_violations_total",
			Help:      "Number of rule violations recorded across all compounds.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall-clock duration of batch evaluations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size_compounds",
			Help:      "Compound count per batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		cacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptor_cache_hits_total",
			Help:      "Descriptor cache hits.",
		}),
		cacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptor_cache_misses_total",
			Help:      "Descriptor cache misses.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		m.batchesTotal,
		m.compoundsTotal,
		m.invalidTotal,
		m.violationsTotal,
		m.batchDuration,
		m.batchSize,
		m.cacheHitsTotal,
		m.cacheMissesTotal,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	)
	return m
}

// ObserveBatch records one completed batch.
func (m *Metrics) ObserveBatch(size int, duration time.Duration) {
	m.batchesTotal.Inc()
	m.compoundsTotal.Add(float64(size))
	m.batchSize.Observe(float64(size))
	m.batchDuration.Observe(duration.Seconds())
}

// AddInvalid records invalid compound rows.
func (m *Metrics) AddInvalid(n int) {
	m.invalidTotal.Add(float64(n))
}

// AddViolations records rule violation strings.
func (m *Metrics) AddViolations(n int) {
	m.violationsTotal.Add(float64(n))
}

// CacheHit records one descriptor cache hit.
func (m *Metrics) CacheHit() {
	m.cacheHitsTotal.Inc()
}

// CacheMiss records one descriptor cache miss.
func (m *Metrics) CacheMiss() {
	m.cacheMissesTotal.Inc()
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler serves the /metrics scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
