// Package metrics provides Prometheus metrics for the whale risk service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the whale risk service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Core Business Metrics - What really matters for a risk API
	assessmentsTotal     *prometheus.CounterVec
	routeAssessments     prometheus.Counter
	routeWaypoints       prometheus.Histogram
	modelScoreDuration   prometheus.Histogram
	modelScoreErrors     prometheus.Counter
	modelTreesLoaded     prometheus.Gauge
	scoreCacheHits       prometheus.Counter
	scoreCacheMisses     prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Default histogram buckets for sub-millisecond scoring latencies (milliseconds).
var defaultBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500} //nolint:gochecknoglobals // shared default

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "whalerisk",
		subsystem:        "api",
		histogramBuckets: defaultBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	if !m.enabled {
		return m
	}

	factory := promauto.With(m.registry)

	m.assessmentsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessments_total",
		Help:      "Total point assessments served, labeled by resulting risk level.",
	}, []string{"risk_level"})

	m.routeAssessments = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "route_assessments_total",
		Help:      "Total route assessments served.",
	})

	m.routeWaypoints = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "route_waypoints",
		Help:      "Waypoint count per route assessment.",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	m.modelScoreDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "model",
		Name:      "score_duration_ms",
		Help:      "Latency of a single artifact scoring call in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.modelScoreErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "model",
		Name:      "score_errors_total",
		Help:      "Total artifact scoring failures.",
	})

	m.modelTreesLoaded = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "model",
		Name:      "trees_loaded",
		Help:      "Number of boosted trees in the loaded artifact.",
	})

	m.scoreCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Score cache hits.",
	})

	m.scoreCacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Score cache misses.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByEndpoint = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "errors_total",
		Help:      "HTTP error responses by endpoint and error type.",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Allocated heap bytes.",
	})

	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current goroutine count.",
	})

	return m
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level record functions against the global manager.

// RecordAssessment counts a served point assessment by risk level.
func RecordAssessment(riskLevel string) {
	if globalManager.enabled {
		globalManager.assessmentsTotal.WithLabelValues(riskLevel).Inc()
	}
}

// RecordRouteAssessment counts a served route assessment and its size.
func RecordRouteAssessment(waypoints int) {
	if globalManager.enabled {
		globalManager.routeAssessments.Inc()
		globalManager.routeWaypoints.Observe(float64(waypoints))
	}
}

// RecordModelScoreDuration observes one artifact scoring call latency (ms).
func RecordModelScoreDuration(ms float64) {
	if globalManager.enabled {
		globalManager.modelScoreDuration.Observe(ms)
	}
}

// RecordModelScoreError counts an artifact scoring failure.
func RecordModelScoreError() {
	if globalManager.enabled {
		globalManager.modelScoreErrors.Inc()
	}
}

// UpdateModelTreesLoaded sets the loaded tree count gauge.
func UpdateModelTreesLoaded(n int) {
	if globalManager.enabled {
		globalManager.modelTreesLoaded.Set(float64(n))
	}
}

// RecordCacheHit counts a score cache hit.
func RecordCacheHit() {
	if globalManager.enabled {
		globalManager.scoreCacheHits.Inc()
	}
}

// RecordCacheMiss counts a score cache miss.
func RecordCacheMiss() {
	if globalManager.enabled {
		globalManager.scoreCacheMisses.Inc()
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration observes an HTTP request latency (ms).
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}
