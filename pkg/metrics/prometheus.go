// Package metrics provides Prometheus metrics for the skillrate service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the rating service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Rating pipeline metrics.
	matchesProcessed  prometheus.Counter
	ratingUpdates     prometheus.Counter
	entitiesTracked   prometheus.Gauge
	generatorRuns     *prometheus.CounterVec
	generationSeconds *prometheus.HistogramVec

	// Data quality metrics.
	validationErrors  *prometheus.CounterVec
	outOfOrderMatches prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillrate",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_processed_total",
		Help:      "Total number of matches consumed by rating generators",
	})

	m.ratingUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_updates_total",
		Help:      "Total number of per-entity rating commits",
	})

	m.entitiesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entities_tracked",
		Help:      "Number of players and teams currently held in the rating store",
	})

	m.generatorRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "generator_runs_total",
			Help:      "Total number of generator passes by generator and mode",
		},
		[]string{"generator", "mode"},
	)

	m.generationSeconds = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "generation_duration_seconds",
			Help:      "Duration of a full generator pass in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"generator", "mode"},
	)

	m.validationErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "validation_errors_total",
			Help:      "Total number of rejected rows/matches by error kind",
		},
		[]string{"kind"},
	)

	m.outOfOrderMatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "out_of_order_matches_total",
		Help:      "Total number of matches rejected for arriving out of chronological order",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordMatchProcessed increments the processed matches counter.
func RecordMatchProcessed() {
	globalManager.matchesProcessed.Inc()
}

// RecordRatingUpdate increments the rating update counter.
func RecordRatingUpdate() {
	globalManager.ratingUpdates.Inc()
}

// UpdateEntitiesTracked sets the number of tracked entities.
func UpdateEntitiesTracked(count int) {
	globalManager.entitiesTracked.Set(float64(count))
}

// RecordGeneratorRun increments the generator pass counter.
func RecordGeneratorRun(generator, mode string) {
	globalManager.generatorRuns.WithLabelValues(generator, mode).Inc()
}

// RecordGenerationDuration records the duration of a generator pass.
func RecordGenerationDuration(generator, mode string, seconds float64) {
	globalManager.generationSeconds.WithLabelValues(generator, mode).Observe(seconds)
}

// RecordValidationError increments the validation error counter for a kind.
func RecordValidationError(kind string) {
	globalManager.validationErrors.WithLabelValues(kind).Inc()
}

// RecordOutOfOrderMatch increments the out-of-order rejection counter.
func RecordOutOfOrderMatch() {
	globalManager.outOfOrderMatches.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
