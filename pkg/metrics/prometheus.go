// Package metrics provides Prometheus metrics for the motor selection service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Selection Metrics
	queries          *prometheus.CounterVec
	queryLatency     prometheus.Histogram
	motorsMatched    *prometheus.HistogramVec
	motorsRejected   *prometheus.CounterVec
	invalidQueries   prometheus.Counter
	rateLimited      prometheus.Counter
	catalogRows      *prometheus.GaugeVec
	catalogAvailable *prometheus.GaugeVec
	catalogErrors    *prometheus.CounterVec
	catalogLatency   prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "liftmotor",
		subsystem:        "selector",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.queries = auto.NewCounterVec(
		m.counter("queries_total", "Selection results by motor type and outcome"),
		[]string{"motor_type", "status"},
	)
	m.queryLatency = auto.NewHistogram(
		m.histogram("query_latency_milliseconds", "End-to-end selection latency in milliseconds", m.histogramBuckets),
	)
	m.motorsMatched = auto.NewHistogramVec(
		m.histogram("motors_matched", "Number of qualifying motors per result",
			[]float64{0, 1, 2, 5, 10, 25, 50, 100}),
		[]string{"motor_type"},
	)
	m.motorsRejected = auto.NewCounterVec(
		m.counter("motors_rejected_total", "Rejected catalog rows by failing criterion"),
		[]string{"motor_type", "reason"},
	)
	m.invalidQueries = auto.NewCounter(
		m.counter("invalid_queries_total", "Queries rejected before selection"),
	)
	m.rateLimited = auto.NewCounter(
		m.counter("rate_limited_total", "Requests refused by the rate limiter"),
	)
	m.catalogRows = auto.NewGaugeVec(
		m.gauge("catalog_rows", "Rows loaded per catalog"),
		[]string{"motor_type"},
	)
	m.catalogAvailable = auto.NewGaugeVec(
		m.gauge("catalog_available", "1 when the catalog loaded, 0 otherwise"),
		[]string{"motor_type"},
	)
	m.catalogErrors = auto.NewCounterVec(
		m.counter("catalog_load_errors_total", "Catalog load failures"),
		[]string{"motor_type"},
	)
	m.catalogLatency = auto.NewHistogram(
		m.histogram("catalog_load_latency_milliseconds", "Catalog load time in milliseconds", m.histogramBuckets),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		m.counter("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counter("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogram("error_latency_milliseconds", "Latency of requests that ended in an error", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gauge("system_memory_bytes", "Heap memory in use"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gauge("system_goroutines", "Number of goroutines"),
	)
}

// Selection Metrics Functions.

// RecordQuery counts one per-type selection result.
func RecordQuery(motorType, status string) {
	globalManager.queries.WithLabelValues(motorType, status).Inc()
}

// RecordQueryLatency records end-to-end selection latency.
func RecordQueryLatency(latencyMs float64) {
	globalManager.queryLatency.Observe(latencyMs)
}

// RecordMotorsMatched records how many motors qualified for one type.
func RecordMotorsMatched(motorType string, n int) {
	globalManager.motorsMatched.WithLabelValues(motorType).Observe(float64(n))
}

// RecordMotorRejected counts a rejected row under one failing criterion.
func RecordMotorRejected(motorType, reason string) {
	globalManager.motorsRejected.WithLabelValues(motorType, reason).Inc()
}

// RecordInvalidQuery counts a query that failed validation.
func RecordInvalidQuery() {
	globalManager.invalidQueries.Inc()
}

// RecordRateLimited counts a refused request.
func RecordRateLimited() {
	globalManager.rateLimited.Inc()
}

// UpdateCatalogRows sets the row count of a catalog.
func UpdateCatalogRows(motorType string, rows int) {
	globalManager.catalogRows.WithLabelValues(motorType).Set(float64(rows))
}

// UpdateCatalogAvailable flags whether a catalog loaded.
func UpdateCatalogAvailable(motorType string, available bool) {
	v := 0.0
	if available {
		v = 1
	}
	globalManager.catalogAvailable.WithLabelValues(motorType).Set(v)
}

// RecordCatalogLoadError counts a catalog load failure.
func RecordCatalogLoadError(motorType string) {
	globalManager.catalogErrors.WithLabelValues(motorType).Inc()
}

// RecordCatalogLoadLatency records catalog load time.
func RecordCatalogLoadLatency(latencyMs float64) {
	globalManager.catalogLatency.Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Configure rebuilds the global manager from opts on a fresh registry.
// Call it once at startup, before handlers capture GetRegistry and before
// anything records concurrently.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}
