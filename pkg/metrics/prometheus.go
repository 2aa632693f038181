// Package metrics provides Prometheus metrics for the PVSA hours service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds. Sheet fetches hit a remote spreadsheet
// export, so the upper buckets run into seconds.
var defaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // immutable bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Lookup metrics
	lookups           *prometheus.CounterVec
	lookupLatency     prometheus.Histogram
	matchedRows       prometheus.Histogram
	classifiedEntries *prometheus.CounterVec
	eligibility       *prometheus.CounterVec

	// Sheet metrics
	sheetRows            prometheus.Gauge
	sheetRefreshes       *prometheus.CounterVec
	sheetRefreshDuration prometheus.Histogram
	sheetLastLoadedUnix  prometheus.Gauge
	sheetFetchRetries    prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "pvsa",
		subsystem:        "hours",
		histogramBuckets: defaultLatencyBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.lookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "lookups_total",
		Help:        "Total number of volunteer lookups by outcome (found, not_found, invalid, not_ready)",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.lookupLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "lookup_latency_milliseconds",
		Help:        "Time to match and aggregate one lookup",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.matchedRows = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matched_rows",
		Help:        "Number of sheet rows matched per lookup",
		Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		ConstLabels: m.constLabels,
	})

	m.classifiedEntries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "classified_entries_total",
		Help:        "Activity entries counted into a category during aggregation",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.eligibility = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "eligibility_evaluations_total",
		Help:        "Award evaluations by resulting award level",
		ConstLabels: m.constLabels,
	}, []string{"award"})

	m.sheetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sheet_rows",
		Help:        "Number of non-blank rows in the active sheet snapshot",
		ConstLabels: m.constLabels,
	})

	m.sheetRefreshes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sheet_refreshes_total",
		Help:        "Sheet reloads by result (success, error)",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.sheetRefreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sheet_refresh_duration_milliseconds",
		Help:        "Time to fetch and parse the sheet",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.sheetLastLoadedUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sheet_last_loaded_unix_seconds",
		Help:        "Unix time of the last successful sheet load",
		ConstLabels: m.constLabels,
	})

	m.sheetFetchRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sheet_fetch_retries_total",
		Help:        "Retried sheet fetch attempts after transient failures",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "HTTP error responses by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and error type",
		ConstLabels: m.constLabels,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Allocated heap memory in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     prometheus.ExponentialBuckets(0.01, 2, 12),
		ConstLabels: m.constLabels,
	})
}

// Lookup Metrics Functions.

// RecordLookup increments the lookup counter for an outcome.
func RecordLookup(outcome string) {
	globalManager.lookups.WithLabelValues(outcome).Inc()
}

// RecordLookupLatency records how long a lookup took.
func RecordLookupLatency(latencyMs float64) {
	globalManager.lookupLatency.Observe(latencyMs)
}

// RecordMatchedRows records the number of rows a lookup matched.
func RecordMatchedRows(n int) {
	globalManager.matchedRows.Observe(float64(n))
}

// RecordClassifiedEntry counts one activity entry for category.
func RecordClassifiedEntry(category string) {
	globalManager.classifiedEntries.WithLabelValues(category).Inc()
}

// RecordEligibility counts one award evaluation. An empty award is recorded as "none".
func RecordEligibility(award string) {
	if award == "" {
		award = "none"
	}
	globalManager.eligibility.WithLabelValues(award).Inc()
}

// Sheet Metrics Functions.

// UpdateSheetRows sets the row count of the active snapshot.
func UpdateSheetRows(n int) {
	globalManager.sheetRows.Set(float64(n))
}

// RecordSheetRefresh counts a reload attempt by result.
func RecordSheetRefresh(result string) {
	globalManager.sheetRefreshes.WithLabelValues(result).Inc()
}

// RecordSheetRefreshDuration records fetch+parse time.
func RecordSheetRefreshDuration(latencyMs float64) {
	globalManager.sheetRefreshDuration.Observe(latencyMs)
}

// UpdateSheetLastLoaded sets the time of the last successful load.
func UpdateSheetLastLoaded(unixSeconds int64) {
	globalManager.sheetLastLoadedUnix.Set(float64(unixSeconds))
}

// RecordSheetFetchRetry counts one retried fetch attempt.
func RecordSheetFetchRetry() {
	globalManager.sheetFetchRetries.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
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

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
