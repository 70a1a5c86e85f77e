// Package metrics provides Prometheus metrics for the string store
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the string store
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Store metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	RecordsTotal           prometheus.Gauge

	// Query metrics
	FilterQueriesTotal prometheus.Counter
	FilterResultsTotal prometheus.Counter
	NLQueryParsesTotal *prometheus.CounterVec

	// Persistence metrics
	PersistCommitsTotal   *prometheus.CounterVec
	PersistCommitDuration *prometheus.HistogramVec

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	// HTTP request metrics
	m.HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringstore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stringstore_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stringstore_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Store metrics
	m.StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringstore_store_operations_total",
			Help: "Total number of record store operations",
		},
		[]string{"operation", "status"},
	)

	m.StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stringstore_store_operation_duration_seconds",
			Help:    "Duration of record store operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	m.RecordsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stringstore_records_total",
			Help: "Total number of stored string records",
		},
	)

	// Query metrics
	m.FilterQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stringstore_filter_queries_total",
			Help: "Total number of filter queries",
		},
	)

	m.FilterResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stringstore_filter_results_total",
			Help: "Total number of filter results returned",
		},
	)

	m.NLQueryParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringstore_nl_query_parses_total",
			Help: "Total number of natural-language query parse attempts",
		},
		[]string{"outcome"}, // parsed, unparseable, conflicting
	)

	// Persistence metrics
	m.PersistCommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stringstore_persist_commits_total",
			Help: "Total number of persistence commits",
		},
		[]string{"status"},
	)

	m.PersistCommitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stringstore_persist_commit_duration_seconds",
			Help:    "Duration of persistence commits in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"backend"},
	)

	// Server metrics
	m.ServerUptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stringstore_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime periodically updates the server uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request with its status
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreOperation records a record store operation
func (m *Metrics) RecordStoreOperation(operation, status string, duration time.Duration) {
	m.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	m.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordNLQueryParse records the outcome of a natural-language parse attempt
func (m *Metrics) RecordNLQueryParse(outcome string) {
	m.NLQueryParsesTotal.WithLabelValues(outcome).Inc()
}

// RecordFilterQuery records a filter query and its result count
func (m *Metrics) RecordFilterQuery(results int) {
	m.FilterQueriesTotal.Inc()
	m.FilterResultsTotal.Add(float64(results))
}
