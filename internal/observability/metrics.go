// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Detection metrics
	ChannelsProcessed *prometheus.CounterVec
	EventsDetected    prometheus.Counter
	EventsRejected    *prometheus.CounterVec
	ChannelDuration   prometheus.Histogram

	// Trace source metrics
	TraceReadErrors  prometheus.Counter
	SamplesProcessed prometheus.Counter

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Ingest metrics
	ChannelsIngested prometheus.Counter
	SamplesIngested  prometheus.Counter

	// Reporting metrics
	ReportsGenerated prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "osbp_detect"
	}

	return &Metrics{
		// Detection metrics
		ChannelsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detect",
			Name:      "channels_processed_total",
			Help:      "Total number of channels processed by final status",
		}, []string{"status"}),
		EventsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detect",
			Name:      "events_detected_total",
			Help:      "Total number of accepted translocation events",
		}),
		EventsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detect",
			Name:      "events_rejected_total",
			Help:      "Total number of rejected candidate regions by reason",
		}, []string{"reason"}),
		ChannelDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "detect",
			Name:      "channel_duration_seconds",
			Help:      "Per-channel detection duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Trace source metrics
		TraceReadErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracesource",
			Name:      "read_errors_total",
			Help:      "Total number of trace read failures",
		}),
		SamplesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracesource",
			Name:      "samples_processed_total",
			Help:      "Total number of samples scanned across channels",
		}),

		// Run metrics
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "runs_total",
			Help:      "Total number of detection runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Detection run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		// Ingest metrics
		ChannelsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "channels_ingested_total",
			Help:      "Total number of channels ingested into trace storage",
		}),
		SamplesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "samples_ingested_total",
			Help:      "Total number of samples ingested into trace storage",
		}),

		// Reporting metrics
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of result files written",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordChannelProcessed records a finished channel with its status and duration.
func RecordChannelProcessed(status string, seconds float64) {
	DefaultMetrics.ChannelsProcessed.WithLabelValues(status).Inc()
	DefaultMetrics.ChannelDuration.Observe(seconds)
}

// RecordEventsDetected adds n to the accepted events counter.
func RecordEventsDetected(n int) {
	DefaultMetrics.EventsDetected.Add(float64(n))
}

// RecordEventRejected increments the rejected regions counter for a reason.
func RecordEventRejected(reason string) {
	DefaultMetrics.EventsRejected.WithLabelValues(reason).Inc()
}

// RecordTraceReadError increments the trace read failure counter.
func RecordTraceReadError() {
	DefaultMetrics.TraceReadErrors.Inc()
}

// RecordSamplesProcessed adds n to the scanned samples counter.
func RecordSamplesProcessed(n int) {
	DefaultMetrics.SamplesProcessed.Add(float64(n))
}

// RecordRun records a completed detection run.
func RecordRun(status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordIngest records an ingested channel and its sample count.
func RecordIngest(samples int) {
	DefaultMetrics.ChannelsIngested.Inc()
	DefaultMetrics.SamplesIngested.Add(float64(samples))
}

// RecordReportGenerated increments the result files counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
