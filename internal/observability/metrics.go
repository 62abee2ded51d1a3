// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the agent.
type Metrics struct {
	// Stream metrics
	StreamEventsReceived *prometheus.CounterVec
	StreamFramesDropped  prometheus.Counter
	StreamReconnects     prometheus.Counter
	StreamState          prometheus.Gauge

	// Trading metrics
	TradesSubmitted *prometheus.CounterVec
	TradesFailed    *prometheus.CounterVec
	TradeLatency    *prometheus.HistogramVec

	// Analysis metrics
	TokensAnalyzed   *prometheus.CounterVec
	AnalyzerLatency  prometheus.Histogram
	AnalyzerFailures prometheus.Counter

	// Storage metrics
	StoreWriteErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pump_agent"
	}

	return &Metrics{
		StreamEventsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "events_received_total",
			Help:      "Total number of stream events received by type",
		}, []string{"tx_type"}),
		StreamFramesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "frames_dropped_total",
			Help:      "Total number of malformed inbound frames dropped",
		}),
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Total number of reconnect attempts",
		}),
		StreamState: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "connection_state",
			Help:      "Current stream connection state (0=disconnected, 1=connecting, 2=connected, 3=reconnecting, 4=abandoned)",
		}),

		TradesSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "trades_submitted_total",
			Help:      "Total number of successful trade submissions by direction",
		}, []string{"direction"}),
		TradesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "trades_failed_total",
			Help:      "Total number of failed trade attempts by direction and failure class",
		}, []string{"direction", "failure_class"}),
		TradeLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "trade_latency_seconds",
			Help:      "End-to-end trade attempt latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"direction"}),

		TokensAnalyzed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "tokens_analyzed_total",
			Help:      "Total number of tokens analyzed by recommendation",
		}, []string{"recommendation"}),
		AnalyzerLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "analyzer_latency_seconds",
			Help:      "Analyzer round-trip latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		AnalyzerFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "analyzer_failures_total",
			Help:      "Total number of failed analysis requests",
		}),

		StoreWriteErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "write_errors_total",
			Help:      "Total number of storage write errors by store",
		}, []string{"store"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordStreamEvent increments the stream events counter for a tx type.
func RecordStreamEvent(txType string) {
	DefaultMetrics.StreamEventsReceived.WithLabelValues(txType).Inc()
}

// RecordFrameDropped increments the dropped frames counter.
func RecordFrameDropped() {
	DefaultMetrics.StreamFramesDropped.Inc()
}

// RecordReconnect increments the reconnect counter.
func RecordReconnect() {
	DefaultMetrics.StreamReconnects.Inc()
}

// SetStreamState updates the connection state gauge.
func SetStreamState(state int) {
	DefaultMetrics.StreamState.Set(float64(state))
}

// RecordTradeSubmitted increments the submitted trades counter.
func RecordTradeSubmitted(direction string) {
	DefaultMetrics.TradesSubmitted.WithLabelValues(direction).Inc()
}

// RecordTradeFailed increments the failed trades counter.
func RecordTradeFailed(direction, failureClass string) {
	DefaultMetrics.TradesFailed.WithLabelValues(direction, failureClass).Inc()
}

// RecordTradeLatency records an end-to-end trade attempt duration.
func RecordTradeLatency(direction string, seconds float64) {
	DefaultMetrics.TradeLatency.WithLabelValues(direction).Observe(seconds)
}

// RecordAnalysis records one analyzer round trip.
func RecordAnalysis(recommendation string, seconds float64) {
	DefaultMetrics.TokensAnalyzed.WithLabelValues(recommendation).Inc()
	DefaultMetrics.AnalyzerLatency.Observe(seconds)
}

// RecordAnalyzerFailure increments the analyzer failure counter.
func RecordAnalyzerFailure() {
	DefaultMetrics.AnalyzerFailures.Inc()
}

// RecordStoreWriteError increments the write error counter for a store.
func RecordStoreWriteError(store string) {
	DefaultMetrics.StoreWriteErrors.WithLabelValues(store).Inc()
}
