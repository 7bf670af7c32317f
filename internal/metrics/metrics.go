// Package metrics provides Prometheus metrics for domain analyses.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts analyses by mode (stream, complete) and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "analyst",
			Name:      "requests_total",
			Help:      "Total number of domain analyses",
		},
		[]string{"mode", "status"},
	)

	// RequestDuration measures analysis wall time.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "analyst",
			Name:      "request_duration_seconds",
			Help:      "Duration of domain analyses in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	// FlushesTotal counts snapshots delivered to update callbacks.
	FlushesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "analyst",
			Name:      "flushes_total",
			Help:      "Total number of coalesced snapshot flushes",
		},
	)

	// DecodeErrorsTotal counts stream lines dropped because they failed to parse.
	DecodeErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "analyst",
			Name:      "decode_errors_total",
			Help:      "Total number of unparseable stream lines",
		},
	)
)

// RecordRequest records a finished analysis.
func RecordRequest(mode, status string, seconds float64) {
	RequestsTotal.WithLabelValues(mode, status).Inc()
	RequestDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordFlush records one delivered snapshot.
func RecordFlush() {
	FlushesTotal.Inc()
}

// RecordDecodeError records one dropped stream line.
func RecordDecodeError() {
	DecodeErrorsTotal.Inc()
}
