// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flashlearn"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// CapabilityCallDuration times calls to the embedding and generation backends.
	CapabilityCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "capability",
			Name:      "call_duration_seconds",
			Help:      "Duration of embedding and generation calls",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"capability", "provider"},
	)

	CapabilityCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capability",
			Name:      "calls_total",
			Help:      "Total number of embedding and generation calls",
		},
		[]string{"capability", "provider", "status"},
	)

	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_used_total",
			Help:      "Total tokens used for generation calls",
		},
		[]string{"provider", "type"}, // type: prompt/completion
	)

	IndexOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "operation_duration_seconds",
			Help:      "Passage index operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"operation"},
	)

	IngestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "total",
			Help:      "Total number of ingestions by outcome",
		},
		[]string{"status"},
	)

	PassagesIndexed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "passages",
			Help:      "Passages produced per ingestion",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

// ObserveCapability records one embedding or generation call.
func ObserveCapability(capability, provider string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	CapabilityCallDuration.WithLabelValues(capability, provider).Observe(time.Since(start).Seconds())
	CapabilityCallsTotal.WithLabelValues(capability, provider, status).Inc()
}

// ObserveIndex records the duration of one passage index operation.
func ObserveIndex(operation string, start time.Time) {
	IndexOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
