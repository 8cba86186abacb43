// Package telemetry exposes prometheus metrics for chat operations. The
// registry is served at /metrics by the app.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatterbox_messages_total",
		Help: "Messages admitted into the live session, by role.",
	}, []string{"role"})

	completionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatterbox_completions_total",
		Help: "Completion attempts by outcome (ok, request_failed, malformed, not_configured).",
	}, []string{"outcome"})

	completionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatterbox_completion_seconds",
		Help:    "Completion round-trip latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// CountMessage records a message admitted into the session.
func CountMessage(role string) {
	messagesTotal.WithLabelValues(role).Inc()
}

// ObserveCompletion records one completion attempt.
func ObserveCompletion(outcome string, d time.Duration) {
	completionsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		completionSeconds.Observe(d.Seconds())
	}
}
