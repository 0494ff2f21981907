// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	gateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "replyforge",
		Name:      "gate_decisions_total",
		Help:      "Route authorization decisions by outcome.",
	}, []string{"decision"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "replyforge",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of calls to external services.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "operation", "outcome"})

	findAndReply = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "replyforge",
		Name:      "find_and_reply_total",
		Help:      "Find-and-reply invocations by outcome.",
	}, []string{"outcome"})

	repliesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "replyforge",
		Name:      "replies_posted_total",
		Help:      "Confirmed reply posts by outcome.",
	}, []string{"outcome"})

	panics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "replyforge",
		Name:      "http_panics_total",
		Help:      "Handler panics recovered and answered with a 500.",
	})

	staleReplies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "replyforge",
		Name:      "stale_replies_failed_total",
		Help:      "Reply queue items failed by the reaper after stalling in posting.",
	})
)

// Gate decision labels.
const (
	DecisionPublic  = "public"
	DecisionAllowed = "allowed"
	DecisionNoToken = "no_token"
	DecisionInvalid = "invalid_token"
)

// RecordGateDecision counts one gate outcome.
func RecordGateDecision(decision string) {
	gateDecisions.WithLabelValues(decision).Inc()
}

// ObserveUpstream records the duration of an external call started at start.
func ObserveUpstream(service, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamDuration.WithLabelValues(service, operation, outcome).Observe(time.Since(start).Seconds())
}

// RecordFindAndReply counts a find-and-reply outcome ("generated", "no_candidate", "error").
func RecordFindAndReply(outcome string) {
	findAndReply.WithLabelValues(outcome).Inc()
}

// RecordReplyPosted counts a confirmed post attempt ("posted" or "failed").
func RecordReplyPosted(outcome string) {
	repliesPosted.WithLabelValues(outcome).Inc()
}

// RecordPanic counts one recovered handler panic.
func RecordPanic() {
	panics.Inc()
}

// AddStaleReplies counts items failed by the reaper.
func AddStaleReplies(n int) {
	staleReplies.Add(float64(n))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
