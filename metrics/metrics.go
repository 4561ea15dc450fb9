// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Own registry so the endpoint serves only judgeflow metrics.
var registry = prometheus.NewRegistry()

var (
	claimsSucceeded = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "judgeflow",
		Subsystem: "engine",
		Name:      "claims_succeeded_total",
		Help:      "Judging slots successfully claimed.",
	})

	lockConflicts = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "judgeflow",
		Subsystem: "engine",
		Name:      "lock_conflicts_total",
		Help:      "Claim attempts rejected inside the transaction, by reason.",
	}, []string{"reason"})

	lockRetries = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "judgeflow",
		Subsystem: "engine",
		Name:      "lock_retries_total",
		Help:      "Claim attempts retried after transient storage contention.",
	})

	completions = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "judgeflow",
		Subsystem: "engine",
		Name:      "completions_total",
		Help:      "Assignments marked completed.",
	})

	duplicateCompletions = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "judgeflow",
		Subsystem: "engine",
		Name:      "duplicate_completions_total",
		Help:      "Completion attempts refused because the judge already judged the team.",
	})

	queueTerminals = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "judgeflow",
		Subsystem: "engine",
		Name:      "queue_results_total",
		Help:      "Terminal results of next-team requests, by status.",
	}, []string{"status"})

	requestDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "judgeflow",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// ClaimSucceeded counts a durably claimed slot.
func ClaimSucceeded() { claimsSucceeded.Inc() }

// LockConflict counts an in-transaction rejection ("team_full",
// "locked_by_other", "already_judged").
func LockConflict(reason string) { lockConflicts.WithLabelValues(reason).Inc() }

// LockRetried counts one busy-backend retry.
func LockRetried() { lockRetries.Inc() }

// Completed counts a completed assignment.
func Completed() { completions.Inc() }

// DuplicateCompletion counts a refused duplicate completion.
func DuplicateCompletion() { duplicateCompletions.Inc() }

// QueueResult counts the terminal status of a next-team request.
func QueueResult(status string) { queueTerminals.WithLabelValues(status).Inc() }

// ObserveRequest records one HTTP request's latency.
func ObserveRequest(method, path string, d time.Duration) {
	requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
