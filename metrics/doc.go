// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus instrumentation for the assignment
engine and the HTTP layer.

All metrics live on a private registry served by Handler, so the
/metrics endpoint carries only judgeflow series:

	mux.Handle("GET /metrics", metrics.Handler())

Engine counters:

	judgeflow_engine_claims_succeeded_total
	judgeflow_engine_lock_conflicts_total{reason}
	judgeflow_engine_lock_retries_total
	judgeflow_engine_completions_total
	judgeflow_engine_duplicate_completions_total
	judgeflow_engine_queue_results_total{status}

HTTP:

	judgeflow_http_request_duration_seconds{method,path}
*/
package metrics
