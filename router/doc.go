// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the judging API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health and observability:

	GET /health
	GET /metrics

Judging (requires X-Judge-Email + X-Judge-Key):

	POST /judging/next  - Claim the next team to judge
	POST /judging/score - Submit a score and complete the assignment

Projections (public):

	GET /judging/stats - Per-team judge counts for a round
	GET /teams         - Team listing

# Handler Initialization

The router creates handler instances with dependency injection:

	judgingHandler := handlers.NewJudgingHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)

POST /judging/next additionally runs through a per-judge rate limiter.
*/
package router
