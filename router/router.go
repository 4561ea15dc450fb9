// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/hackline/judgeflow/cliparse"
	"github.com/hackline/judgeflow/handlers"
	"github.com/hackline/judgeflow/metrics"
	"github.com/hackline/judgeflow/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	judgingHandler := handlers.NewJudgingHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)

	// Generous limit: real judges click at most every few seconds.
	throttle := middleware.NewJudgeThrottle(2, 5)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	mux.Handle("GET /metrics", metrics.Handler())

	// Judging operations (require judge identity headers)
	mux.HandleFunc("POST /judging/next", middleware.WithLogging(throttle.Wrap(judgingHandler.NextTeam)))
	mux.HandleFunc("POST /judging/score", middleware.WithLogging(judgingHandler.SubmitScore))

	// Read-side projections (public)
	mux.HandleFunc("GET /judging/stats", middleware.WithLogging(statsHandler.QueueStats))
	mux.HandleFunc("GET /teams", middleware.WithLogging(statsHandler.ListTeams))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("judgeflow API v1"))
	})

	return mux
}
