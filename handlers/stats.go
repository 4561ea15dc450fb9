// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hackline/judgeflow/cliparse"
	"github.com/hackline/judgeflow/engine"
	"github.com/hackline/judgeflow/middleware"
	"github.com/hackline/judgeflow/models"
	"github.com/hackline/judgeflow/registry"
	"github.com/hackline/judgeflow/store"
)

type StatsHandler struct {
	cfg      cliparse.Config
	engine   *engine.Engine
	registry *registry.Registry
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	reg := registry.New(db)
	return &StatsHandler{
		cfg:      cfg,
		engine:   engine.New(store.NewSQL(db, cfg.DatabaseType), reg),
		registry: reg,
	}
}

// QueueStats handles GET /judging/stats?round=N
// Read-only projection for dashboards; served without locking.
func (h *StatsHandler) QueueStats(w http.ResponseWriter, r *http.Request) {
	round := h.cfg.DefaultRound
	if v := r.URL.Query().Get("round"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "round must be a positive integer")
			return
		}
		round = n
	}

	stats, err := h.engine.Statistics(r.Context(), round)
	if err != nil {
		slog.Error("failed to compute queue statistics", "error", err, "round", round)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QueueStatsResponse{
		Round: round,
		Teams: stats,
	})
}

// ListTeams handles GET /teams
func (h *StatsHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.registry.ListTeams(r.Context())
	if err != nil {
		slog.Error("failed to list teams", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, teams)
}
