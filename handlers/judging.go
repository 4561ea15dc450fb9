// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hackline/judgeflow/cliparse"
	"github.com/hackline/judgeflow/engine"
	"github.com/hackline/judgeflow/middleware"
	"github.com/hackline/judgeflow/models"
	"github.com/hackline/judgeflow/registry"
	"github.com/hackline/judgeflow/store"
)

type JudgingHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	engine   *engine.Engine
	registry *registry.Registry
}

func NewJudgingHandler(db *sql.DB, cfg cliparse.Config) *JudgingHandler {
	st := store.NewSQL(db, cfg.DatabaseType)
	reg := registry.New(db)
	return &JudgingHandler{
		db:       db,
		cfg:      cfg,
		engine:   engine.New(st, reg),
		registry: reg,
	}
}

// identify resolves the requesting judge or writes the error response.
func (h *JudgingHandler) identify(w http.ResponseWriter, r *http.Request) (string, bool) {
	email, err := middleware.JudgeFromRequest(r, h.cfg.JudgeKeySalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Judge-Email and X-Judge-Key headers required")
		return "", false
	}

	_, found, err := h.registry.GetJudge(r.Context(), email)
	if err != nil {
		slog.Error("failed to look up judge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", false
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not a registered judge for this event")
		return "", false
	}
	return email, true
}

// round applies the configured default when the request omits one.
func (h *JudgingHandler) round(requested int) int {
	if requested == 0 {
		return h.cfg.DefaultRound
	}
	return requested
}

// NextTeam handles POST /judging/next
func (h *JudgingHandler) NextTeam(w http.ResponseWriter, r *http.Request) {
	email, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req models.NextTeamRequest
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}
	if req.Round < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round must not be negative")
		return
	}
	round := h.round(req.Round)

	next, err := h.engine.RequestNextTeam(r.Context(), email, round, h.cfg.JudgesPerTeam)
	if err != nil {
		slog.Error("next-team request failed", "error", err, "judge", email, "round", round)
	}

	switch next.Status {
	case models.QueueAssigned:
		slog.Info("team assigned", "judge", email, "team", next.Team.ID, "round", round, "judge_count", next.JudgeCount)
		middleware.JSONResponse(w, http.StatusOK, models.NextTeamResponse{
			Status:     models.QueueAssigned,
			Team:       &next.Team,
			JudgeCount: next.JudgeCount,
		})
	case models.QueueAllComplete:
		middleware.JSONResponse(w, http.StatusOK, models.NextTeamResponse{
			Status:  models.QueueAllComplete,
			Message: "All teams have been fully judged this round",
		})
	case models.QueueNoneForYou:
		middleware.JSONResponse(w, http.StatusOK, models.NextTeamResponse{
			Status:  models.QueueNoneForYou,
			Message: "No more teams available for you - other judges are finishing the rest",
		})
	default:
		// Retries exhausted or storage down. Details stay in the log.
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Could not assign a team right now - please try again")
	}
}

// SubmitScore handles POST /judging/score
// Persists the evaluation and marks the assignment completed.
func (h *JudgingHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	email, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req models.SubmitScoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TeamID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "team_id is required")
		return
	}
	if req.Round < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round must not be negative")
		return
	}
	round := h.round(req.Round)

	_, found, err := h.registry.GetTeam(r.Context(), req.TeamID)
	if err != nil {
		slog.Error("failed to look up team", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return
	}

	// The score only makes sense against a claimed slot.
	var exists bool
	err = h.db.QueryRowContext(r.Context(), `
		SELECT EXISTS(
			SELECT 1 FROM assignment
			WHERE judge_email = $1 AND team_id = $2 AND round = $3
		)
	`, email, req.TeamID, round).Scan(&exists)
	if err != nil {
		slog.Error("failed to verify assignment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "You have no assignment for this team in this round")
		return
	}

	scoreID, err := h.saveScore(r, email, req, round)
	if err != nil {
		slog.Error("failed to save score", "error", err, "judge", email, "team", req.TeamID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	err = h.engine.CompleteAssignment(r.Context(), email, req.TeamID, round)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "You have no assignment for this team in this round")
		return
	}
	if errors.Is(err, engine.ErrDuplicateAssignment) {
		// The judge has a completed record for this team in another
		// round. That should be impossible; report it instead of
		// overwriting history.
		slog.Error("duplicate assignment detected at completion",
			"judge", email, "team", req.TeamID, "round", round)
		middleware.ErrorResponse(w, http.StatusConflict, "Duplicate assignment detected - contact an organizer")
		return
	}
	if err != nil {
		slog.Error("failed to complete assignment", "error", err, "judge", email, "team", req.TeamID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to complete assignment")
		return
	}

	slog.Info("score submitted", "judge", email, "team", req.TeamID, "round", round, "score_id", scoreID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitScoreResponse{
		ScoreID: scoreID,
		Message: "Score recorded",
	})
}

// saveScore upserts the score row for (judge, team, round). Resubmission
// replaces the previous value, mirroring the idempotent completion.
func (h *JudgingHandler) saveScore(r *http.Request, email string, req models.SubmitScoreRequest, round int) (string, error) {
	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var scoreID string
	err = tx.QueryRowContext(r.Context(), `
		SELECT id FROM score WHERE judge_email = $1 AND team_id = $2 AND round = $3
	`, email, req.TeamID, round).Scan(&scoreID)

	switch {
	case err == sql.ErrNoRows:
		score := models.Score{
			ID:         uuid.NewString(),
			JudgeEmail: email,
			TeamID:     req.TeamID,
			Round:      round,
			Value:      req.Value,
			Notes:      req.Notes,
			CreatedAt:  time.Now(),
		}
		scoreID = score.ID
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO score (id, judge_email, team_id, round, value, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, score.ID, score.JudgeEmail, score.TeamID, score.Round, score.Value, score.Notes, score.CreatedAt)
		if err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		_, err = tx.ExecContext(r.Context(), `
			UPDATE score SET value = $1, notes = $2, created_at = $3 WHERE id = $4
		`, req.Value, req.Notes, time.Now(), scoreID)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return scoreID, nil
}
