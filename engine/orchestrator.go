// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hackline/judgeflow/metrics"
	"github.com/hackline/judgeflow/models"
	"github.com/hackline/judgeflow/store"
)

// maxSelectRetries bounds how often a request re-selects after its
// candidate went stale (two judges racing for the same least-loaded
// team). Conflicts at this level are benign and a fresh selection almost
// always resolves them.
const maxSelectRetries = 3

// ErrDuplicateAssignment is re-exported so callers outside the engine can
// branch on the inconsistency case without importing the store.
var ErrDuplicateAssignment = store.ErrDuplicateAssignment

// TeamLister is the engine's read-only view of the team registry.
type TeamLister interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// NextTeam is the terminal result of one next-team request.
type NextTeam struct {
	Status     string // one of the models.Queue* constants
	Team       models.Team
	JudgeCount int // including the slot just claimed
}

// Engine is the queue orchestrator: select a candidate, claim it, retry
// on benign races, and distinguish the two kinds of "nothing left".
type Engine struct {
	store store.AssignmentStore
	teams TeamLister
	alloc *Allocator
}

func New(st store.AssignmentStore, teams TeamLister) *Engine {
	return &Engine{store: st, teams: teams, alloc: NewAllocator(st)}
}

// RequestNextTeam drives the end-to-end "give me my next team" sequence
// for one judge in one round.
func (e *Engine) RequestNextTeam(ctx context.Context, judgeEmail string, round, required int) (NextTeam, error) {
	for attempt := 0; attempt < maxSelectRetries; attempt++ {
		teams, err := e.teams.ListTeams(ctx)
		if err != nil {
			return e.failed(), fmt.Errorf("failed to list teams: %w", err)
		}
		history, err := e.store.ListAssignments(ctx)
		if err != nil {
			return e.failed(), fmt.Errorf("failed to load assignment history: %w", err)
		}

		candidate, ok := SelectCandidate(judgeEmail, round, teams, history, required)
		if !ok {
			// No team this judge can legally take. Event-wide
			// completion and judge-specific exhaustion look identical
			// to the selector; the round counts tell them apart.
			if allTeamsFull(teams, history, round, required) {
				metrics.QueueResult(models.QueueAllComplete)
				return NextTeam{Status: models.QueueAllComplete}, nil
			}
			metrics.QueueResult(models.QueueNoneForYou)
			return NextTeam{Status: models.QueueNoneForYou}, nil
		}

		result, err := e.alloc.Lock(ctx, judgeEmail, candidate.Team.ID, round, required)
		switch result {
		case LockAcquired:
			metrics.QueueResult(models.QueueAssigned)
			return NextTeam{
				Status:     models.QueueAssigned,
				Team:       candidate.Team,
				JudgeCount: candidate.JudgeCount + 1,
			}, nil
		case LockTeamFull, LockHeldByOther, LockStale:
			// Candidate went stale between selection and commit.
			slog.Info("candidate went stale, re-selecting",
				"judge", judgeEmail,
				"team", candidate.Team.ID,
				"round", round,
				"attempt", attempt+1,
			)
			continue
		default:
			metrics.QueueResult(models.QueueFailed)
			return e.failed(), err
		}
	}

	metrics.QueueResult(models.QueueFailed)
	return e.failed(), errors.New("assignment retries exhausted under contention")
}

func (e *Engine) failed() NextTeam {
	return NextTeam{Status: models.QueueFailed}
}

// CompleteAssignment idempotently marks the (judge, team, round) slot
// completed. It never creates rows and never re-checks capacity: the slot
// was legitimately claimed when the lock was taken.
func (e *Engine) CompleteAssignment(ctx context.Context, judgeEmail, teamID string, round int) error {
	err := e.store.MarkCompleted(ctx, judgeEmail, teamID, round)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateAssignment) {
			metrics.DuplicateCompletion()
		}
		return err
	}
	metrics.Completed()
	return nil
}

// Statistics is the read-side projection of the queue for one round:
// each team with its judge count and judge list. Served without locking;
// staleness is fine because nothing here feeds allocation decisions.
func (e *Engine) Statistics(ctx context.Context, round int) ([]models.TeamQueueStat, error) {
	teams, err := e.teams.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	rows, err := e.store.ListRound(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("failed to load round assignments: %w", err)
	}

	byTeam := make(map[string]*models.TeamQueueStat, len(teams))
	stats := make([]models.TeamQueueStat, 0, len(teams))
	for _, team := range teams {
		stats = append(stats, models.TeamQueueStat{Team: team, Judges: []string{}})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Team.ID < stats[j].Team.ID })
	for i := range stats {
		byTeam[stats[i].Team.ID] = &stats[i]
	}

	for _, a := range rows {
		stat, ok := byTeam[a.TeamID]
		if !ok {
			continue // team removed externally; history outlives the roster
		}
		stat.JudgeCount++
		stat.Judges = append(stat.Judges, a.JudgeEmail)
		if a.Completed {
			stat.Completed++
		}
	}

	return stats, nil
}

// allTeamsFull reports whether every team reached its judge quota for the
// round. An empty team list is vacuously full.
func allTeamsFull(teams []models.Team, history []models.Assignment, round, required int) bool {
	counts := make(map[string]int)
	for _, a := range history {
		if a.Round == round {
			counts[a.TeamID]++
		}
	}
	for _, team := range teams {
		if counts[team.ID] < required {
			return false
		}
	}
	return true
}
