// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Judge role constants
const (
	RoleJudge = "judge"
	RoleAdmin = "admin"
)

// Terminal states of a next-team request
const (
	QueueAssigned    = "assigned"
	QueueAllComplete = "all_complete"
	QueueNoneForYou  = "none_for_you"
	QueueFailed      = "assignment_failed"
)

// DefaultJudgesPerTeam is the quota used when none is configured.
const DefaultJudgesPerTeam = 2

// Request types

type NextTeamRequest struct {
	Round int `json:"round"`
}

type SubmitScoreRequest struct {
	TeamID string  `json:"team_id"`
	Round  int     `json:"round"`
	Value  float64 `json:"value"`
	Notes  string  `json:"notes"`
}

// Response types

type NextTeamResponse struct {
	Status     string `json:"status"`
	Team       *Team  `json:"team,omitempty"`
	JudgeCount int    `json:"judge_count,omitempty"`
	Message    string `json:"message,omitempty"`
}

type SubmitScoreResponse struct {
	ScoreID string `json:"score_id"`
	Message string `json:"message"`
}

type QueueStatsResponse struct {
	Round int             `json:"round"`
	Teams []TeamQueueStat `json:"teams"`
}

// Domain types

type Team struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TableLocation string `json:"table_location,omitempty"`
	Division      string `json:"division,omitempty"`
}

type Judge struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Assignment records that a judge holds (or held) one judging slot for a
// team in a round. Rows are never deleted; they double as the audit trail
// that enforces the judge-never-sees-a-team-twice rule.
type Assignment struct {
	ID         string     `json:"id"`
	JudgeEmail string     `json:"judge_email"`
	TeamID     string     `json:"team_id"`
	Round      int        `json:"round"`
	AssignedAt time.Time  `json:"assigned_at"`
	LockedAt   *time.Time `json:"locked_at,omitempty"`
	Completed  bool       `json:"completed"`
}

type Score struct {
	ID         string    `json:"id"`
	JudgeEmail string    `json:"-"` // Never expose in JSON
	TeamID     string    `json:"team_id"`
	Round      int       `json:"round"`
	Value      float64   `json:"value"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TeamQueueStat is one row of the queue statistics projection: a team with
// its judge count for the round and the judges holding those slots.
type TeamQueueStat struct {
	Team       Team     `json:"team"`
	JudgeCount int      `json:"judge_count"`
	Completed  int      `json:"completed"`
	Judges     []string `json:"judges"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
