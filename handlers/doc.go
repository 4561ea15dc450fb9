// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the judging API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - JudgingHandler: next-team requests and score submission
  - StatsHandler: queue statistics and team listing

Handlers are created via constructor functions that accept *sql.DB and
Config:

	judgingHandler := handlers.NewJudgingHandler(db, cfg)

The constructors build the assignment engine on top of the SQL-backed
store and registry; all assignment writes go through the engine.

# Judging Flow

Judges authenticate with X-Judge-Email and the X-Judge-Key HMAC:

	POST /judging/next  → NextTeam (body: {"round": N}, round optional)
	POST /judging/score → SubmitScore (body: team_id, round, value, notes)

NextTeam answers with one of four statuses:

	assigned           a team was claimed; go judge it
	all_complete       every team has its required judges this round
	none_for_you       teams remain, but none this judge can legally take
	assignment_failed  transient contention; retry (HTTP 503)

SubmitScore records the evaluation and marks the assignment completed.
It is idempotent per (judge, team, round); a detected cross-round
duplicate answers 409 rather than silently overwriting history.

# Projections

	GET /judging/stats?round=N → per-team judge counts and judge lists
	GET /teams                 → registry listing

Both are read-only and lock-free.
*/
package handlers
