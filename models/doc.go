// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - NextTeamRequest: round
  - SubmitScoreRequest: team_id, round, value, notes

# Response Types

Types for JSON responses:

  - NextTeamResponse: status, team, judge_count, message
  - SubmitScoreResponse: score_id, message
  - QueueStatsResponse: round, teams
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Team: read-only team listing (id, name, table, division)
  - Judge: read-only judge listing (email, name, role)
  - Assignment: one judging slot held by a judge for a team in a round
  - Score: one submitted evaluation
  - TeamQueueStat: per-team judge count and judge list

# Constants

Judge roles:

	RoleJudge = "judge"
	RoleAdmin = "admin"

Next-team terminal states:

	QueueAssigned    = "assigned"
	QueueAllComplete = "all_complete"
	QueueNoneForYou  = "none_for_you"
	QueueFailed      = "assignment_failed"
*/
package models
