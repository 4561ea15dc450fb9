// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine assigns judges to teams.

The engine enforces three rules:

  - a judge never judges the same team twice, across all rounds
  - a team receives exactly the required number of judges per round
  - load balances toward the least-judged team first

and it must keep doing so when many judges request work at once.

# Components

SelectCandidate is a pure function: given the team list and the full
assignment history it returns the best next team for a judge, or none.
Being read-only, it can run concurrently without coordination; its answer
is only advisory.

Allocator turns a candidate into a durable claim via the store's
transactional ClaimSlot, retrying transient backend contention with
jittered exponential backoff (up to 10 attempts). Capacity and lock
conflicts are not retried here: they mean the candidate went stale.

Engine (the orchestrator) ties them together:

	eng := engine.New(st, reg)
	next, err := eng.RequestNextTeam(ctx, "judge@example.com", round, required)
	switch next.Status {
	case models.QueueAssigned:     // go judge next.Team
	case models.QueueAllComplete:  // every team has its judges
	case models.QueueNoneForYou:   // others still need judges, you're done
	case models.QueueFailed:       // try again later
	}

When a claim loses a race (two judges picked the same least-loaded team),
the orchestrator re-selects with fresh state, up to 3 times, before
giving up with QueueFailed.

# Completion

CompleteAssignment marks a claimed slot done. It is idempotent, and it
refuses with ErrDuplicateAssignment when the judge somehow already
completed the team in another round - that indicates a bug in the
allocation path and is reported rather than absorbed.

# Configuration

Round number and required-judges-per-team are plain parameters on every
call. The engine holds no event state, which makes arbitrary
configurations trivial to test.
*/
package engine
