// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists judge-team assignments.

# AssignmentStore

The AssignmentStore interface is the only mutation path for assignment
rows. Two implementations ship:

  - SQL: database/sql-backed, for PostgreSQL and SQLite
  - Memory: mutex-guarded in-process store for tests and tiny events

# Claiming a Slot

ClaimSlot runs the full eligibility sequence inside one transaction:

	outcome, err := st.ClaimSlot(ctx, "judge@example.com", "team-1", 1, 2)

The sequence is fixed: count current assignments for the (team, round),
reject if at quota; reject if another judge holds an uncompleted lock;
re-count immediately before writing; insert the row (or refresh this
judge's own uncompleted lock); read the row back and verify ownership.
Outcomes:

	ClaimLocked         slot claimed
	ClaimTeamFull       team at quota this round
	ClaimLockedByOther  another judge holds an active lock
	ClaimAlreadyJudged  this judge already completed this team

Transient backend contention (SQLITE_BUSY, serialization failures,
deadlocks) is normalized to ErrBusy so callers can retry with backoff.

# Completion

MarkCompleted is idempotent:

	err := st.MarkCompleted(ctx, judge, team, round)

It returns ErrNotFound when no row exists for the triple, and
ErrDuplicateAssignment when the judge already completed this team in a
different round - an invariant violation reported loudly rather than
absorbed.

# Reads

ListAssignments and ListRound run outside transactions. They feed the
candidate selector and the statistics projection; slight staleness is
acceptable because allocation decisions are always re-validated inside
ClaimSlot.
*/
package store
