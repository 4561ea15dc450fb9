// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/hackline/judgeflow/models"
)

// ClaimOutcome is the result of a single attempt to claim a judging slot.
type ClaimOutcome int

const (
	// ClaimLocked: the slot was durably claimed for this judge.
	ClaimLocked ClaimOutcome = iota
	// ClaimTeamFull: the team already has its required judges this round.
	ClaimTeamFull
	// ClaimLockedByOther: another judge holds an uncompleted lock on the
	// team this round.
	ClaimLockedByOther
	// ClaimAlreadyJudged: this judge already completed this team. The
	// candidate is stale; the caller should pick another team.
	ClaimAlreadyJudged
)

func (o ClaimOutcome) String() string {
	switch o {
	case ClaimLocked:
		return "locked"
	case ClaimTeamFull:
		return "team_full"
	case ClaimLockedByOther:
		return "locked_by_other"
	case ClaimAlreadyJudged:
		return "already_judged"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy reports transient storage contention (SQLITE_BUSY, a
	// serialization failure). Safe to retry.
	ErrBusy = errors.New("assignment store busy")

	// ErrNotFound reports that no assignment row exists for the
	// (judge, team, round) triple.
	ErrNotFound = errors.New("assignment not found")

	// ErrDuplicateAssignment reports that the judge already has a
	// completed assignment for the team in a different round. This is an
	// invariant violation, not a normal conflict: refuse rather than
	// silently overwrite.
	ErrDuplicateAssignment = errors.New("judge already has a completed assignment for this team")
)

// AssignmentStore is the durable record of (judge, team, round) judging
// slots. ClaimSlot is the only operation that creates rows.
type AssignmentStore interface {
	// ClaimSlot atomically claims the (judge, team, round) slot. All
	// eligibility checks run inside one transaction, in a fixed order:
	// capacity count, other-judge lock check, capacity re-count, write,
	// read-back verification. Returns ErrBusy (possibly wrapped) when the
	// backend reports transient contention.
	ClaimSlot(ctx context.Context, judgeEmail, teamID string, round, required int) (ClaimOutcome, error)

	// MarkCompleted idempotently completes the (judge, team, round)
	// assignment and clears its lock. Returns ErrNotFound if no such row
	// exists and ErrDuplicateAssignment if the judge has a completed row
	// for the team in another round.
	MarkCompleted(ctx context.Context, judgeEmail, teamID string, round int) error

	// ListAssignments returns the full assignment history, all rounds.
	ListAssignments(ctx context.Context) ([]models.Assignment, error)

	// ListRound returns all assignment rows for one round.
	ListRound(ctx context.Context, round int) ([]models.Assignment, error)
}
