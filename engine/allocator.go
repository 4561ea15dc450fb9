// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hackline/judgeflow/metrics"
	"github.com/hackline/judgeflow/store"
)

// LockResult is the outcome of a lock attempt after busy-retries.
type LockResult int

const (
	// LockAcquired: the slot is claimed.
	LockAcquired LockResult = iota
	// LockTeamFull: the team filled up underneath us.
	LockTeamFull
	// LockHeldByOther: another judge holds an active lock.
	LockHeldByOther
	// LockStale: the candidate was stale (judge already judged the team).
	LockStale
	// LockFailed: storage kept reporting contention past the retry
	// ceiling, or failed outright.
	LockFailed
)

const (
	// maxClaimAttempts bounds busy-retries of a single claim.
	maxClaimAttempts = 10
	// claimBaseDelay seeds the jittered exponential backoff.
	claimBaseDelay = 25 * time.Millisecond
)

// Allocator claims judging slots through the store, retrying transient
// contention with jittered exponential backoff. Capacity and lock
// conflicts are not retried here - they mean the candidate is stale, and
// re-selection is the orchestrator's job.
type Allocator struct {
	store     store.AssignmentStore
	maxTries  uint64
	baseDelay time.Duration
}

func NewAllocator(st store.AssignmentStore) *Allocator {
	return &Allocator{store: st, maxTries: maxClaimAttempts, baseDelay: claimBaseDelay}
}

// Lock attempts to durably claim (judge, team, round).
func (a *Allocator) Lock(ctx context.Context, judgeEmail, teamID string, round, required int) (LockResult, error) {
	var outcome store.ClaimOutcome

	operation := func() error {
		var err error
		outcome, err = a.store.ClaimSlot(ctx, judgeEmail, teamID, round, required)
		if err != nil {
			if errors.Is(err, store.ErrBusy) {
				metrics.LockRetried()
				slog.Warn("claim hit busy backend, retrying",
					"judge", judgeEmail,
					"team", teamID,
					"round", round,
				)
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = a.baseDelay
	policy.MaxInterval = 500 * time.Millisecond

	err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.WithContext(policy, ctx), a.maxTries-1))
	if err != nil {
		return LockFailed, err
	}

	switch outcome {
	case store.ClaimLocked:
		metrics.ClaimSucceeded()
		return LockAcquired, nil
	case store.ClaimTeamFull:
		metrics.LockConflict(outcome.String())
		return LockTeamFull, nil
	case store.ClaimLockedByOther:
		metrics.LockConflict(outcome.String())
		return LockHeldByOther, nil
	case store.ClaimAlreadyJudged:
		metrics.LockConflict(outcome.String())
		return LockStale, nil
	default:
		return LockFailed, errors.New("unknown claim outcome")
	}
}
