// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackline/judgeflow/models"
)

// Memory is a mutex-guarded AssignmentStore for tests and tiny events.
// It applies the same checks in the same order as the SQL store; the
// mutex plays the role of the transaction.
type Memory struct {
	mu          sync.Mutex
	assignments []models.Assignment
	busyFaults  int
}

func NewMemory() *Memory {
	return &Memory{}
}

// InjectBusy makes the next n ClaimSlot calls fail with ErrBusy. Used to
// exercise retry paths.
func (m *Memory) InjectBusy(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busyFaults = n
}

func (m *Memory) ClaimSlot(ctx context.Context, judgeEmail, teamID string, round, required int) (ClaimOutcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busyFaults > 0 {
		m.busyFaults--
		return 0, fmt.Errorf("%w: injected fault", ErrBusy)
	}

	// 1. Capacity.
	if m.roundCount(teamID, round) >= required {
		return ClaimTeamFull, nil
	}

	// 2. Other-judge active lock.
	for _, a := range m.assignments {
		if a.TeamID == teamID && a.Round == round && a.JudgeEmail != judgeEmail &&
			!a.Completed && a.LockedAt != nil {
			return ClaimLockedByOther, nil
		}
	}

	// 3. Re-count. A formality under the mutex, but the sequence matches
	// the SQL store so both backends answer identically.
	if m.roundCount(teamID, round) >= required {
		return ClaimTeamFull, nil
	}

	// 4. Insert or refresh.
	now := time.Now()
	for i := range m.assignments {
		a := &m.assignments[i]
		if a.JudgeEmail == judgeEmail && a.TeamID == teamID && a.Round == round {
			if a.Completed {
				return ClaimAlreadyJudged, nil
			}
			a.LockedAt = &now
			return ClaimLocked, nil
		}
	}
	m.assignments = append(m.assignments, models.Assignment{
		ID:         uuid.NewString(),
		JudgeEmail: judgeEmail,
		TeamID:     teamID,
		Round:      round,
		AssignedAt: now,
		LockedAt:   &now,
	})
	return ClaimLocked, nil
}

func (m *Memory) MarkCompleted(ctx context.Context, judgeEmail, teamID string, round int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var target *models.Assignment
	for i := range m.assignments {
		a := &m.assignments[i]
		if a.JudgeEmail != judgeEmail || a.TeamID != teamID {
			continue
		}
		if a.Round == round {
			target = a
		} else if a.Completed {
			return ErrDuplicateAssignment
		}
	}
	if target == nil {
		return ErrNotFound
	}
	if target.Completed {
		return nil
	}
	target.Completed = true
	target.LockedAt = nil
	return nil
}

func (m *Memory) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Assignment, len(m.assignments))
	copy(out, m.assignments)
	return out, nil
}

func (m *Memory) ListRound(ctx context.Context, round int) ([]models.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Assignment{}
	for _, a := range m.assignments {
		if a.Round == round {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) roundCount(teamID string, round int) int {
	count := 0
	for _, a := range m.assignments {
		if a.TeamID == teamID && a.Round == round {
			count++
		}
	}
	return count
}
