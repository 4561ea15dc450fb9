// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/hackline/judgeflow/store"
)

// fastAllocator keeps backoff delays out of test runtime.
func fastAllocator(st store.AssignmentStore) *Allocator {
	return &Allocator{store: st, maxTries: maxClaimAttempts, baseDelay: time.Millisecond}
}

func TestAllocatorLockSuccess(t *testing.T) {
	mem := store.NewMemory()
	alloc := fastAllocator(mem)

	result, err := alloc.Lock(context.Background(), "a@x.com", "t1", 1, 2)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if result != LockAcquired {
		t.Errorf("Expected LockAcquired, got %v", result)
	}

	rows, err := mem.ListRound(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRound failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 assignment row, got %d", len(rows))
	}
	if rows[0].LockedAt == nil || rows[0].Completed {
		t.Error("Expected row in locked, not completed state")
	}
}

func TestAllocatorRetriesBusyBackend(t *testing.T) {
	mem := store.NewMemory()
	mem.InjectBusy(3)
	alloc := fastAllocator(mem)

	result, err := alloc.Lock(context.Background(), "a@x.com", "t1", 1, 2)
	if err != nil {
		t.Fatalf("Expected busy faults to be retried away: %v", err)
	}
	if result != LockAcquired {
		t.Errorf("Expected LockAcquired after retries, got %v", result)
	}
}

func TestAllocatorGivesUpAfterRetryCeiling(t *testing.T) {
	mem := store.NewMemory()
	mem.InjectBusy(maxClaimAttempts + 5)
	alloc := fastAllocator(mem)

	result, err := alloc.Lock(context.Background(), "a@x.com", "t1", 1, 2)
	if result != LockFailed {
		t.Errorf("Expected LockFailed, got %v", result)
	}
	if err == nil {
		t.Error("Expected an error after exhausting retries")
	}

	// A failed lock must leave nothing behind.
	rows, _ := mem.ListAssignments(context.Background())
	if len(rows) != 0 {
		t.Errorf("Expected no rows after failed lock, got %d", len(rows))
	}
}

func TestAllocatorTeamFull(t *testing.T) {
	mem := store.NewMemory()
	alloc := fastAllocator(mem)
	ctx := context.Background()

	if _, err := mem.ClaimSlot(ctx, "b@x.com", "t1", 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := mem.MarkCompleted(ctx, "b@x.com", "t1", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.ClaimSlot(ctx, "c@x.com", "t1", 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := mem.MarkCompleted(ctx, "c@x.com", "t1", 1); err != nil {
		t.Fatal(err)
	}

	result, err := alloc.Lock(ctx, "a@x.com", "t1", 1, 2)
	if err != nil {
		t.Fatalf("Lock errored: %v", err)
	}
	if result != LockTeamFull {
		t.Errorf("Expected LockTeamFull, got %v", result)
	}
}

func TestAllocatorHeldByOther(t *testing.T) {
	mem := store.NewMemory()
	alloc := fastAllocator(mem)
	ctx := context.Background()

	// b holds an uncompleted lock; a must be turned away even though the
	// team is below quota.
	if _, err := mem.ClaimSlot(ctx, "b@x.com", "t1", 1, 2); err != nil {
		t.Fatal(err)
	}

	result, err := alloc.Lock(ctx, "a@x.com", "t1", 1, 2)
	if err != nil {
		t.Fatalf("Lock errored: %v", err)
	}
	if result != LockHeldByOther {
		t.Errorf("Expected LockHeldByOther, got %v", result)
	}
}

func TestAllocatorReacquiresOwnLock(t *testing.T) {
	mem := store.NewMemory()
	alloc := fastAllocator(mem)
	ctx := context.Background()

	if res, err := alloc.Lock(ctx, "a@x.com", "t1", 1, 2); err != nil || res != LockAcquired {
		t.Fatalf("First lock failed: %v %v", res, err)
	}
	// Crashed session, same judge asks again: own lock is not a blocker.
	res, err := alloc.Lock(ctx, "a@x.com", "t1", 1, 2)
	if err != nil {
		t.Fatalf("Re-acquire errored: %v", err)
	}
	if res != LockAcquired {
		t.Errorf("Expected own lock re-acquired, got %v", res)
	}

	rows, _ := mem.ListRound(ctx, 1)
	if len(rows) != 1 {
		t.Errorf("Re-acquire must not create a second row, got %d", len(rows))
	}
}

func TestAllocatorStaleCandidate(t *testing.T) {
	mem := store.NewMemory()
	alloc := fastAllocator(mem)
	ctx := context.Background()

	if _, err := mem.ClaimSlot(ctx, "a@x.com", "t1", 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := mem.MarkCompleted(ctx, "a@x.com", "t1", 1); err != nil {
		t.Fatal(err)
	}

	// Same judge, same team, same round, after completion: stale.
	result, err := alloc.Lock(ctx, "a@x.com", "t1", 1, 2)
	if err != nil {
		t.Fatalf("Lock errored: %v", err)
	}
	if result != LockStale {
		t.Errorf("Expected LockStale, got %v", result)
	}
}

func TestAllocatorContextCancellation(t *testing.T) {
	mem := store.NewMemory()
	mem.InjectBusy(maxClaimAttempts + 5)
	alloc := fastAllocator(mem)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := alloc.Lock(ctx, "a@x.com", "t1", 1, 2)
	if result != LockFailed {
		t.Errorf("Expected LockFailed on cancelled context, got %v", result)
	}
	if err == nil {
		t.Error("Expected an error on cancelled context")
	}
}
