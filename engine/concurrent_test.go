// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hackline/judgeflow/models"
	"github.com/hackline/judgeflow/store"
)

// TestConcurrentClaimSingleTeam stampedes eight judges at one team with a
// quota of two. An active lock serializes co-judging, so each wave admits
// exactly one judge; after two claim-and-complete waves the team is full.
func TestConcurrentClaimSingleTeam(t *testing.T) {
	mem := store.NewMemory()
	eng := testEngine(mem, team("t1"))
	ctx := context.Background()

	winners := []string{}
	for wave := 0; wave < 2; wave++ {
		var mu sync.Mutex
		var wg sync.WaitGroup
		assigned := []string{}

		for i := 0; i < 8; i++ {
			judge := fmt.Sprintf("judge%d@x.com", i)
			wg.Add(1)
			go func() {
				defer wg.Done()
				next, _ := eng.RequestNextTeam(ctx, judge, 1, 2)
				switch next.Status {
				case models.QueueAssigned:
					mu.Lock()
					assigned = append(assigned, judge)
					mu.Unlock()
				case models.QueueFailed:
					// Lost every re-selection to the winner's lock; the
					// client retries, here in the next wave.
				case models.QueueNoneForYou, models.QueueAllComplete:
					// The winner's claim already filled the quota, or the
					// judge holds nothing it can legally take.
				default:
					t.Errorf("%s got unexpected status %s", judge, next.Status)
				}
			}()
		}
		wg.Wait()

		if len(assigned) != 1 {
			t.Fatalf("Wave %d: expected exactly 1 winner, got %d (%v)", wave+1, len(assigned), assigned)
		}
		if err := eng.CompleteAssignment(ctx, assigned[0], "t1", 1); err != nil {
			t.Fatalf("Wave %d completion failed: %v", wave+1, err)
		}
		winners = append(winners, assigned[0])
	}

	if winners[0] == winners[1] {
		t.Errorf("Same judge won both slots: %s", winners[0])
	}

	rows, _ := mem.ListRound(ctx, 1)
	if len(rows) != 2 {
		t.Fatalf("Expected exactly 2 assignment rows, got %d", len(rows))
	}

	// Quota reached: everyone is told the event is complete.
	next, err := eng.RequestNextTeam(ctx, "late@x.com", 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if next.Status != models.QueueAllComplete {
		t.Errorf("Expected %s after quota filled, got %s", models.QueueAllComplete, next.Status)
	}
}

// TestConcurrentFullEventDrain runs eight judges concurrently against
// twenty teams until every judge sees completion, then audits the ledger:
// exactly quota slots per team, no judge on the same team twice,
// everything completed.
func TestConcurrentFullEventDrain(t *testing.T) {
	const (
		numTeams  = 20
		numJudges = 8
		quota     = 2
	)

	mem := store.NewMemory()
	teams := make([]models.Team, 0, numTeams)
	for i := 0; i < numTeams; i++ {
		teams = append(teams, team(fmt.Sprintf("t%02d", i)))
	}
	eng := testEngine(mem, teams...)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < numJudges; i++ {
		judge := fmt.Sprintf("judge%d@x.com", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			// A judge that finds nothing right now retries: another
			// judge's completion may open a slot. Bounded so a logic bug
			// fails the test instead of hanging it.
			for attempt := 0; attempt < 500; attempt++ {
				next, _ := eng.RequestNextTeam(ctx, judge, 1, quota)
				switch next.Status {
				case models.QueueAssigned:
					if err := eng.CompleteAssignment(ctx, judge, next.Team.ID, 1); err != nil {
						t.Errorf("%s complete %s: %v", judge, next.Team.ID, err)
						return
					}
				case models.QueueAllComplete:
					return
				case models.QueueNoneForYou, models.QueueFailed:
					// Loop again; slots may free up, locks may clear.
				default:
					t.Errorf("%s got unexpected status %s", judge, next.Status)
					return
				}
			}
			t.Errorf("%s never saw event completion", judge)
		}()
	}
	wg.Wait()

	rows, err := mem.ListRound(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != numTeams*quota {
		t.Fatalf("Expected %d assignments, got %d", numTeams*quota, len(rows))
	}

	perTeam := map[string]int{}
	pairs := map[string]bool{}
	for _, a := range rows {
		if !a.Completed {
			t.Errorf("Assignment %s/%s left incomplete", a.JudgeEmail, a.TeamID)
		}
		perTeam[a.TeamID]++
		pair := a.JudgeEmail + "/" + a.TeamID
		if pairs[pair] {
			t.Errorf("Duplicate assignment %s", pair)
		}
		pairs[pair] = true
	}
	for _, tm := range teams {
		if perTeam[tm.ID] != quota {
			t.Errorf("Team %s has %d judges, expected %d", tm.ID, perTeam[tm.ID], quota)
		}
	}
}
