// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hackline/judgeflow/models"
	"github.com/hackline/judgeflow/testutil"
)

// TestConcurrentNextTeamSingleTeam races eight HTTP requests at one team
// with a quota of two, through the real handler and the real database.
// Each wave must admit exactly one judge; the losers get either a
// terminal 200 (quota filled, nothing legal left) or the retryable 503.
func TestConcurrentNextTeamSingleTeam(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewJudgingHandler(conn, testutil.GetTestConfig())

	testutil.CreateTestTeam(t, conn, "t1", "Alpha")
	judges := make([]string, 8)
	for i := range judges {
		judges[i] = fmt.Sprintf("judge%d@x.com", i)
		testutil.CreateTestJudge(t, conn, judges[i])
	}

	for wave := 0; wave < 2; wave++ {
		var mu sync.Mutex
		var wg sync.WaitGroup
		winners := []string{}

		for _, judge := range judges {
			wg.Add(1)
			go func(judge string) {
				defer wg.Done()
				req := testutil.MakeRequest("POST", "/judging/next", nil, testutil.JudgeHeaders(judge))
				w := httptest.NewRecorder()
				handler.NextTeam(w, req)

				switch w.Code {
				case http.StatusOK:
					var resp models.NextTeamResponse
					testutil.AssertJSON(t, w, &resp)
					if resp.Status == models.QueueAssigned {
						mu.Lock()
						winners = append(winners, judge)
						mu.Unlock()
					}
				case http.StatusServiceUnavailable:
					// Re-selection lost every round to the winner's lock.
				default:
					t.Errorf("%s: unexpected status %d: %s", judge, w.Code, w.Body.String())
				}
			}(judge)
		}
		wg.Wait()

		if len(winners) != 1 {
			t.Fatalf("Wave %d: expected exactly 1 assignment, got %d (%v)", wave+1, len(winners), winners)
		}

		// The winner scores, freeing the team for the next wave.
		score := models.SubmitScoreRequest{TeamID: "t1", Round: 1, Value: 7.5}
		req := testutil.MakeRequest("POST", "/judging/score", score, testutil.JudgeHeaders(winners[0]))
		w := httptest.NewRecorder()
		handler.SubmitScore(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	// Quota reached: no more rows than the two waves produced.
	if n := testutil.CountRows(t, conn, "SELECT COUNT(*) FROM assignment"); n != 2 {
		t.Fatalf("Expected exactly 2 assignment rows, got %d", n)
	}
	if n := testutil.CountRows(t, conn, "SELECT COUNT(*) FROM assignment WHERE completed = TRUE"); n != 2 {
		t.Errorf("Expected both assignments completed, got %d", n)
	}

	req := testutil.MakeRequest("POST", "/judging/next", nil, testutil.JudgeHeaders(judges[0]))
	w := httptest.NewRecorder()
	handler.NextTeam(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.NextTeamResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != models.QueueAllComplete {
		t.Errorf("Expected %s after quota filled, got %s", models.QueueAllComplete, resp.Status)
	}
}

// TestConcurrentEventDrain runs four judges over six teams concurrently
// until everyone is told the event is complete, then audits the rows.
func TestConcurrentEventDrain(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewJudgingHandler(conn, testutil.GetTestConfig())

	const numTeams = 6
	for i := 0; i < numTeams; i++ {
		id := fmt.Sprintf("t%02d", i)
		testutil.CreateTestTeam(t, conn, id, "Team "+id)
	}
	judges := make([]string, 4)
	for i := range judges {
		judges[i] = fmt.Sprintf("judge%d@x.com", i)
		testutil.CreateTestJudge(t, conn, judges[i])
	}

	var wg sync.WaitGroup
	for _, judge := range judges {
		wg.Add(1)
		go func(judge string) {
			defer wg.Done()
			for attempt := 0; attempt < 300; attempt++ {
				req := testutil.MakeRequest("POST", "/judging/next", nil, testutil.JudgeHeaders(judge))
				w := httptest.NewRecorder()
				handler.NextTeam(w, req)
				if w.Code == http.StatusServiceUnavailable {
					// Contended; ask again.
					continue
				}
				if w.Code != http.StatusOK {
					t.Errorf("%s: status %d: %s", judge, w.Code, w.Body.String())
					return
				}
				var resp models.NextTeamResponse
				testutil.AssertJSON(t, w, &resp)

				switch resp.Status {
				case models.QueueAssigned:
					score := models.SubmitScoreRequest{TeamID: resp.Team.ID, Round: 1, Value: 5}
					sreq := testutil.MakeRequest("POST", "/judging/score", score, testutil.JudgeHeaders(judge))
					sw := httptest.NewRecorder()
					handler.SubmitScore(sw, sreq)
					if sw.Code != http.StatusCreated {
						t.Errorf("%s: score for %s failed with %d: %s", judge, resp.Team.ID, sw.Code, sw.Body.String())
						return
					}
				case models.QueueAllComplete:
					return
				case models.QueueNoneForYou:
					// Another judge may free a slot; keep asking.
				default:
					t.Errorf("%s: unexpected status %s", judge, resp.Status)
					return
				}
			}
			t.Errorf("%s never saw event completion", judge)
		}(judge)
	}
	wg.Wait()

	if n := testutil.CountRows(t, conn, "SELECT COUNT(*) FROM assignment"); n != numTeams*2 {
		t.Fatalf("Expected %d assignments, got %d", numTeams*2, n)
	}
	if n := testutil.CountRows(t, conn, "SELECT COUNT(*) FROM assignment WHERE completed = FALSE"); n != 0 {
		t.Errorf("Expected everything completed, %d rows still open", n)
	}
	// Exactly two judges per team, no repeats (the unique constraint
	// guarantees no repeats; the count guards over-assignment).
	for i := 0; i < numTeams; i++ {
		id := fmt.Sprintf("t%02d", i)
		if n := testutil.CountRows(t, conn, "SELECT COUNT(*) FROM assignment WHERE team_id = $1", id); n != 2 {
			t.Errorf("Team %s has %d judges, expected 2", id, n)
		}
	}
}
