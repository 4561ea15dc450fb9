// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"sort"

	"github.com/hackline/judgeflow/models"
)

// Candidate is a team eligible to be offered to a judge, with the team's
// current judge count for the round.
type Candidate struct {
	Team       models.Team
	JudgeCount int
}

// SelectCandidate picks the best next team for a judge, or reports that
// none exists. Pure function over the inputs: it reads the full
// assignment history and never mutates anything, so concurrent callers
// are safe and every claim is re-validated later inside the store
// transaction anyway.
//
// Exclusions, in order:
//  1. teams the judge has EVER been assigned, any round
//  2. teams the judge holds in the current round (implied by 1, kept as a
//     separate guard against partial failures)
//  3. teams already at the required judge count for the round
//
// Survivors are ordered by (judge count ascending, team ID ascending) so
// the least-loaded team wins and ties break deterministically.
func SelectCandidate(judgeEmail string, round int, teams []models.Team, history []models.Assignment, required int) (Candidate, bool) {
	everJudged := make(map[string]bool)
	heldThisRound := make(map[string]bool)
	roundCounts := make(map[string]int)

	for _, a := range history {
		if a.JudgeEmail == judgeEmail {
			everJudged[a.TeamID] = true
			if a.Round == round {
				heldThisRound[a.TeamID] = true
			}
		}
		if a.Round == round {
			roundCounts[a.TeamID]++
		}
	}

	candidates := []Candidate{}
	for _, team := range teams {
		if everJudged[team.ID] || heldThisRound[team.ID] {
			continue
		}
		if roundCounts[team.ID] >= required {
			continue
		}
		candidates = append(candidates, Candidate{Team: team, JudgeCount: roundCounts[team.ID]})
	}

	if len(candidates) == 0 {
		return Candidate{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].JudgeCount != candidates[j].JudgeCount {
			return candidates[i].JudgeCount < candidates[j].JudgeCount
		}
		return candidates[i].Team.ID < candidates[j].Team.ID
	})

	return candidates[0], true
}
