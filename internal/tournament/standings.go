package tournament

import (
	"sort"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
)

// #region compute
// ComputeStandings derives cumulative win/tie/loss counts from round
// records. A tie counts as a tie for every participant, never a loss; an
// absent (inconclusive) round counts for no one.
func ComputeStandings(records []round.Record, players []string) Standings {
	standings := make(Standings, len(players))
	for _, p := range players {
		standings[p] = Line{}
	}

	for _, rec := range records {
		if rec.State != round.StateComplete || rec.Result == nil {
			continue
		}
		switch rec.Result.Outcome {
		case arena.OutcomeWin:
			winner := *rec.Result.Winner
			for _, p := range players {
				line := standings[p]
				if p == winner {
					line.Wins++
				} else {
					line.Losses++
				}
				standings[p] = line
			}
		case arena.OutcomeTie:
			for _, p := range players {
				line := standings[p]
				line.Ties++
				standings[p] = line
			}
		case arena.OutcomeAbsent:
			// Inconclusive: no one is charged.
		}
	}
	return standings
}

// #endregion compute

// #region order
// Order returns player names sorted by wins descending, then ties, then
// name for stability.
func (s Standings) Order() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s[names[i]], s[names[j]]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Ties != b.Ties {
			return a.Ties > b.Ties
		}
		return names[i] < names[j]
	})
	return names
}

// #endregion order
