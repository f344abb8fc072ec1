package arena

import (
	"fmt"
)

// resultTie is the winner value arenas use for an explicit draw.
const resultTie = "tie"

// #region normalize
// Normalize turns an arena's raw result into a total MatchResult: every
// round yields a winner among the players, a tie, or absent only when the
// round is inconclusive.
//
// Rules, in order:
//  1. Arena-attributed timeouts mark those players TIMEOUT. With exactly
//     one survivor and the arena's forfeit rule on, the survivor wins;
//     otherwise the round is inconclusive.
//  2. An explicit winner must be "tie" or a roster name; anything else is
//     a protocol violation.
//  3. A null winner falls back to scores: a unique top score wins, equal
//     top scores tie, no scores at all is inconclusive.
func Normalize(raw RawResult, players []string, forfeit bool) (MatchResult, error) {
	roster := make(map[string]bool, len(players))
	statuses := make(map[string]PlayerStatus, len(players))
	for _, p := range players {
		roster[p] = true
		statuses[p] = StatusOK
	}

	res := MatchResult{
		Scores:           raw.Scores,
		WinnerPercentage: raw.WinnerPercentage,
		PValue:           raw.PValue,
		Statuses:         statuses,
	}
	if res.Scores == nil {
		res.Scores = map[string]float64{}
	}

	if len(raw.Timeouts) > 0 {
		var survivors []string
		for _, p := range raw.Timeouts {
			if !roster[p] {
				return MatchResult{}, fmt.Errorf("arena reported timeout for unknown player %q", p)
			}
			statuses[p] = StatusTimeout
		}
		for _, p := range players {
			if statuses[p] == StatusOK {
				survivors = append(survivors, p)
			}
		}
		if forfeit && len(survivors) == 1 {
			res.Outcome = OutcomeWin
			res.Winner = &survivors[0]
			return res, nil
		}
		res.Outcome = OutcomeAbsent
		return res, nil
	}

	if raw.Winner != nil {
		w := *raw.Winner
		if w == resultTie {
			res.Outcome = OutcomeTie
			return res, nil
		}
		if !roster[w] {
			return MatchResult{}, fmt.Errorf("arena reported unknown winner %q", w)
		}
		res.Outcome = OutcomeWin
		res.Winner = &w
		return res, nil
	}

	// Null winner: derive from scores.
	var top []string
	best := 0.0
	for _, p := range players {
		score, ok := res.Scores[p]
		if !ok {
			continue
		}
		switch {
		case len(top) == 0 || score > best:
			top = []string{p}
			best = score
		case score == best:
			top = append(top, p)
		}
	}
	switch {
	case len(top) == 0:
		res.Outcome = OutcomeAbsent
	case len(top) == 1:
		res.Outcome = OutcomeWin
		res.Winner = &top[0]
	default:
		res.Outcome = OutcomeTie
	}
	return res, nil
}

// #endregion normalize
