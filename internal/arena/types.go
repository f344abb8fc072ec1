package arena

import (
	"context"
	"errors"
	"fmt"
)

// #region errors
// ErrExecutionTimeout marks a round whose arena command hit its wall-clock
// budget without producing a usable result. Retryable up to a bound.
var ErrExecutionTimeout = errors.New("arena execution timed out")

// ExecutionError marks an infrastructure failure of the arena itself
// (command failed to start, nonzero exit with no result, unreadable
// result). Retryable up to a bound.
type ExecutionError struct {
	Arena  string
	Round  int
	Reason string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("arena %s round %d: %s", e.Arena, e.Round, e.Reason)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// #endregion errors

// #region arena-spec
// Spec describes one arena backend as an opaque command. The command is
// invoked in the arena's directory with the scratch result path, the round
// index, a seed, and each player's tree in roster order:
//
//	<command...> -o <scratch>/result.json -r <round> --seed <seed> <dir>...
//
// The command must write the result schema to the -o path:
//
//	{"winner": string|null, "scores": {name: number},
//	 "winner_percentage": number|null, "p_value": number|null,
//	 "timeouts": [name]}
type Spec struct {
	ID      string
	Dir     string
	Command []string

	// Submission names a file that must exist at the root of every
	// player's tree before round 1. Empty disables the check.
	Submission string

	TimeoutSeconds   int
	ForfeitOnTimeout bool
}

// #endregion arena-spec

// #region run-types
// RunRequest carries one round's inputs to an arena.
type RunRequest struct {
	Round   int
	Seed    int64
	Players []string          // roster order
	Dirs    map[string]string // player -> working tree path
}

// RawResult is the arena's result schema plus the captured output log.
type RawResult struct {
	Winner           *string            `json:"winner"`
	Scores           map[string]float64 `json:"scores"`
	WinnerPercentage *float64           `json:"winner_percentage"`
	PValue           *float64           `json:"p_value"`

	// Timeouts names players the arena attributed a timeout to before
	// the engine's own wall clock expired.
	Timeouts []string `json:"timeouts,omitempty"`

	Log string `json:"-"`
}

// Executor runs one arena round against a set of player trees.
type Executor interface {
	Run(ctx context.Context, req RunRequest) (RawResult, error)
}

// #endregion run-types

// #region match-result
// Outcome is the total classification of a round.
type Outcome string

const (
	OutcomeWin    Outcome = "win"
	OutcomeTie    Outcome = "tie"
	OutcomeAbsent Outcome = "absent" // inconclusive round only
)

// PlayerStatus reports a player's exit status for one round.
type PlayerStatus string

const (
	StatusOK      PlayerStatus = "OK"
	StatusTimeout PlayerStatus = "TIMEOUT"
)

// MatchResult is the normalized outcome of one round. Winner is nil unless
// Outcome is OutcomeWin. WinnerPercentage and PValue stay nil when the
// arena reports no statistical test; nil means not applicable, not zero.
type MatchResult struct {
	Outcome          Outcome                 `json:"outcome"`
	Winner           *string                 `json:"winner"`
	Scores           map[string]float64      `json:"scores"`
	WinnerPercentage *float64                `json:"winner_percentage"`
	PValue           *float64                `json:"p_value"`
	Statuses         map[string]PlayerStatus `json:"statuses"`
}

// #endregion match-result
