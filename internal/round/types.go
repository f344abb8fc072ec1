package round

import (
	"time"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/player"
)

// #region states
// State is the round controller's lifecycle position.
type State string

const (
	StateScheduled State = "scheduled"
	StateExecuting State = "executing"
	StateScored    State = "scored"
	StateUpdated   State = "updated"
	StateComplete  State = "complete"
	StateFailed    State = "failed"
)

// Per-player exit statuses recorded in a round.
const (
	PlayerOK            = "OK"
	PlayerTimeout       = "TIMEOUT"
	PlayerAgentFailure  = "AGENT_FAILURE"
	PlayerPatchRejected = "PATCH_REJECTED"
)

// #endregion states

// #region record
// PlayerStats is one player's derived stats for one round.
type PlayerStats struct {
	Status      string   `json:"status"`
	Snapshot    string   `json:"snapshot"`
	NewSnapshot string   `json:"new_snapshot,omitempty"`
	Score       *float64 `json:"score"`
	Calls       int      `json:"calls"`
	CostUSD     float64  `json:"cost_usd"`
	ExitStatus  string   `json:"exit_status,omitempty"`
}

// Record is the immutable, append-only account of one round.
type Record struct {
	Round      int                     `json:"round"`
	State      State                   `json:"state"`
	Result     *arena.MatchResult      `json:"result,omitempty"`
	Players    map[string]*PlayerStats `json:"players"`
	Error      string                  `json:"error,omitempty"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
}

// #endregion record

// RosterEntry pairs a player spec with its adapter.
type RosterEntry struct {
	Spec    player.Spec
	Adapter player.Adapter
}
