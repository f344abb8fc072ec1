package player

import (
	"context"
	"errors"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
)

// ErrAgentFailure marks an external agent that errored or blew its budget.
// The player's snapshot does not advance; the tournament continues.
var ErrAgentFailure = errors.New("agent failure")

// #region spec
// Kind is the player variant tag.
type Kind string

const (
	KindEvolving Kind = "evolving"
	KindStatic   Kind = "static"
)

// AgentConfig describes the external agent behind an evolving player.
type AgentConfig struct {
	Addr          string
	Model         string
	BudgetSeconds int
}

// Spec is a tagged-variant roster entry. Evolving carries Agent; both
// variants carry BaselineRef, the initial working tree.
type Spec struct {
	Name        string
	Kind        Kind
	BaselineRef string
	Agent       *AgentConfig
}

// #endregion spec

// #region observation
// Observation is the partial view of the round a player is allowed to see.
// OpponentDirs is populated only in transparent mode.
type Observation struct {
	TournamentID string
	Round        int
	Rounds       int
	Result       arena.MatchResult
	MatchLog     string
	WorkDir      string
	OpponentDirs map[string]string
}

// Report is what a player produced for one round. A nil Patch means no
// change; the snapshot pointer stays where it is.
type Report struct {
	Patch      []byte
	Calls      int
	CostUSD    float64
	ExitStatus string
}

// Adapter reacts to a completed round. The round controller never needs to
// know the concrete variant behind it.
type Adapter interface {
	Observe(ctx context.Context, obs Observation) (Report, error)
}

// #endregion observation
