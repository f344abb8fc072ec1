package player

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/agentrpc"
)

// #region static
// StaticAdapter never changes its codebase; observe is a no-op.
type StaticAdapter struct{}

// NewStaticAdapter returns the adapter for a fixed baseline.
func NewStaticAdapter() *StaticAdapter { return &StaticAdapter{} }

// Observe ignores the result and reports no change.
func (a *StaticAdapter) Observe(_ context.Context, _ Observation) (Report, error) {
	return Report{ExitStatus: "static"}, nil
}

// #endregion static

// #region evolving
const defaultAgentBudget = 15 * time.Minute

// EvolvingAdapter delegates each round to an external agent over gRPC.
type EvolvingAdapter struct {
	spec     Spec
	observer agentrpc.Observer
}

// NewEvolvingAdapter wires an evolving player to its agent runner.
func NewEvolvingAdapter(spec Spec, observer agentrpc.Observer) *EvolvingAdapter {
	return &EvolvingAdapter{spec: spec, observer: observer}
}

// Observe hands the round observation to the agent and returns its patch.
// A failed or over-budget agent yields no change and ErrAgentFailure; the
// caller records it and the tournament continues.
func (a *EvolvingAdapter) Observe(ctx context.Context, obs Observation) (Report, error) {
	budget := defaultAgentBudget
	if a.spec.Agent != nil && a.spec.Agent.BudgetSeconds > 0 {
		budget = time.Duration(a.spec.Agent.BudgetSeconds) * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	model := ""
	if a.spec.Agent != nil {
		model = a.spec.Agent.Model
	}

	result, err := a.observer.Observe(callCtx, agentrpc.ObserveParams{
		TournamentID: obs.TournamentID,
		Player:       a.spec.Name,
		Round:        obs.Round,
		Rounds:       obs.Rounds,
		MatchLog:     obs.MatchLog,
		WorkDir:      obs.WorkDir,
		OpponentDirs: obs.OpponentDirs,
		Model:        model,
	})
	if err != nil {
		log.Printf("[PLAYER] %s round %d: agent failed: %v", a.spec.Name, obs.Round, err)
		return Report{ExitStatus: "agent_error"}, fmt.Errorf("player %s: %w: %v", a.spec.Name, ErrAgentFailure, err)
	}

	return Report{
		Patch:      result.Patch,
		Calls:      result.Calls,
		CostUSD:    result.CostUSD,
		ExitStatus: result.ExitStatus,
	}, nil
}

// #endregion evolving
