package main

import (
	"context"
	"errors"
	"testing"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/agentrpc"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/config"
)

// #region fakes

type fakeConn struct {
	closed bool
}

func (c *fakeConn) Observe(context.Context, agentrpc.ObserveParams) (agentrpc.ObserveResult, error) {
	return agentrpc.ObserveResult{}, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// #endregion fakes

func evolvingConfig(names ...string) config.TournamentConfig {
	cfg := config.TournamentConfig{Arena: "gomoku", Rounds: 1}
	for _, n := range names {
		cfg.Players = append(cfg.Players, config.PlayerConfig{
			Name:        n,
			Variant:     config.VariantEvolving,
			BaselineRef: "baselines/" + n,
			Agent:       &config.AgentConfig{Addr: n + ":50051"},
		})
	}
	return cfg
}

func TestBuildRosterConnectsEvolvingPlayers(t *testing.T) {
	orig := dialAgent
	defer func() { dialAgent = orig }()

	var dialed []string
	dialAgent = func(addr string) (agentConn, error) {
		dialed = append(dialed, addr)
		return &fakeConn{}, nil
	}

	roster, closers, err := buildRoster(evolvingConfig("alice", "bob"))
	if err != nil {
		t.Fatalf("buildRoster: %v", err)
	}
	if len(roster) != 2 || len(closers) != 2 {
		t.Fatalf("expected 2 roster entries and 2 closers, got %d and %d", len(roster), len(closers))
	}
	if len(dialed) != 2 || dialed[0] != "alice:50051" || dialed[1] != "bob:50051" {
		t.Fatalf("unexpected dial order: %v", dialed)
	}
}

func TestBuildRosterClosesPartialConnectionsOnError(t *testing.T) {
	orig := dialAgent
	defer func() { dialAgent = orig }()

	first := &fakeConn{}
	dialErr := errors.New("agent unreachable")
	calls := 0
	dialAgent = func(string) (agentConn, error) {
		calls++
		if calls == 1 {
			return first, nil
		}
		return nil, dialErr
	}

	_, closers, err := buildRoster(evolvingConfig("alice", "bob"))
	if !errors.Is(err, dialErr) {
		t.Fatalf("expected dial error, got %v", err)
	}
	if len(closers) != 0 {
		t.Fatalf("expected no closers on error, got %d", len(closers))
	}
	if !first.closed {
		t.Fatal("expected the already-opened connection to be closed")
	}
}
