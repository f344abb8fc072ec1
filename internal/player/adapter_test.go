package player

import (
	"context"
	"errors"
	"testing"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/agentrpc"
)

// #region fake-observer
type fakeObserver struct {
	result agentrpc.ObserveResult
	err    error

	got    agentrpc.ObserveParams
	gotCtx context.Context
}

func (f *fakeObserver) Observe(ctx context.Context, params agentrpc.ObserveParams) (agentrpc.ObserveResult, error) {
	f.gotCtx = ctx
	f.got = params
	return f.result, f.err
}

// #endregion fake-observer

func TestStaticAdapterObserve(t *testing.T) {
	a := NewStaticAdapter()
	report, err := a.Observe(context.Background(), Observation{Round: 1})
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if len(report.Patch) != 0 {
		t.Fatal("static player must never produce a patch")
	}
}

func TestEvolvingAdapterMapsObservation(t *testing.T) {
	fake := &fakeObserver{
		result: agentrpc.ObserveResult{
			Patch:      []byte("--- a/main.py\n"),
			Calls:      7,
			CostUSD:    0.42,
			ExitStatus: "done",
		},
	}
	spec := Spec{
		Name: "alice",
		Kind: KindEvolving,
		Agent: &AgentConfig{
			Addr:          "localhost:50051",
			Model:         "some-model",
			BudgetSeconds: 60,
		},
	}
	a := NewEvolvingAdapter(spec, fake)

	obs := Observation{
		TournamentID: "t-1",
		Round:        3,
		Rounds:       10,
		MatchLog:     "alice wins",
		WorkDir:      "/work/alice",
		OpponentDirs: map[string]string{"bob": "/work/bob"},
	}
	report, err := a.Observe(context.Background(), obs)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}

	if fake.got.TournamentID != "t-1" || fake.got.Player != "alice" {
		t.Fatalf("unexpected identity params: %+v", fake.got)
	}
	if fake.got.Round != 3 || fake.got.Rounds != 10 {
		t.Fatalf("unexpected round params: %+v", fake.got)
	}
	if fake.got.MatchLog != "alice wins" || fake.got.WorkDir != "/work/alice" {
		t.Fatalf("unexpected observation params: %+v", fake.got)
	}
	if fake.got.OpponentDirs["bob"] != "/work/bob" {
		t.Fatalf("opponent dirs must pass through, got %+v", fake.got.OpponentDirs)
	}
	if fake.got.Model != "some-model" {
		t.Fatalf("expected model from agent config, got %q", fake.got.Model)
	}

	if string(report.Patch) != "--- a/main.py\n" {
		t.Fatalf("unexpected patch: %q", report.Patch)
	}
	if report.Calls != 7 || report.CostUSD != 0.42 || report.ExitStatus != "done" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestEvolvingAdapterAppliesBudget(t *testing.T) {
	fake := &fakeObserver{}
	spec := Spec{
		Name:  "alice",
		Kind:  KindEvolving,
		Agent: &AgentConfig{Addr: "localhost:50051", BudgetSeconds: 30},
	}
	a := NewEvolvingAdapter(spec, fake)

	if _, err := a.Observe(context.Background(), Observation{Round: 1}); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if _, ok := fake.gotCtx.Deadline(); !ok {
		t.Fatal("expected a deadline on the agent call")
	}
}

func TestEvolvingAdapterAgentFailure(t *testing.T) {
	fake := &fakeObserver{err: errors.New("connection refused")}
	spec := Spec{
		Name:  "alice",
		Kind:  KindEvolving,
		Agent: &AgentConfig{Addr: "localhost:50051"},
	}
	a := NewEvolvingAdapter(spec, fake)

	report, err := a.Observe(context.Background(), Observation{Round: 1})
	if !errors.Is(err, ErrAgentFailure) {
		t.Fatalf("expected ErrAgentFailure, got %v", err)
	}
	if len(report.Patch) != 0 {
		t.Fatal("a failed agent must yield no change")
	}
	if report.ExitStatus != "agent_error" {
		t.Fatalf("expected agent_error exit status, got %q", report.ExitStatus)
	}
}
