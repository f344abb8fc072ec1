package tournament

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/config"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/player"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/snapshot"
)

// #region fixture

type fixedExec struct {
	winner string
	err    error
	calls  int
}

func (e *fixedExec) Run(_ context.Context, _ arena.RunRequest) (arena.RawResult, error) {
	e.calls++
	if e.err != nil {
		return arena.RawResult{}, e.err
	}
	w := e.winner
	return arena.RawResult{Winner: &w, Scores: map[string]float64{e.winner: 1}}, nil
}

type fixture struct {
	cfg  config.TournamentConfig
	deps Deps
}

func newFixture(t *testing.T, rounds int, exec arena.Executor) *fixture {
	t.Helper()

	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "main.py"), []byte("print()\n"), 0o644); err != nil {
		t.Fatalf("write baseline: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "out")
	store, err := snapshot.NewStore(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.TournamentConfig{
		Arena:  "gomoku",
		Rounds: rounds,
		Seed:   42,
		Players: []config.PlayerConfig{
			{Name: "alice", Variant: config.VariantStatic, BaselineRef: base},
			{Name: "bob", Variant: config.VariantStatic, BaselineRef: base},
		},
		OutputDir:              outDir,
		MaxInfraRetries:        0,
		MaxConsecutiveFailures: 2,
	}
	deps := Deps{
		Store:     store,
		Executor:  exec,
		ArenaSpec: arena.Spec{ID: "gomoku"},
		Roster: []round.RosterEntry{
			{Spec: player.Spec{Name: "alice", Kind: player.KindStatic, BaselineRef: base}, Adapter: player.NewStaticAdapter()},
			{Spec: player.Spec{Name: "bob", Kind: player.KindStatic, BaselineRef: base}, Adapter: player.NewStaticAdapter()},
		},
	}
	return &fixture{cfg: cfg, deps: deps}
}

// #endregion fixture

func TestRunProducesCompleteHistory(t *testing.T) {
	fix := newFixture(t, 3, &fixedExec{winner: "alice"})
	ctl, err := New(fix.cfg, fix.deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hist, err := ctl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hist.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", hist.Status)
	}
	if len(hist.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(hist.Records))
	}
	for i, rec := range hist.Records {
		if rec.Round != i+1 {
			t.Fatalf("expected round %d at index %d, got %d", i+1, i, rec.Round)
		}
		if rec.State != round.StateComplete {
			t.Fatalf("round %d not complete: %s", rec.Round, rec.State)
		}
	}

	standings, err := ctl.Standings()
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if standings["alice"].Wins != 3 || standings["bob"].Losses != 3 {
		t.Fatalf("unexpected standings: %+v", standings)
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	fix := newFixture(t, 2, &fixedExec{winner: "alice"})
	ctl, err := New(fix.cfg, fix.deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ctl.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	records, err := LoadRecords(filepath.Join(ctl.OutputDir(), RecordsFile))
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(records))
	}

	meta, err := os.ReadFile(filepath.Join(ctl.OutputDir(), "metadata.json"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if len(meta) == 0 {
		t.Fatal("expected non-empty metadata")
	}
}

func TestRunResumesFromPersistedRecords(t *testing.T) {
	exec1 := &fixedExec{winner: "alice"}
	fix := newFixture(t, 2, exec1)
	ctl, err := New(fix.cfg, fix.deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ctl.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if exec1.calls != 2 {
		t.Fatalf("expected 2 rounds executed, got %d", exec1.calls)
	}

	// Same output dir and store, larger round budget: only the missing
	// rounds execute.
	exec2 := &fixedExec{winner: "bob"}
	fix.cfg.Rounds = 4
	fix.deps.Executor = exec2
	ctl2, err := New(fix.cfg, fix.deps)
	if err != nil {
		t.Fatalf("New (resume): %v", err)
	}

	hist, err := ctl2.Run(context.Background())
	if err != nil {
		t.Fatalf("resumed Run: %v", err)
	}
	if exec2.calls != 2 {
		t.Fatalf("expected only rounds 3 and 4 executed, got %d calls", exec2.calls)
	}
	if len(hist.Records) != 4 {
		t.Fatalf("expected 4 records after resume, got %d", len(hist.Records))
	}
	if *hist.Records[0].Result.Winner != "alice" || *hist.Records[3].Result.Winner != "bob" {
		t.Fatal("resume must preserve earlier records unchanged")
	}
}

func TestRunAbortsAfterConsecutiveFailures(t *testing.T) {
	exec := &fixedExec{err: &arena.ExecutionError{Arena: "gomoku", Round: 1, Reason: "broken"}}
	fix := newFixture(t, 5, exec)
	ctl, err := New(fix.cfg, fix.deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hist, err := ctl.Run(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if hist.Status != StatusAborted {
		t.Fatalf("expected aborted status, got %s", hist.Status)
	}
	if len(hist.Records) != 2 {
		t.Fatalf("expected abort after 2 failed rounds, got %d records", len(hist.Records))
	}
	for _, rec := range hist.Records {
		if rec.State != round.StateFailed {
			t.Fatalf("expected failed record, got %s", rec.State)
		}
	}
}

func TestRunRecoversAfterSingleFailure(t *testing.T) {
	// One failure, then wins: the consecutive counter resets.
	w := "alice"
	exec := &scriptedExec{
		steps: []func() (arena.RawResult, error){
			func() (arena.RawResult, error) {
				return arena.RawResult{}, &arena.ExecutionError{Arena: "gomoku", Round: 1, Reason: "flake"}
			},
			func() (arena.RawResult, error) { return arena.RawResult{Winner: &w}, nil },
			func() (arena.RawResult, error) { return arena.RawResult{Winner: &w}, nil },
		},
	}
	fix := newFixture(t, 3, exec)
	ctl, err := New(fix.cfg, fix.deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hist, err := ctl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hist.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", hist.Status)
	}
	if hist.Records[0].State != round.StateFailed {
		t.Fatal("expected round 1 recorded as failed")
	}
	if hist.Records[1].State != round.StateComplete || hist.Records[2].State != round.StateComplete {
		t.Fatal("expected rounds 2 and 3 complete")
	}
}

type scriptedExec struct {
	steps []func() (arena.RawResult, error)
	calls int
}

func (e *scriptedExec) Run(_ context.Context, _ arena.RunRequest) (arena.RawResult, error) {
	step := e.steps[e.calls]
	e.calls++
	return step()
}

func TestNewRequiresSubmissionFile(t *testing.T) {
	fix := newFixture(t, 1, &fixedExec{winner: "alice"})
	fix.deps.ArenaSpec.Submission = "MyBot.py"

	_, err := New(fix.cfg, fix.deps)
	if !errors.Is(err, config.ErrConfig) {
		t.Fatalf("expected ErrConfig for missing submission file, got %v", err)
	}
}

func TestNewRejectsRosterMismatch(t *testing.T) {
	fix := newFixture(t, 1, &fixedExec{winner: "alice"})
	fix.deps.Roster = fix.deps.Roster[:1]

	_, err := New(fix.cfg, fix.deps)
	if !errors.Is(err, config.ErrConfig) {
		t.Fatalf("expected ErrConfig for roster mismatch, got %v", err)
	}
}

func TestWinnerName(t *testing.T) {
	cases := []struct {
		name string
		rec  round.Record
		want string
	}{
		{"win", winRecord(1, "alice"), "alice"},
		{"tie", tieRecord(2), "tie"},
		{"failed round without result", failedRecord(3), "-"},
	}
	for _, tc := range cases {
		if got := winnerName(tc.rec); got != tc.want {
			t.Errorf("%s: winnerName = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRunDefaultsFailureBound(t *testing.T) {
	// A config built in code with a zero failure bound gets the default
	// instead of aborting on the first failed round.
	w := "alice"
	exec := &scriptedExec{
		steps: []func() (arena.RawResult, error){
			func() (arena.RawResult, error) {
				return arena.RawResult{}, &arena.ExecutionError{Arena: "gomoku", Round: 1, Reason: "flake"}
			},
			func() (arena.RawResult, error) { return arena.RawResult{Winner: &w}, nil },
			func() (arena.RawResult, error) { return arena.RawResult{Winner: &w}, nil },
		},
	}
	fix := newFixture(t, 3, exec)
	fix.cfg.MaxConsecutiveFailures = 0
	ctl, err := New(fix.cfg, fix.deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hist, err := ctl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hist.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", hist.Status)
	}
	if hist.Records[0].State != round.StateFailed {
		t.Fatal("expected round 1 recorded as failed")
	}
}
