package tournament

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/config"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/snapshot"
)

// #region controller
// Controller owns one tournament: round budget, roster, output directory.
// It drives exactly Rounds rounds in strict sequence, persisting each
// record before the next round starts so a restarted run resumes where it
// stopped.
type Controller struct {
	cfg    config.TournamentConfig
	deps   Deps
	id     string
	outDir string
	rounds *round.Controller
}

// Deps wires the controller's collaborators. The caller builds them so
// tests can substitute any of the pieces.
type Deps struct {
	Store     *snapshot.Store
	Executor  arena.Executor
	ArenaSpec arena.Spec
	Roster    []round.RosterEntry
}

// New validates the config, prepares the output directory, and resolves
// every player to an initial snapshot.
func New(cfg config.TournamentConfig, deps Deps) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Configs built in code bypass LoadTournament's defaulting; a zero
	// failure bound would abort on the first failed round.
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = config.DefaultMaxConsecutiveFailures
	}
	if len(deps.Roster) != len(cfg.Players) {
		return nil, fmt.Errorf("%w: roster has %d entries for %d players", config.ErrConfig, len(deps.Roster), len(cfg.Players))
	}

	names := make([]string, len(cfg.Players))
	for i, p := range cfg.Players {
		names[i] = p.Name
	}

	id := fmt.Sprintf("PvpTournament.%s.r%d.p%d.%s.%s",
		cfg.Arena, cfg.Rounds, len(names), strings.Join(names, "."), time.Now().Format("060102150405"))
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Join("logs", id)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	t := &Controller{cfg: cfg, deps: deps, id: id, outDir: outDir}
	if err := t.initSnapshots(); err != nil {
		return nil, err
	}

	t.rounds = round.New(round.Config{
		TournamentID:    id,
		Store:           deps.Store,
		Executor:        deps.Executor,
		ArenaSpec:       deps.ArenaSpec,
		Roster:          deps.Roster,
		Rounds:          cfg.Rounds,
		Seed:            cfg.Seed,
		Transparent:     cfg.Transparent,
		MaxInfraRetries: cfg.MaxInfraRetries,
		OutputDir:       outDir,
	})
	return t, nil
}

// ID returns the tournament identifier used in artifact paths.
func (t *Controller) ID() string { return t.id }

// OutputDir returns the directory holding this tournament's artifacts.
func (t *Controller) OutputDir() string { return t.outDir }

// #endregion controller

// #region init-snapshots
// initSnapshots resolves every player spec to exactly one snapshot before
// round 1, ingesting baselines for players the store has never seen, and
// checks the arena's required submission file.
func (t *Controller) initSnapshots() error {
	for _, entry := range t.deps.Roster {
		name := entry.Spec.Name
		snap, ok, err := t.deps.Store.Head(name)
		if err != nil {
			return err
		}
		if !ok {
			snap, err = t.deps.Store.Init(name, entry.Spec.BaselineRef)
			if err != nil {
				return fmt.Errorf("%w: init %s: %v", config.ErrConfig, name, err)
			}
			t.logf("initialized %s from %s (snapshot %.12s)", name, entry.Spec.BaselineRef, snap.ID)
		}
		if sub := t.deps.ArenaSpec.Submission; sub != "" {
			if _, found := snap.Manifest[sub]; !found {
				return fmt.Errorf("%w: player %s has no %s file", config.ErrConfig, name, sub)
			}
		}
	}
	return nil
}

// #endregion init-snapshots

// #region run
// Run drives the tournament to completion. Per-player failures never abort
// it; only MaxConsecutiveFailures failed rounds in a row do, and that is
// reported as ErrAborted, never as a silent truncation.
func (t *Controller) Run(ctx context.Context) (History, error) {
	recordsPath := filepath.Join(t.outDir, RecordsFile)
	records, err := LoadRecords(recordsPath)
	if err != nil {
		return History{ID: t.id}, err
	}
	if len(records) > 0 {
		t.logf("resuming after %d recorded rounds", len(records))
	}
	if err := t.writeMetadata(StatusRunning, time.Time{}); err != nil {
		return History{ID: t.id}, err
	}

	consecutiveFails := trailingFailures(records)
	for r := len(records) + 1; r <= t.cfg.Rounds; r++ {
		if err := ctx.Err(); err != nil {
			return History{ID: t.id, Status: StatusRunning, Records: records}, err
		}

		rec := t.rounds.Run(ctx, r)
		if err := AppendRecord(recordsPath, rec); err != nil {
			return History{ID: t.id, Status: StatusRunning, Records: records}, err
		}
		records = append(records, rec)

		if rec.State == round.StateFailed {
			consecutiveFails++
			t.logf("round %d failed (%d consecutive): %s", r, consecutiveFails, rec.Error)
			if consecutiveFails >= t.cfg.MaxConsecutiveFailures {
				if err := t.writeMetadata(StatusAborted, time.Now().UTC()); err != nil {
					t.logf("write metadata: %v", err)
				}
				return History{ID: t.id, Status: StatusAborted, Records: records},
					fmt.Errorf("%w: %d consecutive failed rounds", ErrAborted, consecutiveFails)
			}
			continue
		}
		consecutiveFails = 0
		if rec.Result != nil {
			t.logf("round %d: outcome=%s winner=%s", r, rec.Result.Outcome, winnerName(rec))
		}
	}

	if err := t.writeMetadata(StatusCompleted, time.Now().UTC()); err != nil {
		t.logf("write metadata: %v", err)
	}
	return History{ID: t.id, Status: StatusCompleted, Records: records}, nil
}

// #endregion run

// #region standings
// Standings recomputes cumulative counts from the persisted records.
func (t *Controller) Standings() (Standings, error) {
	records, err := LoadRecords(filepath.Join(t.outDir, RecordsFile))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(t.cfg.Players))
	for i, p := range t.cfg.Players {
		names[i] = p.Name
	}
	return ComputeStandings(records, names), nil
}

// #endregion standings

// #region helpers

func (t *Controller) writeMetadata(status Status, finished time.Time) error {
	names := make([]string, len(t.cfg.Players))
	for i, p := range t.cfg.Players {
		names[i] = p.Name
	}
	meta := Metadata{
		ID:          t.id,
		Arena:       t.cfg.Arena,
		Players:     names,
		Rounds:      t.cfg.Rounds,
		Transparent: t.cfg.Transparent,
		Seed:        t.cfg.Seed,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		FinishedAt:  finished,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(t.outDir, "metadata.json"), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// logf logs to the process log and tees into tournament.log for the viewer.
func (t *Controller) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[TOURN] %s: %s", t.id, msg)

	f, err := os.OpenFile(filepath.Join(t.outDir, "tournament.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().UTC().Format(time.RFC3339), msg)
}

func trailingFailures(records []round.Record) int {
	n := 0
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].State != round.StateFailed {
			break
		}
		n++
	}
	return n
}

func winnerName(rec round.Record) string {
	if rec.Result == nil {
		return "-"
	}
	if rec.Result.Winner == nil {
		return string(rec.Result.Outcome)
	}
	return *rec.Result.Winner
}

// #endregion helpers
