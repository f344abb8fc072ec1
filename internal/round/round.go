package round

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/player"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/snapshot"
)

// #region controller
// Controller drives one round end-to-end: snapshot capture, match
// execution, normalization, per-player updates. Rounds of one tournament
// must run strictly sequentially: round n+1's snapshots causally depend on
// round n's result for evolving players.
type Controller struct {
	cfg Config
}

// Config wires a round controller's collaborators.
type Config struct {
	TournamentID    string
	Store           *snapshot.Store
	Executor        arena.Executor
	ArenaSpec       arena.Spec
	Roster          []RosterEntry
	Rounds          int
	Seed            int64
	Transparent     bool
	MaxInfraRetries int
	OutputDir       string
}

// New creates a round controller.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// #endregion controller

// #region run
// Run executes round roundNum. Partial failures (agent errors, rejected
// patches, player timeouts) are recorded in the returned Record without
// failing the round; only exhausted infrastructure retries produce
// StateFailed.
func (c *Controller) Run(ctx context.Context, roundNum int) (rec Record) {
	rec = Record{
		Round:     roundNum,
		State:     StateScheduled,
		Players:   make(map[string]*PlayerStats, len(c.cfg.Roster)),
		StartedAt: time.Now().UTC(),
	}
	defer func() { rec.FinishedAt = time.Now().UTC() }()

	roundDir := filepath.Join(c.cfg.OutputDir, fmt.Sprintf("round_%d", roundNum))

	// Scheduled -> Executing: gather each player's current snapshot and
	// materialize the working trees the arena will see.
	names := make([]string, 0, len(c.cfg.Roster))
	dirs := make(map[string]string, len(c.cfg.Roster))
	for _, entry := range c.cfg.Roster {
		name := entry.Spec.Name
		names = append(names, name)

		snap, ok, err := c.cfg.Store.Head(name)
		if err != nil || !ok {
			return c.fail(rec, fmt.Sprintf("gather snapshot for %s: %v", name, err))
		}
		dir := filepath.Join(roundDir, "players", name)
		if err := c.cfg.Store.Checkout(snap, dir); err != nil {
			return c.fail(rec, fmt.Sprintf("checkout %s: %v", name, err))
		}
		dirs[name] = dir
		rec.Players[name] = &PlayerStats{Status: PlayerOK, Snapshot: snap.ID}
	}
	rec.State = StateExecuting

	raw, err := c.execute(ctx, arena.RunRequest{
		Round:   roundNum,
		Seed:    c.cfg.Seed + int64(roundNum),
		Players: names,
		Dirs:    dirs,
	})
	if err != nil {
		return c.fail(rec, err.Error())
	}

	// Executing -> Scored.
	result, err := arena.Normalize(raw, names, c.cfg.ArenaSpec.ForfeitOnTimeout)
	if err != nil {
		return c.fail(rec, fmt.Sprintf("normalize: %v", err))
	}
	rec.Result = &result
	rec.State = StateScored

	if err := os.WriteFile(filepath.Join(roundDir, "match.log"), []byte(raw.Log), 0o644); err != nil {
		log.Printf("[ROUND] %d: write match log: %v", roundNum, err)
	}

	for name, stats := range rec.Players {
		if score, ok := result.Scores[name]; ok {
			s := score
			stats.Score = &s
		}
		if result.Statuses[name] == arena.StatusTimeout {
			stats.Status = PlayerTimeout
		}
	}

	// Scored -> Updated: let every player observe; commit evolving
	// players' patches. One player's misbehavior never fails the round.
	for _, entry := range c.cfg.Roster {
		c.update(ctx, entry, roundNum, result, raw.Log, dirs, rec.Players[entry.Spec.Name])
	}
	rec.State = StateUpdated

	// Updated -> Complete. The caller appends the record to history.
	rec.State = StateComplete
	log.Printf("[ROUND] %d: complete, outcome=%s", roundNum, result.Outcome)
	return rec
}

// #endregion run

// #region execute
// execute runs the arena with bounded retries for infrastructure
// flakiness. Timeouts and execution errors are retryable; anything the
// arena attributed to a player arrives as a parsed result, not an error.
func (c *Controller) execute(ctx context.Context, req arena.RunRequest) (arena.RawResult, error) {
	var raw arena.RawResult
	var err error
	for attempt := 0; attempt <= c.cfg.MaxInfraRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[ROUND] %d: retrying arena run (attempt %d/%d)", req.Round, attempt+1, c.cfg.MaxInfraRetries+1)
		}
		raw, err = c.cfg.Executor.Run(ctx, req)
		if err == nil {
			return raw, nil
		}
		var execErr *arena.ExecutionError
		if !errors.Is(err, arena.ErrExecutionTimeout) && !errors.As(err, &execErr) {
			return raw, err
		}
		if ctx.Err() != nil {
			return raw, ctx.Err()
		}
	}
	return raw, fmt.Errorf("retries exhausted: %w", err)
}

// #endregion execute

// #region update
func (c *Controller) update(ctx context.Context, entry RosterEntry, roundNum int, result arena.MatchResult, matchLog string, dirs map[string]string, stats *PlayerStats) {
	name := entry.Spec.Name

	obs := player.Observation{
		TournamentID: c.cfg.TournamentID,
		Round:        roundNum,
		Rounds:       c.cfg.Rounds,
		Result:       result,
		MatchLog:     matchLog,
		WorkDir:      dirs[name],
	}
	if c.cfg.Transparent {
		obs.OpponentDirs = make(map[string]string, len(dirs)-1)
		for other, dir := range dirs {
			if other != name {
				obs.OpponentDirs[other] = dir
			}
		}
	}

	report, err := entry.Adapter.Observe(ctx, obs)
	stats.Calls = report.Calls
	stats.CostUSD = report.CostUSD
	stats.ExitStatus = report.ExitStatus
	if err != nil {
		if !errors.Is(err, player.ErrAgentFailure) {
			log.Printf("[ROUND] %d: %s observe: %v", roundNum, name, err)
		}
		stats.Status = PlayerAgentFailure
		return
	}
	if len(report.Patch) == 0 {
		return
	}

	prev, ok, err := c.cfg.Store.Head(name)
	if err != nil || !ok {
		log.Printf("[ROUND] %d: %s head lookup: %v", roundNum, name, err)
		stats.Status = PlayerPatchRejected
		return
	}
	next, err := c.cfg.Store.Commit(name, prev, roundNum, report.Patch)
	if err != nil {
		if errors.Is(err, snapshot.ErrInvalidPatch) {
			log.Printf("[ROUND] %d: %s patch rejected: %v", roundNum, name, err)
		} else {
			log.Printf("[ROUND] %d: %s commit: %v", roundNum, name, err)
		}
		stats.Status = PlayerPatchRejected
		return
	}
	stats.NewSnapshot = next.ID
}

// #endregion update

// #region fail
func (c *Controller) fail(rec Record, reason string) Record {
	log.Printf("[ROUND] %d: failed: %s", rec.Round, reason)
	rec.State = StateFailed
	rec.Error = reason
	return rec
}

// #endregion fail
