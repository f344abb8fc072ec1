package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/agentrpc"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/config"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/player"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/snapshot"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/tournament"
)

// #region main
func main() {
	configPath := flag.String("config", "", "path to tournament config YAML")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: engine --config path/to/tournament.yaml")
		os.Exit(2)
	}

	cfg, err := config.LoadTournament(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.ArenaRoot == "" {
		cfg.ArenaRoot = envOr("ARENA_ROOT", "arenas")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(envOr("CODECLASH_LOGS", "logs"),
			fmt.Sprintf("%s.r%d.%s", cfg.Arena, cfg.Rounds, time.Now().Format("060102150405")))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hist, standings, err := run(ctx, cfg)
	if err != nil && !errors.Is(err, tournament.ErrAborted) {
		log.Fatalf("tournament: %v", err)
	}
	if err != nil {
		log.Printf("tournament aborted: %v", err)
	}

	fmt.Printf("\nTournament %s: %s after %d rounds\n", hist.ID, hist.Status, len(hist.Records))
	for _, name := range standings.Order() {
		line := standings[name]
		fmt.Printf("  %-24s W %3d  T %3d  L %3d\n", name, line.Wins, line.Ties, line.Losses)
	}
}

// #endregion main

// #region run
func run(ctx context.Context, cfg config.TournamentConfig) (tournament.History, tournament.Standings, error) {
	spec, err := arena.Resolve(cfg.Arena, cfg.ArenaRoot)
	if err != nil {
		return tournament.History{}, nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return tournament.History{}, nil, err
	}
	store, err := snapshot.NewStore(filepath.Join(cfg.OutputDir, "snapshots.db"))
	if err != nil {
		return tournament.History{}, nil, err
	}
	defer store.Close()

	roster, closers, err := buildRoster(cfg)
	if err != nil {
		return tournament.History{}, nil, err
	}
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	t, err := tournament.New(cfg, tournament.Deps{
		Store:     store,
		Executor:  arena.NewCommandSandbox(spec, cfg.OutputDir),
		ArenaSpec: spec,
		Roster:    roster,
	})
	if err != nil {
		return tournament.History{}, nil, err
	}

	hist, runErr := t.Run(ctx)
	standings, err := t.Standings()
	if err != nil {
		return hist, nil, err
	}
	return hist, standings, runErr
}

// agentConn is the slice of a connected agent client buildRoster needs.
type agentConn interface {
	agentrpc.Observer
	Close() error
}

var dialAgent = func(addr string) (agentConn, error) {
	return agentrpc.NewClient(addr)
}

// buildRoster wires one adapter per player spec. Evolving players share
// nothing: each gets its own agent connection. On error any connections
// already opened are closed before returning.
func buildRoster(cfg config.TournamentConfig) ([]round.RosterEntry, []agentConn, error) {
	var roster []round.RosterEntry
	var closers []agentConn
	for _, p := range cfg.Players {
		spec := player.Spec{Name: p.Name, BaselineRef: p.BaselineRef}
		switch p.Variant {
		case config.VariantStatic:
			spec.Kind = player.KindStatic
			roster = append(roster, round.RosterEntry{Spec: spec, Adapter: player.NewStaticAdapter()})
		case config.VariantEvolving:
			spec.Kind = player.KindEvolving
			spec.Agent = &player.AgentConfig{
				Addr:          p.Agent.Addr,
				Model:         p.Agent.Model,
				BudgetSeconds: p.Agent.BudgetSeconds,
			}
			client, err := dialAgent(p.Agent.Addr)
			if err != nil {
				for _, c := range closers {
					c.Close()
				}
				return nil, nil, fmt.Errorf("connect agent for %s: %w", p.Name, err)
			}
			closers = append(closers, client)
			roster = append(roster, round.RosterEntry{Spec: spec, Adapter: player.NewEvolvingAdapter(spec, client)})
		}
	}
	return roster, closers, nil
}

// #endregion run

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
