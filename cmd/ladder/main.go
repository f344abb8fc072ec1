package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/config"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/ladder"
)

// #region main
func main() {
	configPath := flag.String("config", "", "path to ladder config YAML")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ladder --config path/to/ladder.yaml")
		os.Exit(2)
	}

	cfg, err := config.LoadLadder(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.ArenaRoot == "" {
		cfg.ArenaRoot = envOr("ARENA_ROOT", "arenas")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(envOr("CODECLASH_LOGS", "logs"), "ladder", cfg.Arena)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ranking, err := ladder.New(cfg).Run(ctx)
	if err != nil {
		log.Fatalf("ladder: %v", err)
	}

	fmt.Printf("\nLadder ranking for %s (%d baselines):\n", cfg.Arena, len(cfg.Baselines))
	for i, entry := range ranking {
		fmt.Printf("  %2d. %-24s win_rate %.3f  games %d\n", i+1, entry.Name, entry.WinRate, entry.GamesPlayed)
	}
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
