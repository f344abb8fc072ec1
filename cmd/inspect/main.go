package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/tournament"
)

// #region main

func main() {
	dir := flag.String("dir", "", "tournament output directory")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --dir path/to/tournament [--json]")
		os.Exit(2)
	}

	if err := run(*dir, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region inspect

type report struct {
	Metadata  tournament.Metadata  `json:"metadata"`
	Records   []round.Record       `json:"records"`
	Standings tournament.Standings `json:"standings"`
}

func run(dir string, jsonOut bool) error {
	meta, err := loadMetadata(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return err
	}
	records, err := tournament.LoadRecords(filepath.Join(dir, tournament.RecordsFile))
	if err != nil {
		return err
	}
	standings := tournament.ComputeStandings(records, meta.Players)

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report{Metadata: meta, Records: records, Standings: standings})
	}

	fmt.Printf("Tournament %s (%s)\n", meta.ID, meta.Status)
	fmt.Printf("Arena %s, %d/%d rounds recorded\n\n", meta.Arena, len(records), meta.Rounds)

	fmt.Printf("%-6s  %-10s  %-16s  %s\n", "Round", "State", "Winner", "Statuses")
	for _, rec := range records {
		winner := "-"
		if rec.Result != nil {
			winner = string(rec.Result.Outcome)
			if rec.Result.Winner != nil {
				winner = *rec.Result.Winner
			}
		}
		statuses := ""
		for name, stats := range rec.Players {
			if stats.Status != round.PlayerOK {
				if statuses != "" {
					statuses += " "
				}
				statuses += fmt.Sprintf("%s=%s", name, stats.Status)
			}
		}
		fmt.Printf("%-6d  %-10s  %-16s  %s\n", rec.Round, rec.State, winner, statuses)
	}

	fmt.Println("\nStandings:")
	for _, name := range standings.Order() {
		line := standings[name]
		fmt.Printf("  %-24s W %3d  T %3d  L %3d\n", name, line.Wins, line.Ties, line.Losses)
	}
	return nil
}

func loadMetadata(path string) (tournament.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tournament.Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	var meta tournament.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return tournament.Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

// #endregion inspect
