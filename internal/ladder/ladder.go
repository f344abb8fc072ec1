package ladder

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/arena"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/config"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/player"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/snapshot"
	"github.com/danielpatrickdp/codeclash/go-engine/internal/tournament"
)

// #region aggregator
// Aggregator runs the complete set of unordered baseline pairs, one
// two-player tournament per pair, and reduces the outcomes into a global
// ranking. Exhaustive round-robin, not sampling.
//
// Pair tournaments are independent: each owns its snapshot namespace and
// sandbox, so they run under Workers goroutines with no shared mutable
// state beyond the entry list, which is mutex-guarded.
type Aggregator struct {
	cfg config.LadderConfig

	// runPair runs one pair's tournament. Replaceable in tests.
	runPair func(ctx context.Context, a, b config.BaselineConfig) (Entry, error)

	mu      sync.Mutex
	entries []Entry
}

// New creates a ladder aggregator for the given config.
func New(cfg config.LadderConfig) *Aggregator {
	if cfg.Workers <= 0 {
		// Zero workers would leave pair jobs stuck on the channel.
		cfg.Workers = 1
	}
	agg := &Aggregator{cfg: cfg}
	agg.runPair = agg.runPairTournament
	return agg
}

// #endregion aggregator

// #region run
// Run executes every pair tournament and returns the final ranking. Pair
// failures are logged and skipped; the ranking penalizes baselines with
// fewer completed games.
func (a *Aggregator) Run(ctx context.Context) ([]RankEntry, error) {
	type pair struct{ a, b config.BaselineConfig }
	var pairs []pair
	for i := 0; i < len(a.cfg.Baselines); i++ {
		for j := i + 1; j < len(a.cfg.Baselines); j++ {
			pairs = append(pairs, pair{a.cfg.Baselines[i], a.cfg.Baselines[j]})
		}
	}
	log.Printf("[LADDER] %s: %d baselines, %d pairs, %d workers",
		a.cfg.Arena, len(a.cfg.Baselines), len(pairs), a.cfg.Workers)

	jobs := make(chan pair)
	var wg sync.WaitGroup
	for w := 0; w < a.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				entry, err := a.runPair(ctx, p.a, p.b)
				if err != nil {
					log.Printf("[LADDER] pair %s vs %s: %v", p.a.Name, p.b.Name, err)
					continue
				}
				a.mu.Lock()
				a.entries = append(a.entries, entry)
				a.mu.Unlock()
			}
		}()
	}
	for _, p := range pairs {
		if ctx.Err() != nil {
			break
		}
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranking := Rank(a.entries)
	if a.cfg.OutputDir != "" {
		if err := a.writeOutput(ranking); err != nil {
			return ranking, err
		}
	}
	return ranking, nil
}

// #endregion run

// #region pair-tournament
// runPairTournament runs one two-player tournament of static baselines in
// its own namespace directory and reduces its history to an Entry.
func (a *Aggregator) runPairTournament(ctx context.Context, ba, bb config.BaselineConfig) (Entry, error) {
	dir := filepath.Join(a.cfg.OutputDir, fmt.Sprintf("PvpTournament.%s_vs_%s", ba.Name, bb.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("create pair dir: %w", err)
	}

	spec, err := arena.Resolve(a.cfg.Arena, a.cfg.ArenaRoot)
	if err != nil {
		return Entry{}, err
	}
	store, err := snapshot.NewStore(filepath.Join(dir, "snapshots.db"))
	if err != nil {
		return Entry{}, err
	}
	defer store.Close()

	cfg := config.TournamentConfig{
		Arena:                  a.cfg.Arena,
		Rounds:                 a.cfg.Rounds,
		Seed:                   a.cfg.Seed,
		OutputDir:              dir,
		ArenaRoot:              a.cfg.ArenaRoot,
		MaxInfraRetries:        a.cfg.MaxInfraRetries,
		MaxConsecutiveFailures: a.cfg.MaxConsecutiveFailures,
		Players: []config.PlayerConfig{
			{Name: ba.Name, Variant: config.VariantStatic, BaselineRef: ba.BaselineRef},
			{Name: bb.Name, Variant: config.VariantStatic, BaselineRef: bb.BaselineRef},
		},
	}
	roster := []round.RosterEntry{
		{Spec: player.Spec{Name: ba.Name, Kind: player.KindStatic, BaselineRef: ba.BaselineRef}, Adapter: player.NewStaticAdapter()},
		{Spec: player.Spec{Name: bb.Name, Kind: player.KindStatic, BaselineRef: bb.BaselineRef}, Adapter: player.NewStaticAdapter()},
	}

	t, err := tournament.New(cfg, tournament.Deps{
		Store:     store,
		Executor:  arena.NewCommandSandbox(spec, dir),
		ArenaSpec: spec,
		Roster:    roster,
	})
	if err != nil {
		return Entry{}, err
	}

	hist, err := t.Run(ctx)
	if err != nil {
		return Entry{}, err
	}
	return Reduce(ba.Name, bb.Name, hist), nil
}

// Reduce folds one pair tournament's history into a ladder entry.
func Reduce(nameA, nameB string, hist tournament.History) Entry {
	entry := Entry{A: nameA, B: nameB}
	standings := tournament.ComputeStandings(hist.Records, []string{nameA, nameB})
	la, lb := standings[nameA], standings[nameB]
	entry.WinsA = la.Wins
	entry.WinsB = lb.Wins
	entry.Ties = la.Ties
	entry.Games = la.Wins + lb.Wins + la.Ties
	return entry
}

// #endregion pair-tournament

// #region rank
// Rank reduces pair entries into the global ranking: win rate =
// (wins + 0.5*ties) / games played, descending. Equal win rates break by
// games played, fewer games ranking lower.
func Rank(entries []Entry) []RankEntry {
	type tally struct {
		wins, ties, games int
	}
	tallies := make(map[string]*tally)
	byName := func(name string) *tally {
		t, ok := tallies[name]
		if !ok {
			t = &tally{}
			tallies[name] = t
		}
		return t
	}

	for _, e := range entries {
		ta, tb := byName(e.A), byName(e.B)
		ta.wins += e.WinsA
		ta.ties += e.Ties
		ta.games += e.Games
		tb.wins += e.WinsB
		tb.ties += e.Ties
		tb.games += e.Games
	}

	ranking := make([]RankEntry, 0, len(tallies))
	for name, t := range tallies {
		rate := 0.0
		if t.games > 0 {
			rate = (float64(t.wins) + 0.5*float64(t.ties)) / float64(t.games)
		}
		ranking = append(ranking, RankEntry{Name: name, WinRate: rate, GamesPlayed: t.games})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].WinRate != ranking[j].WinRate {
			return ranking[i].WinRate > ranking[j].WinRate
		}
		if ranking[i].GamesPlayed != ranking[j].GamesPlayed {
			return ranking[i].GamesPlayed > ranking[j].GamesPlayed
		}
		return ranking[i].Name < ranking[j].Name
	})
	return ranking
}

// #endregion rank

// #region output
func (a *Aggregator) writeOutput(ranking []RankEntry) error {
	out := Output{
		Rankings: make(map[string]RankSummary, len(ranking)),
		Matrix:   a.entries,
	}
	for _, r := range ranking {
		out.Rankings[r.Name] = RankSummary{WinRate: r.WinRate, GamesPlayed: r.GamesPlayed}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ladder output: %w", err)
	}
	path := filepath.Join(a.cfg.OutputDir, "ladder.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write ladder output: %w", err)
	}
	log.Printf("[LADDER] wrote %s", path)
	return nil
}

// #endregion output
