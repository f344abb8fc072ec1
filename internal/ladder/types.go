package ladder

// #region entry
// Entry is the reduced outcome of one pair's dedicated tournament.
type Entry struct {
	A     string `json:"a"`
	B     string `json:"b"`
	WinsA int    `json:"wins_a"`
	WinsB int    `json:"wins_b"`
	Ties  int    `json:"ties"`

	// Games counts rounds with a decisive or tied outcome. Inconclusive
	// rounds are not games.
	Games int `json:"games"`
}

// #endregion entry

// #region ranking
// RankEntry is one baseline's position in the global ranking.
type RankEntry struct {
	Name        string  `json:"name"`
	WinRate     float64 `json:"win_rate"`
	GamesPlayed int     `json:"games_played"`
}

// Output is the ladder artifact: per-baseline summary plus the full
// pairwise result matrix.
type Output struct {
	Rankings map[string]RankSummary `json:"rankings"`
	Matrix   []Entry                `json:"matrix"`
}

// RankSummary is the per-baseline slice of the output schema.
type RankSummary struct {
	WinRate     float64 `json:"win_rate"`
	GamesPlayed int     `json:"games_played"`
}

// #endregion ranking
