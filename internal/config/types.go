package config

// #region tournament-config
// TournamentConfig is the declarative description of one tournament.
// Immutable once the tournament starts.
type TournamentConfig struct {
	Arena       string         `yaml:"arena"`
	Players     []PlayerConfig `yaml:"players"`
	Rounds      int            `yaml:"rounds"`
	Transparent bool           `yaml:"transparent"`
	Seed        int64          `yaml:"seed"`

	// AllowSinglePlayer enables the explicit single-player smoke mode.
	AllowSinglePlayer bool `yaml:"allow_single_player"`

	// MaxInfraRetries bounds re-runs of a round after infrastructure
	// failures before the round is marked failed.
	MaxInfraRetries int `yaml:"max_infra_retries"`

	// MaxConsecutiveFailures bounds failed rounds in a row before the
	// tournament aborts.
	MaxConsecutiveFailures int `yaml:"max_consecutive_failures"`

	OutputDir string `yaml:"output_dir"`
	ArenaRoot string `yaml:"arena_root"`
}

// PlayerConfig describes one roster entry.
// Variant "evolving" requires AgentConfig; both variants require BaselineRef.
type PlayerConfig struct {
	Name        string       `yaml:"name"`
	Variant     string       `yaml:"variant"` // "evolving" | "static"
	BaselineRef string       `yaml:"baseline_ref"`
	Agent       *AgentConfig `yaml:"agent_config"`
}

// AgentConfig describes the external agent backing an evolving player.
type AgentConfig struct {
	Addr          string `yaml:"addr"`
	Model         string `yaml:"model"`
	BudgetSeconds int    `yaml:"budget_seconds"`
}

// #endregion tournament-config

// #region ladder-config
// LadderConfig describes a full round-robin over static baselines.
type LadderConfig struct {
	Arena     string           `yaml:"arena"`
	Rounds    int              `yaml:"rounds"`
	Workers   int              `yaml:"workers"`
	Baselines []BaselineConfig `yaml:"baselines"`
	OutputDir string           `yaml:"output_dir"`
	ArenaRoot string           `yaml:"arena_root"`
	Seed      int64            `yaml:"seed"`

	MaxInfraRetries        int `yaml:"max_infra_retries"`
	MaxConsecutiveFailures int `yaml:"max_consecutive_failures"`
}

// BaselineConfig is one fixed baseline on the ladder.
type BaselineConfig struct {
	Name        string `yaml:"name"`
	BaselineRef string `yaml:"baseline_ref"`
}

// #endregion ladder-config

// #region defaults
// DefaultMaxInfraRetries is applied when max_infra_retries is omitted.
const DefaultMaxInfraRetries = 2

// DefaultMaxConsecutiveFailures is applied when max_consecutive_failures is omitted.
const DefaultMaxConsecutiveFailures = 3

// #endregion defaults

// Variant values for PlayerConfig.Variant.
const (
	VariantEvolving = "evolving"
	VariantStatic   = "static"
)
