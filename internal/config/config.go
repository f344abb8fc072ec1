package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfig marks fatal configuration errors detected before a run starts.
var ErrConfig = errors.New("invalid config")

// #region loaders

// LoadTournament reads and validates a tournament config file.
// Unknown fields are rejected rather than silently ignored.
func LoadTournament(path string) (TournamentConfig, error) {
	var cfg TournamentConfig
	if err := decodeStrict(path, &cfg); err != nil {
		return TournamentConfig{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return TournamentConfig{}, err
	}
	return cfg, nil
}

// LoadLadder reads and validates a ladder config file.
func LoadLadder(path string) (LadderConfig, error) {
	var cfg LadderConfig
	if err := decodeStrict(path, &cfg); err != nil {
		return LadderConfig{}, err
	}
	if cfg.MaxInfraRetries == 0 {
		cfg.MaxInfraRetries = DefaultMaxInfraRetries
	}
	if cfg.MaxConsecutiveFailures == 0 {
		cfg.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if err := cfg.Validate(); err != nil {
		return LadderConfig{}, err
	}
	return cfg, nil
}

func decodeStrict(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrConfig, path, err)
	}
	return nil
}

// #endregion loaders

// #region validation

func (c *TournamentConfig) applyDefaults() {
	if c.MaxInfraRetries == 0 {
		c.MaxInfraRetries = DefaultMaxInfraRetries
	}
	if c.MaxConsecutiveFailures == 0 {
		c.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
}

// Validate checks the invariants a tournament needs before round 1.
func (c TournamentConfig) Validate() error {
	if c.Arena == "" {
		return fmt.Errorf("%w: arena is required", ErrConfig)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be >= 1, got %d", ErrConfig, c.Rounds)
	}
	if len(c.Players) == 0 {
		return fmt.Errorf("%w: at least one player is required", ErrConfig)
	}
	if len(c.Players) < 2 && !c.AllowSinglePlayer {
		return fmt.Errorf("%w: at least two players are required (set allow_single_player for smoke mode)", ErrConfig)
	}
	seen := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if err := p.validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate player name %q", ErrConfig, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func (p PlayerConfig) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: player name is required", ErrConfig)
	}
	switch p.Variant {
	case VariantStatic:
		if p.BaselineRef == "" {
			return fmt.Errorf("%w: static player %q requires baseline_ref", ErrConfig, p.Name)
		}
	case VariantEvolving:
		if p.BaselineRef == "" {
			return fmt.Errorf("%w: evolving player %q requires baseline_ref", ErrConfig, p.Name)
		}
		if p.Agent == nil || p.Agent.Addr == "" {
			return fmt.Errorf("%w: evolving player %q requires agent_config with addr", ErrConfig, p.Name)
		}
	default:
		return fmt.Errorf("%w: player %q has unknown variant %q", ErrConfig, p.Name, p.Variant)
	}
	return nil
}

// Validate checks the invariants a ladder needs before the first pair runs.
func (c LadderConfig) Validate() error {
	if c.Arena == "" {
		return fmt.Errorf("%w: arena is required", ErrConfig)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be >= 1, got %d", ErrConfig, c.Rounds)
	}
	if len(c.Baselines) < 2 {
		return fmt.Errorf("%w: a ladder requires at least two baselines", ErrConfig)
	}
	seen := make(map[string]bool, len(c.Baselines))
	for _, b := range c.Baselines {
		if b.Name == "" || b.BaselineRef == "" {
			return fmt.Errorf("%w: every baseline requires name and baseline_ref", ErrConfig)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate baseline name %q", ErrConfig, b.Name)
		}
		seen[b.Name] = true
	}
	return nil
}

// #endregion validation
