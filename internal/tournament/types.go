package tournament

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/codeclash/go-engine/internal/round"
)

// ErrAborted marks a tournament that stopped early after too many
// consecutive failed rounds. Never raised for per-player failures.
var ErrAborted = errors.New("tournament aborted")

// #region status
// Status is the tournament's terminal (or running) condition.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
)

// #endregion status

// #region history
// History is the complete, ordered account of a tournament run.
type History struct {
	ID      string         `json:"id"`
	Status  Status         `json:"status"`
	Records []round.Record `json:"records"`
}

// Metadata is the tournament-level artifact written alongside the round
// records, consumable by an external viewer.
type Metadata struct {
	ID          string    `json:"id"`
	Arena       string    `json:"arena"`
	Players     []string  `json:"players"`
	Rounds      int       `json:"rounds"`
	Transparent bool      `json:"transparent"`
	Seed        int64     `json:"seed"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
}

// #endregion history

// #region standings
// Line is one player's cumulative result counts.
type Line struct {
	Wins   int `json:"wins"`
	Ties   int `json:"ties"`
	Losses int `json:"losses"`
}

// Standings maps player name to cumulative counts. Always derived from
// round records on demand, never cached as authoritative state.
type Standings map[string]Line

// #endregion standings
