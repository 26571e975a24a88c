// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"
)

// DateLayout is the stamp format used for UserRecord.LastVoted.
const DateLayout = "2006-01-02"

// Meta carries pass-through display metadata. The core never inspects it.
type Meta struct {
	ImageURL string `json:"image_url,omitempty"`
	Team     string `json:"team,omitempty"`
}

// Player represents a rated, comparable entity.
type Player struct {
	ID       string  `json:"id"`       // unique name
	Rating   float64 `json:"rating"`   // current Elo rating
	Category string  `json:"category"` // grouping tag, e.g. position
	Meta     Meta    `json:"meta,omitempty"`
}

// ErrSamePlayer is returned when a matchup would pair a player with itself.
var ErrSamePlayer = errors.New("matchup players must be distinct")

// Matchup is one presented pair of players awaiting a single vote.
type Matchup struct {
	First  Player `json:"first"`
	Second Player `json:"second"`
}

// NewMatchup builds a matchup, refusing identical ids.
func NewMatchup(first, second Player) (Matchup, error) {
	if first.ID == second.ID {
		return Matchup{}, ErrSamePlayer
	}
	return Matchup{First: first, Second: second}, nil
}

// ID derives the matchup identifier used for duplicate-vote detection.
func (m Matchup) ID() string {
	return m.First.ID + "_vs_" + m.Second.ID
}

// Other returns the opponent of id within the matchup, and whether id
// belongs to the matchup at all.
func (m Matchup) Other(id string) (Player, bool) {
	switch id {
	case m.First.ID:
		return m.Second, true
	case m.Second.ID:
		return m.First, true
	default:
		return Player{}, false
	}
}

// UserRecord tracks a user's participation counts.
type UserRecord struct {
	Username    string  `json:"username"`
	TotalVotes  float64 `json:"total_votes"`
	WeeklyVotes float64 `json:"weekly_votes"`
	LastVoted   string  `json:"last_voted"` // DateLayout stamp
}

// CanonicalUsername normalizes a username to its case-insensitive form.
func CanonicalUsername(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
