// Package types contains common types used across the application
package types

import "github.com/okian/faceoff/internal/domain/model"

// PlayerView is a player decorated with its rank within its category.
type PlayerView struct {
	model.Player
	CategoryRank int `json:"category_rank"`
}

// MatchupView is the presented pair as returned to the API layer.
type MatchupView struct {
	MatchupID string     `json:"matchup_id"`
	First     PlayerView `json:"first"`
	Second    PlayerView `json:"second"`
	Warning   string     `json:"warning,omitempty"`
}

// LeaderboardEntry is one row of the user vote leaderboard.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	Username  string  `json:"username"`
	Votes     float64 `json:"votes"`
	LastVoted string  `json:"last_voted"`
}
