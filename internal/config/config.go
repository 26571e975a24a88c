// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment vars.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath points at the SQLite database file. Empty selects the
	// in-memory store.
	DBPath string `koanf:"db_path"`

	// SeedPath points at a JSON roster used to seed an empty player
	// pool on startup. Empty skips seeding.
	SeedPath string `koanf:"seed_path"`

	// KFactor tunes the Elo rating swing per vote.
	KFactor float64 `koanf:"k_factor"`

	// SamplerAlpha sharpens the selection bias; 1 is linear.
	SamplerAlpha float64 `koanf:"sampler_alpha"`

	// SamplerJitter is the per-candidate random weight bump fraction.
	SamplerJitter float64 `koanf:"sampler_jitter"`

	// MatchWindow bounds the rating gap for second-pick candidates.
	MatchWindow float64 `koanf:"match_window"`

	// FavorUnderdog inverts the sampling bias toward low-rated players.
	FavorUnderdog bool `koanf:"favor_underdog"`

	// VoteIncrement is the ledger credit per accepted vote (1 per
	// matchup, or 0.25 for per-click counting).
	VoteIncrement float64 `koanf:"vote_increment"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SessionTTLMinutes bounds how long an idle session is retained.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		DBPath:              "",
		SeedPath:            "",
		KFactor:             24,
		SamplerAlpha:        1,
		SamplerJitter:       0.15,
		MatchWindow:         100,
		FavorUnderdog:       false,
		VoteIncrement:       1,
		MaxLeaderboardLimit: 100,
		SessionTTLMinutes:   60,
	}
}
