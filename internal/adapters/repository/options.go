package repository

import "github.com/okian/faceoff/internal/domain/model"

// MemOption applies a configuration option to the MemStore.
type MemOption func(*MemStore)

// WithPlayers seeds the store with an initial player pool.
func WithPlayers(players []model.Player) MemOption {
	return func(s *MemStore) {
		s.SeedPlayers(players)
	}
}

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithSeedPlayers inserts players on open when the players table is
// empty, so a fresh database starts with a usable pool.
func WithSeedPlayers(players []model.Player) SQLiteOption {
	return func(s *SQLiteStore) {
		s.seed = players
	}
}
