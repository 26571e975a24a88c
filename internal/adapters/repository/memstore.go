package repository

import (
	"context"
	"sync"

	"github.com/okian/faceoff/internal/domain/model"
)

// MemStore is a mutex-guarded in-memory Store. It is the default
// backend when no database path is configured and the backend used by
// tests.
type MemStore struct {
	mu      sync.RWMutex
	players map[string]model.Player
	order   []string // insertion order, keeps List deterministic
	users   map[string]model.UserRecord
}

// NewMemStore creates an empty in-memory store, optionally seeded with
// players.
func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		players: make(map[string]model.Player),
		users:   make(map[string]model.UserRecord),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// List returns a snapshot of all players in insertion order.
func (s *MemStore) List(ctx context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Player, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.players[id])
	}
	return out, nil
}

// UpdateRating persists a new rating for a player.
func (s *MemStore) UpdateRating(ctx context.Context, id string, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return ErrNotFound
	}
	p.Rating = rating
	s.players[id] = p
	return nil
}

// SeedPlayers inserts or replaces players in bulk.
func (s *MemStore) SeedPlayers(players []model.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range players {
		if _, exists := s.players[p.ID]; !exists {
			s.order = append(s.order, p.ID)
		}
		s.players[p.ID] = p
	}
}

// GetUser returns the record for a canonical username.
func (s *MemStore) GetUser(ctx context.Context, username string) (model.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[model.CanonicalUsername(username)]
	if !ok {
		return model.UserRecord{}, ErrNotFound
	}
	return rec, nil
}

// PutUser inserts or replaces a user record.
func (s *MemStore) PutUser(ctx context.Context, record model.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.Username = model.CanonicalUsername(record.Username)
	s.users[record.Username] = record
	return nil
}

// ListUsers returns all user records in unspecified order.
func (s *MemStore) ListUsers(ctx context.Context) ([]model.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.UserRecord, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, rec)
	}
	return out, nil
}
