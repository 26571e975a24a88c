// Package repository defines the player and ledger store interfaces and
// their implementations.
package repository

import (
	"context"

	"github.com/okian/faceoff/internal/domain/model"
)

// PlayerStore provides read/write access to the rated player pool.
//
// Rating updates are last-write-wins: two sessions voting on the same
// player concurrently race on the stored rating. Serializing those
// writes (optimistic concurrency or a transaction per vote) is the
// store's concern if strict correctness is ever required.
type PlayerStore interface {
	// List returns a snapshot of all players.
	List(ctx context.Context) ([]model.Player, error)

	// UpdateRating persists a new rating for a player.
	// Returns ErrNotFound if the player is unknown.
	UpdateRating(ctx context.Context, id string, rating float64) error
}

// LedgerStore persists per-user participation records.
type LedgerStore interface {
	// GetUser returns the record for a canonical username.
	// Returns ErrNotFound if the user has never voted.
	GetUser(ctx context.Context, username string) (model.UserRecord, error)

	// PutUser inserts or replaces a user record.
	PutUser(ctx context.Context, record model.UserRecord) error

	// ListUsers returns all user records.
	ListUsers(ctx context.Context) ([]model.UserRecord, error)
}

// Store bundles both stores for backends that provide them together.
type Store interface {
	PlayerStore
	LedgerStore
}
