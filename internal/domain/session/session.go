// Package session implements the matchup lifecycle state machine:
// select a pair, accept exactly one vote, advance to the next pair.
package session

import (
	"context"
	"fmt"

	"github.com/okian/faceoff/internal/adapters/repository"
	"github.com/okian/faceoff/internal/domain/ledger"
	"github.com/okian/faceoff/internal/domain/model"
	"github.com/okian/faceoff/internal/domain/rating"
	"github.com/okian/faceoff/internal/domain/sampler"
)

// State identifies where a session is in the matchup lifecycle.
type State int

// Session lifecycle states.
const (
	// StateAwaitingSelection means no matchup is chosen yet.
	StateAwaitingSelection State = iota
	// StatePresented means a matchup is on display and unvoted.
	StatePresented
	// StateVoted means the current matchup received its single vote.
	StateVoted
)

// String implements fmt.Stringer for logs and stats.
func (s State) String() string {
	switch s {
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StatePresented:
		return "presented"
	case StateVoted:
		return "voted"
	default:
		return "unknown"
	}
}

// Side carries one participant's before/after view of a vote.
type Side struct {
	Player  model.Player `json:"player"`
	Initial float64      `json:"initial_rating"`
	Final   float64      `json:"final_rating"`
	Delta   float64      `json:"delta"`
}

// Outcome is the result of an accepted vote.
type Outcome struct {
	MatchupID string           `json:"matchup_id"`
	Winner    Side             `json:"winner"`
	Loser     Side             `json:"loser"`
	User      model.UserRecord `json:"user"`
}

// Session owns the state for one user's matchup flow. It is exclusively
// owned by its caller and not safe for concurrent use; callers that
// share a session across goroutines must serialize access themselves.
type Session struct {
	players repository.PlayerStore
	ledger  *ledger.Ledger
	sampler *sampler.Sampler
	k       float64

	username string
	state    State
	matchup  model.Matchup
	initial  map[string]float64
	outcome  *Outcome
}

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithKFactor overrides the Elo K factor.
func WithKFactor(k float64) Option {
	return func(s *Session) {
		if k > 0 {
			s.k = k
		}
	}
}

// WithUsername presets the voting identity.
func WithUsername(name string) Option {
	return func(s *Session) {
		s.username = model.CanonicalUsername(name)
	}
}

// New creates a session in StateAwaitingSelection.
func New(players repository.PlayerStore, voteLedger *ledger.Ledger, smp *sampler.Sampler, opts ...Option) *Session {
	s := &Session{
		players: players,
		ledger:  voteLedger,
		sampler: smp,
		k:       rating.DefaultK,
		state:   StateAwaitingSelection,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetUsername records the voting identity for subsequent votes.
func (s *Session) SetUsername(name string) {
	s.username = model.CanonicalUsername(name)
}

// Username returns the canonical voting identity, if any.
func (s *Session) Username() string { return s.username }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Matchup returns the currently presented pair. Only meaningful in
// StatePresented or StateVoted.
func (s *Session) Matchup() model.Matchup { return s.matchup }

// InitialRating returns the pre-vote snapshot for a player in the
// current matchup.
func (s *Session) InitialRating(id string) (float64, bool) {
	r, ok := s.initial[id]
	return r, ok
}

// Outcome returns the result of the current matchup's vote, or nil if
// no vote has been accepted yet.
func (s *Session) Outcome() *Outcome { return s.outcome }

// Select chooses a new matchup from the stored pool, optionally
// restricted to the given category tags. A filter that matches nothing
// falls back to the unfiltered pool; the returned warning flags that
// fallback for the caller to surface. Valid from StateAwaitingSelection;
// use Next to advance past a presented or voted matchup.
func (s *Session) Select(ctx context.Context, categories []string) (model.Matchup, bool, error) {
	if s.state != StateAwaitingSelection {
		return model.Matchup{}, false, ErrMatchupPending
	}

	pool, err := s.players.List(ctx)
	if err != nil {
		return model.Matchup{}, false, fmt.Errorf("load player pool: %w", err)
	}
	if len(pool) == 0 {
		return model.Matchup{}, false, ErrNoPlayers
	}

	candidates, warning := applyFilter(pool, categories)

	matchup, err := s.sampler.PickPair(candidates)
	if err != nil {
		return model.Matchup{}, warning, fmt.Errorf("pick matchup: %w", err)
	}

	s.matchup = matchup
	s.initial = map[string]float64{
		matchup.First.ID:  matchup.First.Rating,
		matchup.Second.ID: matchup.Second.Rating,
	}
	s.outcome = nil
	s.state = StatePresented
	return matchup, warning, nil
}

// CastVote records the single vote for the presented matchup. chosenID
// must be one of the two presented players; the other becomes the
// loser. On success the session holds the final rating snapshot and no
// further votes are accepted until Next.
//
// This is the transactional boundary: both rating writes and the
// ledger update happen here, and any store failure propagates without
// marking the matchup as voted, so the vote can be retried.
func (s *Session) CastVote(ctx context.Context, chosenID string) (*Outcome, error) {
	switch s.state {
	case StateVoted:
		return nil, ErrAlreadyVoted
	case StatePresented:
		// proceed
	default:
		return nil, ErrNoMatchup
	}

	if s.username == "" {
		return nil, ErrNoUsername
	}

	loserPlayer, ok := s.matchup.Other(chosenID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	winnerPlayer, _ := s.matchup.Other(loserPlayer.ID)

	winnerInitial := s.initial[winnerPlayer.ID]
	loserInitial := s.initial[loserPlayer.ID]
	newWinner, newLoser := rating.Update(winnerInitial, loserInitial, s.k)

	if err := s.players.UpdateRating(ctx, winnerPlayer.ID, newWinner); err != nil {
		return nil, fmt.Errorf("persist winner rating: %w", err)
	}
	if err := s.players.UpdateRating(ctx, loserPlayer.ID, newLoser); err != nil {
		return nil, fmt.Errorf("persist loser rating: %w", err)
	}

	userRec, err := s.ledger.RecordVote(ctx, s.username)
	if err != nil {
		return nil, fmt.Errorf("record vote: %w", err)
	}

	s.outcome = &Outcome{
		MatchupID: s.matchup.ID(),
		Winner: Side{
			Player:  winnerPlayer,
			Initial: winnerInitial,
			Final:   newWinner,
			Delta:   newWinner - winnerInitial,
		},
		Loser: Side{
			Player:  loserPlayer,
			Initial: loserInitial,
			Final:   newLoser,
			Delta:   newLoser - loserInitial,
		},
		User: userRec,
	}
	s.state = StateVoted
	return s.outcome, nil
}

// Next resets the vote bookkeeping and immediately selects a new
// matchup. Valid from any state: skipping an unvoted matchup has no
// side effects to undo.
func (s *Session) Next(ctx context.Context, categories []string) (model.Matchup, bool, error) {
	s.state = StateAwaitingSelection
	s.matchup = model.Matchup{}
	s.initial = nil
	s.outcome = nil
	return s.Select(ctx, categories)
}

// applyFilter restricts pool to the given categories. Nil or empty
// categories keep the whole pool. Returns the restricted pool and
// whether an empty filter result forced a fallback.
func applyFilter(pool []model.Player, categories []string) ([]model.Player, bool) {
	if len(categories) == 0 {
		return pool, false
	}

	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}

	filtered := make([]model.Player, 0, len(pool))
	for _, p := range pool {
		if _, ok := allowed[p.Category]; ok {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return pool, true
	}
	return filtered, false
}
