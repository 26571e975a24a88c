// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/faceoff/internal/adapters/repository"
	"github.com/okian/faceoff/internal/domain/ledger"
	"github.com/okian/faceoff/internal/domain/model"
	"github.com/okian/faceoff/internal/domain/ranking"
	"github.com/okian/faceoff/internal/domain/rating"
	"github.com/okian/faceoff/internal/domain/sampler"
	"github.com/okian/faceoff/internal/domain/session"
	"github.com/okian/faceoff/internal/domain/types"
	"github.com/okian/faceoff/pkg/logger"
	"github.com/okian/faceoff/pkg/metrics"
)

// ErrSessionNotFound means the supplied session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Leaderboard scopes.
const (
	ScopeAll    = "all"
	ScopeWeekly = "weekly"
)

// sessionEntry pairs a session with its own lock; sessions are not
// safe for concurrent use, so all access goes through the entry lock.
type sessionEntry struct {
	mu       sync.Mutex
	sess     *session.Session
	lastSeen time.Time
}

// Service implements the API dependencies for the rating service.
type Service struct {
	mu sync.RWMutex

	// Core components
	players     repository.PlayerStore
	ledgerStore repository.LedgerStore
	voteLedger  *ledger.Ledger
	smp         *sampler.Sampler

	// Configuration
	kFactor       float64
	voteIncrement float64
	samplerOpts   []sampler.Option
	sessionTTL    time.Duration

	// State
	sessions map[string]*sessionEntry
	started  bool
	stopCh   chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithPlayerStore sets the player pool backend.
func WithPlayerStore(store repository.PlayerStore) Option {
	return func(s *Service) {
		if store != nil {
			s.players = store
		}
	}
}

// WithLedgerStore sets the user record backend.
func WithLedgerStore(store repository.LedgerStore) Option {
	return func(s *Service) {
		if store != nil {
			s.ledgerStore = store
		}
	}
}

// WithKFactor sets the Elo K factor.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.kFactor = k
		}
	}
}

// WithVoteIncrement sets the ledger credit per accepted vote.
func WithVoteIncrement(inc float64) Option {
	return func(s *Service) {
		if inc > 0 {
			s.voteIncrement = inc
		}
	}
}

// WithSamplerOptions forwards options to the matchup sampler.
func WithSamplerOptions(opts ...sampler.Option) Option {
	return func(s *Service) {
		s.samplerOpts = append(s.samplerOpts, opts...)
	}
}

// WithSessionTTL bounds how long an idle session is retained.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		kFactor:       rating.DefaultK,
		voteIncrement: 1,
		sessionTTL:    time.Hour,
		sessions:      make(map[string]*sessionEntry),
		stopCh:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.players == nil || s.ledgerStore == nil {
		mem := repository.NewMemStore()
		if s.players == nil {
			s.players = mem
		}
		if s.ledgerStore == nil {
			s.ledgerStore = mem
		}
		s.logger.Info(ctx, "using in-memory store")
	}

	s.voteLedger = ledger.New(s.ledgerStore, ledger.WithIncrement(s.voteIncrement))
	s.smp = sampler.New(s.samplerOpts...)

	go s.pruneLoop()

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Float64("kFactor", s.kFactor),
		logger.Float64("voteIncrement", s.voteIncrement),
	)
	return nil
}

// Stop shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// CreateSession registers a new matchup session and returns its id.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.sessions[id] = &sessionEntry{
		sess:     session.New(s.players, s.voteLedger, s.smp, session.WithKFactor(s.kFactor)),
		lastSeen: time.Now(),
	}
	metrics.UpdateActiveSessions(len(s.sessions))

	s.logger.Debug(ctx, "session created", logger.String("sessionID", id))
	return id, nil
}

// SelectMatchup picks the first matchup for a session, optionally
// filtered by category tags.
func (s *Service) SelectMatchup(ctx context.Context, sessionID string, categories []string) (types.MatchupView, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return types.MatchupView{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	matchup, fellBack, err := entry.sess.Select(ctx, categories)
	if errors.Is(err, session.ErrMatchupPending) {
		// Idempotent re-fetch of the pair already on display.
		matchup, fellBack, err = entry.sess.Matchup(), false, nil
	}
	if err != nil {
		return types.MatchupView{}, s.classifySelectErr(ctx, err)
	}

	return s.matchupView(ctx, matchup, fellBack)
}

// NextMatchup advances a session past its current matchup.
func (s *Service) NextMatchup(ctx context.Context, sessionID string, categories []string) (types.MatchupView, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return types.MatchupView{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	matchup, fellBack, err := entry.sess.Next(ctx, categories)
	if err != nil {
		return types.MatchupView{}, s.classifySelectErr(ctx, err)
	}

	return s.matchupView(ctx, matchup, fellBack)
}

// CastVote records the vote for a session's presented matchup.
func (s *Service) CastVote(ctx context.Context, sessionID, username, chosenID string) (*session.Outcome, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if username != "" {
		entry.sess.SetUsername(username)
	}

	start := time.Now()
	outcome, err := entry.sess.CastVote(ctx, chosenID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrAlreadyVoted):
			metrics.RecordVoteDuplicate()
		case errors.Is(err, session.ErrNoUsername):
			metrics.RecordVoteRejected("no_username")
		case errors.Is(err, session.ErrUnknownPlayer), errors.Is(err, session.ErrNoMatchup):
			metrics.RecordVoteRejected("bad_request")
		default:
			metrics.RecordStoreError()
			s.logger.Error(ctx, "vote failed on store write",
				logger.String("sessionID", sessionID),
				logger.Error(err),
			)
		}
		return nil, err
	}

	metrics.RecordVoteCast()
	metrics.RecordVoteLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "vote accepted",
		logger.String("matchup", outcome.MatchupID),
		logger.String("winner", outcome.Winner.Player.ID),
		logger.Float64("winnerRating", outcome.Winner.Final),
		logger.String("username", outcome.User.Username),
	)
	return outcome, nil
}

// Players returns the full rated pool with category ranks.
func (s *Service) Players(ctx context.Context) ([]types.PlayerView, error) {
	pool, err := s.players.List(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("load player pool: %w", err)
	}
	metrics.UpdateTotalPlayers(len(pool))

	ranks := ranking.ByCategory(pool)
	out := make([]types.PlayerView, len(pool))
	for i, p := range pool {
		out[i] = types.PlayerView{Player: p, CategoryRank: ranks[p.ID]}
	}
	return out, nil
}

// Leaderboard returns the user vote leaderboard for a scope.
func (s *Service) Leaderboard(ctx context.Context, scope string, limit int) ([]types.LeaderboardEntry, error) {
	var (
		records []model.UserRecord
		err     error
	)
	switch scope {
	case ScopeWeekly:
		records, err = s.voteLedger.TopWeekly(ctx, limit)
	default:
		records, err = s.voteLedger.TopAll(ctx, limit)
	}
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	out := make([]types.LeaderboardEntry, len(records))
	for i, rec := range records {
		votes := rec.TotalVotes
		if scope == ScopeWeekly {
			votes = rec.WeeklyVotes
		}
		out[i] = types.LeaderboardEntry{
			Rank:      i + 1,
			Username:  rec.Username,
			Votes:     votes,
			LastVoted: rec.LastVoted,
		}
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"kFactor":        s.kFactor,
		"voteIncrement":  s.voteIncrement,
		"activeSessions": len(s.sessions),
	}

	if s.started {
		if pool, err := s.players.List(context.Background()); err == nil {
			stats["totalPlayers"] = len(pool)
			metrics.UpdateTotalPlayers(len(pool))
		}
		metrics.UpdateActiveSessions(len(s.sessions))
	}

	return stats
}

// entry looks up a live session and refreshes its idle timer.
func (s *Service) entry(sessionID string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	entry.mu.Lock()
	entry.lastSeen = time.Now()
	entry.mu.Unlock()
	return entry, nil
}

// matchupView decorates a matchup with category ranks for display.
func (s *Service) matchupView(ctx context.Context, matchup model.Matchup, fellBack bool) (types.MatchupView, error) {
	pool, err := s.players.List(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return types.MatchupView{}, fmt.Errorf("load player pool: %w", err)
	}
	ranks := ranking.ByCategory(pool)

	view := types.MatchupView{
		MatchupID: matchup.ID(),
		First:     types.PlayerView{Player: matchup.First, CategoryRank: ranks[matchup.First.ID]},
		Second:    types.PlayerView{Player: matchup.Second, CategoryRank: ranks[matchup.Second.ID]},
	}
	if fellBack {
		view.Warning = "no players matched the category filter; showing all categories"
		metrics.RecordFilterFallback()
	}

	metrics.RecordMatchupServed()
	return view, nil
}

func (s *Service) classifySelectErr(ctx context.Context, err error) error {
	// Pool-size conditions are caller-visible states, not store faults.
	if !errors.Is(err, session.ErrNoPlayers) && !errors.Is(err, sampler.ErrPoolTooSmall) {
		metrics.RecordStoreError()
		s.logger.Error(ctx, "matchup selection failed", logger.Error(err))
	}
	return err
}

// pruneLoop evicts sessions idle past the TTL.
func (s *Service) pruneLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.pruneIdleSessions()
		}
	}
}

func (s *Service) pruneIdleSessions() {
	cutoff := time.Now().Add(-s.sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.sessions {
		entry.mu.Lock()
		idle := entry.lastSeen.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.sessions, id)
		}
	}
	metrics.UpdateActiveSessions(len(s.sessions))
}
