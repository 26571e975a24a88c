// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/faceoff/internal/domain/session"
	"github.com/okian/faceoff/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// CreateSession registers a new matchup session.
	CreateSession(ctx context.Context) (string, error)

	// SelectMatchup returns the session's current or first matchup.
	SelectMatchup(ctx context.Context, sessionID string, categories []string) (types.MatchupView, error)

	// NextMatchup advances past the current matchup.
	NextMatchup(ctx context.Context, sessionID string, categories []string) (types.MatchupView, error)

	// CastVote records the single vote for the presented matchup.
	CastVote(ctx context.Context, sessionID, username, chosenID string) (*session.Outcome, error)

	// Players exposes the rated pool with category ranks.
	Players(ctx context.Context) ([]types.PlayerView, error)

	// Leaderboard exposes the user vote leaderboard.
	Leaderboard(ctx context.Context, scope string, limit int) ([]types.LeaderboardEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	sessionHandler     *SessionHandler
	matchupHandler     *MatchupHandler
	voteHandler        *VoteHandler
	playersHandler     *PlayersHandler
	leaderboardHandler *LeaderboardHandler
	statsHandler       *StatsHandler
	healthHandler      *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		sessionHandler:     NewSessionHandler(deps),
		matchupHandler:     NewMatchupHandler(deps),
		voteHandler:        NewVoteHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		statsHandler:       NewStatsHandler(statsProvider),
		healthHandler:      NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleCreateSession, "session"))
	mux.HandleFunc("/matchup", MetricsMiddleware(s.matchupHandler.HandleMatchup, "matchup"))
	mux.HandleFunc("/next", MetricsMiddleware(s.matchupHandler.HandleNext, "next"))
	mux.HandleFunc("/vote", MetricsMiddleware(s.voteHandler.HandleVote, "vote"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePlayers, "players"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
