package api

import (
	"errors"
	"net/http"

	service "github.com/okian/faceoff/internal/app"
	"github.com/okian/faceoff/internal/domain/sampler"
	"github.com/okian/faceoff/internal/domain/session"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// writeDomainError translates core errors to HTTP responses.
// User-actionable conditions come back 4xx; store failures surface as
// 502 so callers never see a rating that was not persisted.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, session.ErrNoUsername):
		writeError(w, http.StatusBadRequest, "username_required", err)
	case errors.Is(err, session.ErrAlreadyVoted):
		writeError(w, http.StatusConflict, "already_voted", err)
	case errors.Is(err, session.ErrNoMatchup):
		writeError(w, http.StatusConflict, "no_matchup", err)
	case errors.Is(err, session.ErrUnknownPlayer):
		writeError(w, http.StatusBadRequest, "unknown_player", err)
	case errors.Is(err, session.ErrNoPlayers), errors.Is(err, sampler.ErrPoolTooSmall):
		writeError(w, http.StatusServiceUnavailable, "no_players", err)
	default:
		writeError(w, http.StatusBadGateway, "store_failure", err)
	}
}
