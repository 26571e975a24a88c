// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/faceoff/internal/domain/types"
)

// MatchupDependencies defines the interface for matchup operations.
type MatchupDependencies interface {
	SelectMatchup(ctx context.Context, sessionID string, categories []string) (types.MatchupView, error)
	NextMatchup(ctx context.Context, sessionID string, categories []string) (types.MatchupView, error)
}

// MatchupHandler handles matchup selection requests.
type MatchupHandler struct {
	deps MatchupDependencies
}

// NewMatchupHandler creates a new matchup handler.
func NewMatchupHandler(deps MatchupDependencies) *MatchupHandler {
	return &MatchupHandler{deps: deps}
}

// matchupRequest mirrors the POST /matchup and POST /next body.
type matchupRequest struct {
	SessionID  string   `json:"session_id"`
	Categories []string `json:"categories,omitempty"`
}

func (m matchupRequest) validate() error {
	if strings.TrimSpace(m.SessionID) == "" {
		return errors.New("missing session_id")
	}
	return nil
}

// HandleMatchup handles POST /matchup requests. Re-posting for a
// session with a matchup already on display returns that same matchup.
func (h *MatchupHandler) HandleMatchup(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.deps.SelectMatchup)
}

// HandleNext handles POST /next requests, advancing past the current
// matchup.
func (h *MatchupHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.deps.NextMatchup)
}

func (h *MatchupHandler) serve(
	w http.ResponseWriter,
	r *http.Request,
	pick func(ctx context.Context, sessionID string, categories []string) (types.MatchupView, error),
) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	view, err := pick(r.Context(), req.SessionID, req.Categories)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
