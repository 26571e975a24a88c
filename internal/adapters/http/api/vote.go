// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/faceoff/internal/domain/session"
)

// VoteDependencies defines the interface for vote processing.
type VoteDependencies interface {
	CastVote(ctx context.Context, sessionID, username, chosenID string) (*session.Outcome, error)
}

// VoteHandler handles vote requests.
type VoteHandler struct {
	deps VoteDependencies
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(deps VoteDependencies) *VoteHandler {
	return &VoteHandler{deps: deps}
}

// voteRequest mirrors the POST /vote body.
type voteRequest struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	ChosenID  string `json:"chosen_id"`
}

func (v voteRequest) validate() error {
	switch {
	case strings.TrimSpace(v.SessionID) == "":
		return errors.New("missing session_id")
	case strings.TrimSpace(v.ChosenID) == "":
		return errors.New("missing chosen_id")
	}
	return nil
}

// HandleVote handles POST /vote requests.
func (h *VoteHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	outcome, err := h.deps.CastVote(r.Context(), req.SessionID, req.Username, req.ChosenID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
