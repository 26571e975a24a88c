package session

import "errors"

// Sentinel kinds for session errors.
var (
	// ErrNoPlayers means the pool is empty; no matchup can be formed.
	ErrNoPlayers = errors.New("no players available")

	// ErrMatchupPending means Select was called while a matchup is
	// already on display; use Next instead.
	ErrMatchupPending = errors.New("matchup already presented")

	// ErrNoMatchup means a vote arrived with no matchup on display.
	ErrNoMatchup = errors.New("no matchup presented")

	// ErrNoUsername means a vote arrived before the caller identified
	// itself.
	ErrNoUsername = errors.New("username required before voting")

	// ErrAlreadyVoted means the presented matchup already received its
	// single vote.
	ErrAlreadyVoted = errors.New("matchup already voted")

	// ErrUnknownPlayer means the chosen id is not part of the matchup.
	ErrUnknownPlayer = errors.New("chosen player not in matchup")
)
