package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrEmptyUsername = errors.New("username must not be empty")
)
