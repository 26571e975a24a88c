package sampler

import "errors"

// Sentinel kinds for sampling errors.
var (
	ErrEmptyPool    = errors.New("no players available for selection")
	ErrPoolTooSmall = errors.New("pool needs at least two distinct players")
)
