// Package sampler implements skill-aware weighted pair selection for
// matchups.
package sampler

import "math/rand"

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithAlpha sets the weight exponent. Higher values sharpen the bias
// toward the favored end of the rating range.
func WithAlpha(alpha float64) Option {
	return func(s *Sampler) {
		if alpha > 0 {
			s.alpha = alpha
		}
	}
}

// WithJitter sets the per-candidate random weight bump, as a fraction
// (0.15 means up to +15%). Zero disables jitter.
func WithJitter(jitter float64) Option {
	return func(s *Sampler) {
		if jitter >= 0 {
			s.jitter = jitter
		}
	}
}

// WithWindow sets the rating window for second-pick candidates.
func WithWindow(window float64) Option {
	return func(s *Sampler) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithFavorUnderdog inverts the weight policy so lower-rated players
// are favored.
func WithFavorUnderdog(favor bool) Option {
	return func(s *Sampler) {
		s.favorUnderdog = favor
	}
}

// WithRand sets the random source, used by tests for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(s *Sampler) {
		if rng != nil {
			s.rng = rng
		}
	}
}
