// Package sampler implements skill-aware weighted pair selection for
// matchups.
package sampler

import (
	"math"
	"math/rand"
	"time"

	"github.com/okian/faceoff/internal/domain/model"
)

// Sampling configuration constants.
const (
	defaultAlpha  = 1.0
	defaultJitter = 0.15  // each candidate's weight gets up to +15% noise
	defaultWindow = 100.0 // second pick stays within this many rating points
	normalizeEps  = 1e-9  // guards min==max pools against division by zero

	// maxResampleAttempts bounds the distinct-resample loop in
	// PickSecond; past it we fall back to a deterministic scan.
	maxResampleAttempts = 32
)

// Sampler draws biased-random matchup pairs from a rated pool.
//
// Weight policy: weight = normalized_rating^alpha, so higher-rated
// players are favored and a larger alpha sharpens that bias. With
// favorUnderdog the weight becomes (1-normalized_rating)^alpha,
// inverting the bias toward lower-rated players. Exactly one of the two
// policies is in effect; there is no mixed mode.
type Sampler struct {
	alpha         float64
	jitter        float64
	window        float64
	favorUnderdog bool
	rng           *rand.Rand
}

// New creates a Sampler with configuration options.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		alpha:  defaultAlpha,
		jitter: defaultJitter,
		window: defaultWindow,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // sampling bias, not crypto
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PickFirst draws one player from the pool via weighted sampling.
// Returns ErrEmptyPool for an empty pool.
func (s *Sampler) PickFirst(pool []model.Player) (model.Player, error) {
	if len(pool) == 0 {
		return model.Player{}, ErrEmptyPool
	}
	return s.draw(pool), nil
}

// PickSecond draws a distinct opponent for first, preferring players
// whose rating lies within the configured window of first's rating.
// An empty window falls back to the full pool. Returns ErrPoolTooSmall
// unless the pool holds at least two distinct ids.
func (s *Sampler) PickSecond(pool []model.Player, first model.Player) (model.Player, error) {
	if !hasDistinct(pool, first.ID) {
		return model.Player{}, ErrPoolTooSmall
	}

	candidates := make([]model.Player, 0, len(pool))
	for _, p := range pool {
		if math.Abs(p.Rating-first.Rating) <= s.window {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 || !hasDistinct(candidates, first.ID) {
		candidates = pool
	}

	for attempt := 0; attempt < maxResampleAttempts; attempt++ {
		p := s.draw(candidates)
		if p.ID != first.ID {
			return p, nil
		}
	}

	// Degenerate weights can keep re-drawing the same player; the
	// precondition guarantees a distinct candidate exists, so scan.
	for _, p := range candidates {
		if p.ID != first.ID {
			return p, nil
		}
	}
	return model.Player{}, ErrPoolTooSmall
}

// PickPair combines PickFirst and PickSecond into one matchup.
func (s *Sampler) PickPair(pool []model.Player) (model.Matchup, error) {
	first, err := s.PickFirst(pool)
	if err != nil {
		return model.Matchup{}, err
	}
	second, err := s.PickSecond(pool, first)
	if err != nil {
		return model.Matchup{}, err
	}
	return model.NewMatchup(first, second)
}

// draw performs one weighted draw over a non-empty pool.
func (s *Sampler) draw(pool []model.Player) model.Player {
	minRating, maxRating := pool[0].Rating, pool[0].Rating
	for _, p := range pool[1:] {
		minRating = math.Min(minRating, p.Rating)
		maxRating = math.Max(maxRating, p.Rating)
	}

	weights := make([]float64, len(pool))
	total := 0.0
	for i, p := range pool {
		normalized := (p.Rating - minRating) / ((maxRating - minRating) + normalizeEps)
		if s.favorUnderdog {
			normalized = 1.0 - normalized
		}
		w := math.Pow(normalized, s.alpha)
		if s.jitter > 0 {
			w *= 1.0 + s.jitter*s.rng.Float64()
		}
		weights[i] = w
		total += w
	}

	if total <= 0 || math.IsNaN(total) {
		// All weights collapsed; fall back to uniform selection.
		return pool[s.rng.Intn(len(pool))]
	}

	target := s.rng.Float64() * total
	for i, w := range weights {
		target -= w
		if target < 0 {
			return pool[i]
		}
	}
	return pool[len(pool)-1] // float underflow lands on the last candidate
}

// hasDistinct reports whether pool contains an id other than exclude.
func hasDistinct(pool []model.Player, exclude string) bool {
	for _, p := range pool {
		if p.ID != exclude {
			return true
		}
	}
	return false
}
