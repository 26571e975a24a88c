// Package rating implements the logistic Elo update applied after each
// pairwise comparison.
package rating

import "math"

// Elo tuning constants.
const (
	// DefaultK controls the magnitude of rating swings per comparison.
	DefaultK = 24.0

	// scale is the logistic curve divisor: a scale-point gap maps to
	// 10:1 expected odds.
	scale = 400.0
)

// Expected returns the expected score of a player rated a against a
// player rated b. Expected(a, b) + Expected(b, a) == 1 for any finite
// pair.
func Expected(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (b-a)/scale))
}

// Update computes the post-vote ratings for a winner and loser.
// Both outputs are rounded to the nearest integer before persistence;
// callers that want the fractional delta should diff against the
// inputs. NaN inputs propagate as NaN outputs.
func Update(winner, loser, k float64) (newWinner, newLoser float64) {
	expectedWinner := Expected(winner, loser)
	expectedLoser := Expected(loser, winner)

	newWinner = math.Round(winner + k*(1.0-expectedWinner))
	newLoser = math.Round(loser + k*(0.0-expectedLoser))
	return newWinner, newLoser
}
