package votesim

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync/atomic"
)

// ratingRoundingSlack is the per-vote tolerance for rating-sum drift.
// Each accepted vote rounds two ratings independently, so the pool
// total can move by at most one point per vote.
const ratingRoundingSlack = 1.0

// verifyResults checks the pool and leaderboard against the invariants
// a vote run must preserve.
func verifyResults(ctx context.Context, config *Config, before, after []player, leaderboard []leaderboardEntry, stats *Stats) error {
	log.Println("Verifying results...")

	if len(after) == 0 {
		return fmt.Errorf("no players to verify")
	}

	if len(before) != len(after) {
		return fmt.Errorf("pool size changed during the run: %d -> %d", len(before), len(after))
	}

	if err := verifyRatingConservation(before, after, stats); err != nil {
		return err
	}

	if err := verifyCategoryRanks(after); err != nil {
		return err
	}

	// Verify leaderboard consistency if we have leaderboard data
	if len(leaderboard) > 0 {
		if err := verifyLeaderboardConsistency(leaderboard, stats); err != nil {
			log.Printf("Leaderboard consistency warning: %v", err)
		} else {
			log.Println("Leaderboard consistency verified")
		}
	}

	displayTopPlayers(after, leaderboard, config.Verbose)

	log.Println("Result verification completed")
	return nil
}

// verifyRatingConservation checks that the vote run kept the pool's
// rating total stable up to integer rounding.
func verifyRatingConservation(before, after []player, stats *Stats) error {
	var sumBefore, sumAfter float64
	for _, p := range before {
		sumBefore += p.Rating
	}
	for _, p := range after {
		sumAfter += p.Rating
	}

	accepted := float64(atomic.LoadInt64(&stats.VotesAccepted))
	tolerance := accepted*ratingRoundingSlack + ratingRoundingSlack
	if drift := math.Abs(sumAfter - sumBefore); drift > tolerance {
		return fmt.Errorf("rating total drifted by %.1f (tolerance %.1f)", drift, tolerance)
	}

	return nil
}

// verifyCategoryRanks checks that within every category the rank-1
// player carries the category's maximum rating.
func verifyCategoryRanks(players []player) error {
	maxRating := make(map[string]float64)
	rankOne := make(map[string]float64)

	for _, p := range players {
		if r, ok := maxRating[p.Category]; !ok || p.Rating > r {
			maxRating[p.Category] = p.Rating
		}
		if p.CategoryRank == 1 {
			rankOne[p.Category] = p.Rating
		}
	}

	for category, top := range maxRating {
		r, ok := rankOne[category]
		if !ok {
			return fmt.Errorf("category %s has no rank-1 player", category)
		}
		if r != top {
			return fmt.Errorf("category %s rank-1 rating %.1f does not match maximum %.1f", category, r, top)
		}
	}

	return nil
}

// verifyLeaderboardConsistency checks ordering and vote totals.
func verifyLeaderboardConsistency(leaderboard []leaderboardEntry, stats *Stats) error {
	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	var total float64
	for i, entry := range leaderboard {
		total += entry.Votes
		if i > 0 && entry.Votes > leaderboard[i-1].Votes {
			return fmt.Errorf("leaderboard not properly sorted: entry %d has more votes than entry %d", i, i-1)
		}
	}

	// The fetched page may be truncated, so the page total can only be
	// bounded from above by what this run plus prior history recorded.
	if accepted := float64(atomic.LoadInt64(&stats.VotesAccepted)); total < accepted && stats.LeaderboardEntries == len(leaderboard) {
		log.Printf("leaderboard page total %.2f below accepted votes %.0f; prior data or truncation assumed", total, accepted)
	}

	return nil
}

// displayTopPlayers shows the strongest players and busiest voters.
func displayTopPlayers(players []player, leaderboard []leaderboardEntry, verbose bool) {
	sorted := make([]player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})

	topN := 10
	if len(sorted) < topN {
		topN = len(sorted)
	}

	log.Printf("Top %d players by rating:", topN)
	for i := 0; i < topN; i++ {
		p := sorted[i]
		log.Printf("   %d. %s (%s) - Rating: %.0f", i+1, p.ID, p.Category, p.Rating)
	}

	if len(leaderboard) > 0 {
		log.Printf("Top %d voters:", len(leaderboard))
		for _, entry := range leaderboard {
			log.Printf("   %d. %s - Votes: %.2f", entry.Rank, entry.Username, entry.Votes)
		}
	}

	if verbose && len(sorted) > 0 {
		sum := 0.0
		for _, p := range sorted {
			sum += p.Rating
		}
		log.Printf(`Rating statistics:
   Average: %.1f
   Maximum: %.0f
   Minimum: %.0f
`, sum/float64(len(sorted)), sorted[0].Rating, sorted[len(sorted)-1].Rating)
	}
}
