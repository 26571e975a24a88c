// Package ranking derives display ranks from the rated pool.
package ranking

import (
	"sort"

	"github.com/okian/faceoff/internal/domain/model"
)

// ByCategory computes each player's rank within its category tag,
// ordered by rating descending. Tied ratings all receive the minimum
// (best) rank among them; the next rank skips past the tie group.
// The result maps player id to rank and has no effect on sampling or
// rating updates.
func ByCategory(players []model.Player) map[string]int {
	byCat := make(map[string][]model.Player)
	for _, p := range players {
		byCat[p.Category] = append(byCat[p.Category], p)
	}

	ranks := make(map[string]int, len(players))
	for _, group := range byCat {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Rating > group[j].Rating
		})

		rank := 1
		for i, p := range group {
			if i > 0 && group[i].Rating == group[i-1].Rating {
				ranks[p.ID] = ranks[group[i-1].ID]
			} else {
				ranks[p.ID] = rank
			}
			rank++
		}
	}
	return ranks
}
