package outfit

import (
	"math/rand"

	"outfitapi/models"
)

// BestMatch picks one item from candidates for a single slot. Scoring is the
// size of the overlap between the item's tags and the desired tags; all
// items sharing the maximal score are collected and one of them is chosen
// uniformly at random, so repeated generations with the same prompt can vary.
// When nothing scores (or no tags were desired) a uniformly random candidate
// is returned instead of leaving the slot empty.
func BestMatch(rng *rand.Rand, candidates []models.Clothing, desired TagSet) *models.Clothing {
	if len(candidates) == 0 {
		return nil
	}
	if len(desired) == 0 {
		return &candidates[rng.Intn(len(candidates))]
	}

	best := 0
	scores := make([]int, len(candidates))
	for i := range candidates {
		score := 0
		for _, tag := range candidates[i].Tags {
			if desired.Contains(tag) {
				score++
			}
		}
		scores[i] = score
		if score > best {
			best = score
		}
	}
	if best == 0 {
		return &candidates[rng.Intn(len(candidates))]
	}

	var tied []int
	for i, score := range scores {
		if score == best {
			tied = append(tied, i)
		}
	}
	return &candidates[tied[rng.Intn(len(tied))]]
}
