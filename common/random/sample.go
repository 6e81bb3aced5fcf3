package random

import (
	"fmt"
	"math/rand"
)

// Sample draws one key from a weighted distribution. The weights must sum
// to roughly 1.
func Sample[T comparable](rand *rand.Rand, probs map[T]float64) (T, error) {
	type entry struct {
		val  T
		prob float64
	}
	var entries []entry
	sum := 0.0

	for val, prob := range probs {
		entries = append(entries, entry{val, prob})
		sum += prob
	}

	var zero T
	if len(entries) == 0 {
		return zero, fmt.Errorf("empty distribution")
	}
	if sum < 0.95 || sum > 1.05 {
		return zero, fmt.Errorf("invalid probs sum != 1")
	}
	r := rand.Float64()
	cumulativeProb := 0.0
	for _, e := range entries {
		cumulativeProb += e.prob
		if r < cumulativeProb {
			return e.val, nil
		}
	}

	return entries[len(entries)-1].val, nil
}

// Pick returns a uniformly random element of the slice.
func Pick[T any](rand *rand.Rand, items []T) T {
	return items[rand.Intn(len(items))]
}
