package markov

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// Rand is the uniform random-integer source used by the sampler.
// *rand.Rand from math/rand/v2 satisfies it, which is what tests inject to
// pin exact outputs. IntN must return a value in [0, n) without modulo
// bias and must not block.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the shared math/rand/v2 generator.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// weightedChoice draws one key from table with probability proportional to
// its count, after discarding entries whose probability falls below
// cutoff times the probability of the heaviest entry. If the filter would
// discard everything the full table is used instead; the sampler never
// starves. Candidates are walked in sorted key order, so a seeded Rand
// reproduces the same draw on every platform.
func weightedChoice[K cmp.Ordered](rng Rand, table map[K]int, cutoff float64) (K, bool) {
	var zero K
	if len(table) == 0 {
		return zero, false
	}

	keys := make([]K, 0, len(table))
	total, maxWeight := 0, 0
	for k, w := range table {
		keys = append(keys, k)
		total += w
		if w > maxWeight {
			maxWeight = w
		}
	}
	if total <= 0 {
		return zero, false
	}
	slices.Sort(keys)

	threshold := float64(maxWeight) / float64(total) * cutoff
	items := make([]K, 0, len(keys))
	weights := make([]int, 0, len(keys))
	sum := 0
	for _, k := range keys {
		w := table[k]
		if float64(w)/float64(total) >= threshold {
			items = append(items, k)
			weights = append(weights, w)
			sum += w
		}
	}
	if len(items) == 0 {
		items = items[:0]
		weights = weights[:0]
		sum = total
		for _, k := range keys {
			items = append(items, k)
			weights = append(weights, table[k])
		}
	}
	if len(items) == 1 {
		return items[0], true
	}

	r := rng.IntN(sum)
	for i, w := range weights {
		r -= w
		if r < 0 {
			return items[i], true
		}
	}
	return items[len(items)-1], true
}

// maxChoice returns the highest-count key, breaking ties toward the
// smaller key so the result is deterministic.
func maxChoice[K cmp.Ordered](table map[K]int) (K, bool) {
	var best K
	bestWeight := 0
	for k, w := range table {
		if w > bestWeight || (w == bestWeight && bestWeight > 0 && k < best) {
			best, bestWeight = k, w
		}
	}
	return best, bestWeight > 0
}
