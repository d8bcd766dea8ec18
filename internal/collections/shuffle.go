// Package collections provides ordering helpers for result slices.
package collections

import (
	"math"
	"math/rand/v2"
	"sort"
)

// Shuffle returns a uniformly shuffled copy of the input (Fisher-Yates).
func Shuffle[T any](source []T) []T {
	shuffled := append([]T(nil), source...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}

// WeightedShuffle returns a copy of the input ordered by weighted sampling
// without replacement: each item gets the key U^(1/weight) for U~Uniform(0,1)
// and items are sorted by key descending, so heavier items are more likely
// to sort earlier while the order stays random.
//
// Algorithm A from http://utopia.duth.gr/~pefraimi/research/data/2007EncOfAlg.pdf
func WeightedShuffle[T any](source []T, weight func(T) float64) []T {
	keys := make(map[int]float64, len(source))
	for i, item := range source {
		w := weight(item)
		if math.IsNaN(w) || w <= 0 {
			w = math.SmallestNonzeroFloat64
		}

		keys[i] = math.Pow(rand.Float64(), 1/w)
	}

	indexes := make([]int, len(source))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return keys[indexes[a]] > keys[indexes[b]]
	})

	shuffled := make([]T, len(source))
	for i, idx := range indexes {
		shuffled[i] = source[idx]
	}

	return shuffled
}
