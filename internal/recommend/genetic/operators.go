// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package genetic

import (
	"math/rand/v2"
	"sort"
)

// Fixed operator parameters.
const (
	TournamentSize  = 3
	TournamentP     = 0.7
	CrossoverIndpb  = 0.5
	MutationIndpb   = 0.2
	StagnationBound = 2
)

// RandomIndividual draws n genes uniformly from [0, catalogSize).
func RandomIndividual(n, catalogSize int, rng *rand.Rand) *Individual {
	genes := make([]int, n)
	for i := range genes {
		genes[i] = rng.IntN(catalogSize)
	}
	return &Individual{genes: genes}
}

// rankWeights returns p, p(1-p), p(1-p)^2, ... normalized to sum to 1.
func rankWeights(n int, p float64) []float64 {
	weights := make([]float64, n)
	total := 0.0
	w := p
	for i := range weights {
		weights[i] = w
		total += w
		w *= 1 - p
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// SelectTournament picks k individuals by probabilistic tournament.
//
// For every pick, size distinct aspirants are sampled without replacement and
// ranked best first. The winner is drawn with rank weights p(1-p)^i. Picks
// are references into pop; callers clone before modifying.
func SelectTournament(pop Population, k, size int, p float64, rng *rand.Rand) Population {
	if len(pop) == 0 || k <= 0 {
		return nil
	}
	size = min(size, len(pop))
	weights := rankWeights(size, p)

	chosen := make(Population, 0, k)
	aspirants := make(Population, size)
	picked := make([]int, 0, size)
	for range k {
		picked = sampleDistinct(len(pop), size, picked[:0], rng)
		for i, idx := range picked {
			aspirants[i] = pop[idx]
		}
		sort.SliceStable(aspirants, func(i, j int) bool {
			return aspirants[i].Fitness() < aspirants[j].Fitness()
		})
		chosen = append(chosen, aspirants[weightedIndex(weights, rng)])
	}
	return chosen
}

// sampleDistinct appends k distinct indices from [0, n) to dst.
func sampleDistinct(n, k int, dst []int, rng *rand.Rand) []int {
	for len(dst) < k {
		candidate := rng.IntN(n)
		dup := false
		for _, existing := range dst {
			if existing == candidate {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, candidate)
		}
	}
	return dst
}

func weightedIndex(weights []float64, rng *rand.Rand) int {
	r := rng.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// CrossoverUniform swaps genes at matching positions between a and b, each
// position independently with probability indpb. Both individuals are
// invalidated if any position was swapped. It reports whether a swap happened.
func CrossoverUniform(a, b *Individual, indpb float64, rng *rand.Rand) bool {
	n := min(len(a.genes), len(b.genes))
	swapped := false
	for i := range n {
		if rng.Float64() < indpb {
			a.genes[i], b.genes[i] = b.genes[i], a.genes[i]
			swapped = true
		}
	}
	if swapped {
		a.Invalidate()
		b.Invalidate()
	}
	return swapped
}

// MutateReset replaces each gene, independently with probability indpb, by a
// fresh uniform index in [0, catalogSize). It reports whether any gene changed.
func MutateReset(ind *Individual, catalogSize int, indpb float64, rng *rand.Rand) bool {
	changed := false
	for i := range ind.genes {
		if rng.Float64() < indpb {
			if ind.SetGene(i, rng.IntN(catalogSize)) {
				changed = true
			}
		}
	}
	return changed
}
