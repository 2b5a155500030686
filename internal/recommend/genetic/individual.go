// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package genetic

import (
	"fmt"
	"sort"
)

// Individual is one candidate set of movie indices.
type Individual struct {
	genes   []int
	fitness float64
	valid   bool
}

// NewIndividual creates an Individual with the given genes and no fitness.
func NewIndividual(genes []int) *Individual {
	g := make([]int, len(genes))
	copy(g, genes)
	return &Individual{genes: g}
}

// Genes returns a copy of the gene sequence.
func (ind *Individual) Genes() []int {
	out := make([]int, len(ind.genes))
	copy(out, ind.genes)
	return out
}

// Len returns the number of genes.
func (ind *Individual) Len() int {
	return len(ind.genes)
}

// Gene returns the gene at position i.
func (ind *Individual) Gene(i int) int {
	return ind.genes[i]
}

// SetGene replaces the gene at position i and invalidates the fitness if the
// value changed. It reports whether the gene changed.
func (ind *Individual) SetGene(i, value int) bool {
	if ind.genes[i] == value {
		return false
	}
	ind.genes[i] = value
	ind.valid = false
	return true
}

// Valid reports whether the fitness is current.
func (ind *Individual) Valid() bool {
	return ind.valid
}

// Fitness returns the current fitness. It panics if the fitness was
// invalidated and not recomputed.
func (ind *Individual) Fitness() float64 {
	if !ind.valid {
		panic(fmt.Sprintf("genetic: fitness read while invalid for genes %v", ind.genes))
	}
	return ind.fitness
}

// SetFitness stores a freshly computed fitness.
func (ind *Individual) SetFitness(f float64) {
	ind.fitness = f
	ind.valid = true
}

// Invalidate clears the fitness.
func (ind *Individual) Invalidate() {
	ind.valid = false
}

// Clone returns an independent copy, fitness included.
func (ind *Individual) Clone() *Individual {
	c := NewIndividual(ind.genes)
	c.fitness = ind.fitness
	c.valid = ind.valid
	return c
}

// Population is an ordered set of individuals.
type Population []*Individual

// Sort orders the population by ascending fitness, best first. Ties keep
// their relative order.
func (p Population) Sort() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Fitness() < p[j].Fitness()
	})
}

// Best returns the lowest fitness individual, or nil for an empty population.
func (p Population) Best() *Individual {
	if len(p) == 0 {
		return nil
	}
	best := p[0]
	for _, ind := range p[1:] {
		if ind.Fitness() < best.Fitness() {
			best = ind
		}
	}
	return best
}

// Stats returns the minimum, mean and maximum fitness.
func (p Population) Stats() (minFit, mean, maxFit float64) {
	if len(p) == 0 {
		return 0, 0, 0
	}
	minFit, maxFit = p[0].Fitness(), p[0].Fitness()
	sum := 0.0
	for _, ind := range p {
		f := ind.Fitness()
		sum += f
		minFit = min(minFit, f)
		maxFit = max(maxFit, f)
	}
	return minFit, sum / float64(len(p)), maxFit
}

// UniqueGenes flattens every gene of every individual into a list of unique
// indices in first-seen order.
func (p Population) UniqueGenes() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, ind := range p {
		for _, g := range ind.genes {
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// Invalid returns the individuals whose fitness must be recomputed.
func (p Population) Invalid() Population {
	var out Population
	for _, ind := range p {
		if !ind.valid {
			out = append(out, ind)
		}
	}
	return out
}
