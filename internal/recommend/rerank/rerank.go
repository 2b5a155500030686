// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package rerank implements the exact second pass over the candidates found
// by the genetic search, scored with like and dislike feedback.
package rerank

import (
	"errors"
	"fmt"
	"sort"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

// ErrEmptyCandidateSet is returned when the population holds no genes.
var ErrEmptyCandidateSet = errors.New("no candidates to rerank")

// ScoredCandidate is a movie index with its phase-two penalty.
type ScoredCandidate struct {
	Index     int               `json:"index"`
	Score     float64           `json:"score"`
	Breakdown scoring.Breakdown `json:"breakdown"`
}

// Result is the outcome of a rerank.
type Result struct {
	Best   int               `json:"best"`
	Score  float64           `json:"score"`
	Ranked []ScoredCandidate `json:"ranked"`
}

// Candidates returns the unique movie indices across the population.
func Candidates(pop genetic.Population) []int {
	return pop.UniqueGenes()
}

// Rerank scores every unique candidate in pop with the extended penalty and
// returns them sorted ascending. Equal scores are ordered by index.
func Rerank(pop genetic.Population, src catalog.Source, prefs scoring.Preferences) (*Result, error) {
	return RerankIndices(Candidates(pop), src, prefs)
}

// RerankIndices is Rerank over an explicit candidate list. Duplicates are
// scored once.
func RerankIndices(indices []int, src catalog.Source, prefs scoring.Preferences) (*Result, error) {
	seen := make(map[int]struct{}, len(indices))
	ranked := make([]ScoredCandidate, 0, len(indices))
	for _, idx := range indices {
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}

		m, err := src.Movie(idx)
		if err != nil {
			return nil, fmt.Errorf("score candidate %d: %w", idx, err)
		}
		b := scoring.PhaseTwo(m, prefs)
		ranked = append(ranked, ScoredCandidate{Index: idx, Score: b.Total(), Breakdown: b})
	}
	if len(ranked) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score < ranked[j].Score
		}
		return ranked[i].Index < ranked[j].Index
	})

	return &Result{
		Best:   ranked[0].Index,
		Score:  ranked[0].Score,
		Ranked: ranked,
	}, nil
}
