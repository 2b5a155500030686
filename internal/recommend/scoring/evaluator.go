// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package scoring

import "github.com/reelpick/reelpick/internal/catalog"

// SetEvaluator scores a set of catalog indices as the sum of each movie's
// phase-one fitness. It is safe for concurrent use when src is.
type SetEvaluator struct {
	src   catalog.Source
	prefs Preferences
}

// NewSetEvaluator binds a movie source to phase-one preferences.
func NewSetEvaluator(src catalog.Source, prefs Preferences) *SetEvaluator {
	return &SetEvaluator{src: src, prefs: prefs}
}

// Evaluate sums MovieFitness over genes. Any lookup failure, including an
// out-of-range index, is returned unchanged.
func (e *SetEvaluator) Evaluate(genes []int) (float64, error) {
	total := 0.0
	for _, idx := range genes {
		m, err := e.src.Movie(idx)
		if err != nil {
			return 0, err
		}
		total += MovieFitness(m, e.prefs)
	}
	return total, nil
}
