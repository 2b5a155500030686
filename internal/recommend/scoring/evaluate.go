// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package scoring

import "github.com/reelpick/reelpick/internal/catalog"

// Breakdown holds the individual penalty terms for one movie.
type Breakdown struct {
	Publication float64 `json:"publication"`
	Length      float64 `json:"length"`
	Genres      float64 `json:"genres"`
	Quality     float64 `json:"quality"`
	Directors   float64 `json:"directors"`
	Keywords    float64 `json:"keywords"`
}

// Total sums the terms in a fixed order so results are reproducible.
func (b Breakdown) Total() float64 {
	return b.Publication + b.Length + b.Genres + b.Quality + b.Directors + b.Keywords
}

// PhaseOne computes the four base terms for a movie.
func PhaseOne(m catalog.Movie, p Preferences) Breakdown {
	return Breakdown{
		Publication: PublicationPenalty(m.Year, m.HasYear, p.Period, WeightPublication),
		Length:      LengthPenalty(m.Minutes, p.Length, WeightLength),
		Genres:      ListOverlapPenalty(m.Genres, p.Genres, WeightGenres, true),
		Quality:     QualityPenalty(m.Rating, WeightScore),
	}
}

// PhaseTwo extends PhaseOne with the director and keyword feedback terms.
func PhaseTwo(m catalog.Movie, p Preferences) Breakdown {
	b := PhaseOne(m, p)
	fb := p.Feedback
	b.Directors = ListOverlapPenalty(m.Directors, fb.LikedDirectors, WeightDirectors, true) -
		ListOverlapPenalty(m.Directors, fb.DislikedDirectors, WeightDirectors, true)
	b.Keywords = ListOverlapPenalty(m.Keywords, fb.LikedKeywords, WeightKeywords, true) -
		ListOverlapPenalty(m.Keywords, fb.DislikedKeywords, WeightKeywords, true)
	return b
}

// MovieFitness is the phase-one penalty of a single movie.
func MovieFitness(m catalog.Movie, p Preferences) float64 {
	return PhaseOne(m, p).Total()
}

// ExtendedPenalty is the phase-two penalty of a single movie.
func ExtendedPenalty(m catalog.Movie, p Preferences) float64 {
	return PhaseTwo(m, p).Total()
}
