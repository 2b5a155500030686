// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package scoring

import (
	"math"

	"github.com/reelpick/reelpick/internal/catalog"
)

// PublicationPenalty scores how far a release year falls outside the
// inclusive period. An absent year scores the full weight.
func PublicationPenalty(year int, hasYear bool, period Period, weight float64) float64 {
	if !hasYear {
		return weight
	}
	if period.Contains(year) {
		return 0
	}
	distance := max(period.Start-year, year-period.End)
	return float64(distance) * weight
}

// ListOverlapPenalty scores a movie's list attribute against a wanted set.
//
// An empty movie list scores the full weight and an empty wanted set scores 0.
// Normalized, the result is the weighted fraction of wanted items the movie
// does not match. Otherwise it is a negative bonus of weight per match.
func ListOverlapPenalty(movie []string, wanted catalog.Set, weight float64, normalize bool) float64 {
	if len(movie) == 0 {
		return weight
	}
	if wanted.Len() == 0 {
		return 0
	}

	matches := 0
	for _, item := range movie {
		if wanted.Has(item) {
			matches++
		}
	}

	if normalize {
		return float64(wanted.Len()-matches) * weight / float64(wanted.Len())
	}
	return -(float64(matches) * weight)
}

// QualityPenalty decreases linearly as the rating approaches ScoreMax.
// Undefined ratings must already be sanitized to 0.
func QualityPenalty(rating, weight float64) float64 {
	return weight - (rating / ScoreMax * weight)
}

// LengthBracket rounds minutes to a multiple of LengthStep. Remainders up to
// 2 round down, 3 and 4 round up.
func LengthBracket(minutes int) int {
	rem := minutes % LengthStep
	if rem <= 2 {
		return minutes - rem
	}
	return minutes + LengthStep - rem
}

// LengthPenalty scores the bracket distance between a runtime and the desired
// length. A zero runtime means unknown and scores the full weight.
func LengthPenalty(minutes, desired int, weight float64) float64 {
	if minutes <= 0 {
		return weight
	}
	d := math.Abs(float64(desired-LengthBracket(minutes))) / LengthStep
	return d / DMax * weight
}
