// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package feedback turns like and dislike ratings into preference sets and
// explains why a recommended movie fits the user's preferences.
package feedback

import (
	"fmt"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

// Ratings maps the rating categories to rated movie indices.
type Ratings struct {
	Like    []int `json:"like" validate:"dive,gte=0"`
	Dislike []int `json:"dislike" validate:"dive,gte=0"`
}

// Empty reports whether nothing was rated.
func (r Ratings) Empty() bool {
	return len(r.Like) == 0 && len(r.Dislike) == 0
}

// Sets is the flattened form of collected feedback, one deduplicated list per
// attribute and polarity.
type Sets struct {
	ActorsLiked       []string `json:"actors+"`
	ActorsDisliked    []string `json:"actors-"`
	DirectorsLiked    []string `json:"directors+"`
	DirectorsDisliked []string `json:"directors-"`
	KeywordsLiked     []string `json:"keywords+"`
	KeywordsDisliked  []string `json:"keywords-"`
}

// Collect unions the stars, directors and keywords of every rated movie into
// liked and disliked sets. A movie rated in both categories contributes to both.
func Collect(src catalog.Source, r Ratings) (scoring.Feedback, error) {
	fb := scoring.Feedback{
		LikedDirectors:    catalog.NewSet(),
		DislikedDirectors: catalog.NewSet(),
		LikedStars:        catalog.NewSet(),
		DislikedStars:     catalog.NewSet(),
		LikedKeywords:     catalog.NewSet(),
		DislikedKeywords:  catalog.NewSet(),
	}

	for _, idx := range r.Like {
		m, err := src.Movie(idx)
		if err != nil {
			return scoring.Feedback{}, fmt.Errorf("collect liked movie: %w", err)
		}
		fb.LikedStars.Add(m.Stars...)
		fb.LikedDirectors.Add(m.Directors...)
		fb.LikedKeywords.Add(m.Keywords...)
	}
	for _, idx := range r.Dislike {
		m, err := src.Movie(idx)
		if err != nil {
			return scoring.Feedback{}, fmt.Errorf("collect disliked movie: %w", err)
		}
		fb.DislikedStars.Add(m.Stars...)
		fb.DislikedDirectors.Add(m.Directors...)
		fb.DislikedKeywords.Add(m.Keywords...)
	}
	return fb, nil
}

// Flatten converts feedback into sorted lists.
func Flatten(fb scoring.Feedback) Sets {
	return Sets{
		ActorsLiked:       fb.LikedStars.Sorted(),
		ActorsDisliked:    fb.DislikedStars.Sorted(),
		DirectorsLiked:    fb.LikedDirectors.Sorted(),
		DirectorsDisliked: fb.DislikedDirectors.Sorted(),
		KeywordsLiked:     fb.LikedKeywords.Sorted(),
		KeywordsDisliked:  fb.DislikedKeywords.Sorted(),
	}
}

// Sample returns the movies shown to the user for rating: the genes of the
// best individual, deduplicated and in gene order.
func Sample(pop genetic.Population) []int {
	if len(pop) == 0 {
		return nil
	}
	return genetic.Population{pop[0]}.UniqueGenes()
}
