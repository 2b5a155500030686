// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package feedback

import (
	"fmt"
	"strings"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

// Explanation lists what a recommended movie has in common with the user's
// preferences.
type Explanation struct {
	Title          string   `json:"title"`
	Year           int      `json:"year,omitempty"`
	Minutes        int      `json:"minutes"`
	Rating         float64  `json:"rating"`
	InPeriod       bool     `json:"in_period"`
	LengthBracket  int      `json:"length_bracket,omitempty"`
	MatchedGenres  []string `json:"matched_genres,omitempty"`
	LikedDirectors []string `json:"liked_directors,omitempty"`
	LikedStars     []string `json:"liked_stars,omitempty"`
	LikedKeywords  []string `json:"liked_keywords,omitempty"`
}

// Explain builds the explanation for m.
func Explain(m catalog.Movie, p scoring.Preferences) Explanation {
	e := Explanation{
		Title:          m.Title,
		Year:           m.Year,
		Minutes:        m.Minutes,
		Rating:         m.Rating,
		InPeriod:       m.HasYear && p.Period.Contains(m.Year),
		MatchedGenres:  p.Genres.Intersect(m.Genres),
		LikedDirectors: p.Feedback.LikedDirectors.Intersect(m.Directors),
		LikedStars:     p.Feedback.LikedStars.Intersect(m.Stars),
		LikedKeywords:  p.Feedback.LikedKeywords.Intersect(m.Keywords),
	}
	if m.Minutes > 0 {
		e.LengthBracket = scoring.LengthBracket(m.Minutes)
	}
	return e
}

// Lines renders the explanation as short human readable sentences.
func (e Explanation) Lines() []string {
	var lines []string
	if e.InPeriod {
		lines = append(lines, fmt.Sprintf("Released in %d, inside your chosen period.", e.Year))
	}
	if len(e.MatchedGenres) > 0 {
		lines = append(lines, "Genres you asked for: "+strings.Join(e.MatchedGenres, ", ")+".")
	}
	if len(e.LikedDirectors) > 0 {
		lines = append(lines, "Directed by someone you liked: "+strings.Join(e.LikedDirectors, ", ")+".")
	}
	if len(e.LikedStars) > 0 {
		lines = append(lines, "Stars actors you liked: "+strings.Join(e.LikedStars, ", ")+".")
	}
	if len(e.LikedKeywords) > 0 {
		lines = append(lines, "Themes you enjoyed: "+strings.Join(e.LikedKeywords, ", ")+".")
	}
	if e.Rating > 0 {
		lines = append(lines, fmt.Sprintf("Rated %.1f/10.", e.Rating))
	}
	return lines
}
