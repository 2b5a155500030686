// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package recommend

import (
	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/recommend/feedback"
	"github.com/reelpick/reelpick/internal/recommend/rerank"
)

// Recommendation is the final answer of a session.
type Recommendation struct {
	// Movie is the winning movie.
	Movie catalog.Movie `json:"movie"`

	// Score is the extended penalty of Movie. Lower is better.
	Score float64 `json:"score"`

	// Ranked lists every candidate best first.
	Ranked []rerank.ScoredCandidate `json:"ranked"`

	// Explanation describes why Movie matched.
	Explanation feedback.Explanation `json:"explanation"`

	// Feedback is the collected rating information.
	Feedback feedback.Sets `json:"feedback"`
}
