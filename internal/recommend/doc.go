// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package recommend wires the two recommendation phases into an Engine.
//
// # Pipeline
//
//  1. Search: a genetic algorithm evolves sets of movie indices against the
//     phase-one penalty (publication period, length, genres, quality). The
//     final population is returned sorted best first.
//  2. Feedback: the user rates a sample of the best set. Stars, directors and
//     keywords of liked and disliked movies become preference sets.
//  3. Rerank: every unique movie in the final population is scored with the
//     extended penalty and the lowest score wins.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), cat, logger)
//	prefs := scoring.NewPreferences(scoring.Period{Start: 1990, End: 2000}, 120, "Drama")
//	res, err := engine.Search(ctx, prefs, nil)
//	rec, err := engine.Recommend(ctx, res.Population, prefs, feedback.Ratings{Like: []int{3}})
//
// StartSearch runs the search on its own goroutine and returns a Future, which
// is how the HTTP API keeps requests short while a search runs.
//
// The Engine is safe for concurrent use. A search cannot be cancelled once
// started; the context only carries request-scoped values into the logs.
package recommend
