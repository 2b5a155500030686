// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package scoring implements the penalty functions that rank movies against
// user preferences. Every function is pure; lower values are better.
//
// A movie's phase-one fitness is the sum, in this order, of:
//
//	PublicationPenalty + LengthPenalty + ListOverlapPenalty(genres) + QualityPenalty
//
// Phase two adds a director term and a keyword term, each computed as the
// normalized overlap with the liked set minus the normalized overlap with the
// disliked set. Both sides use the normalized formula. As a consequence a
// perfectly matched liked set contributes 0 rather than a bonus; this matches
// the historical ranking and is kept deliberately.
//
// Missing data is never an error here: an absent year, zero runtime or empty
// list yields the maximal penalty for that term.
package scoring
