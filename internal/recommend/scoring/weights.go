// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package scoring

// MaxPublicationDistance is the widest supported gap, in years, between a
// release year and the desired period.
const MaxPublicationDistance = 105

// Length domain in minutes, in brackets of LengthStep.
const (
	MinLength  = 40
	MaxLength  = 240
	LengthStep = 5

	// DMax is the number of bracket steps spanning the length domain.
	DMax = (MaxLength - MinLength) / LengthStep
)

// ScoreMax is the top of the rating scale.
const ScoreMax = 10.0

// Phase-one weights.
const (
	WeightPublication = 10.0 / MaxPublicationDistance
	WeightLength      = 0.5
	WeightScore       = 0.5
	WeightGenres      = 2.7
)

// Phase-two weights derive from the phase-one total.
var (
	WeightB         = (WeightGenres + WeightPublication + WeightLength + WeightScore) / 20
	WeightDirectors = WeightB / 2
	WeightKeywords  = WeightB

	// WeightActors is reserved for an actor term. Actor feedback is collected
	// but not scored.
	WeightActors = WeightB / 3
)
