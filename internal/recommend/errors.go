// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package recommend

import (
	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/rerank"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

// Errors callers match with errors.Is. They alias the sentinels of the
// subpackages so API code only imports recommend.
var (
	ErrInvalidConfig      = genetic.ErrInvalidConfig
	ErrInvalidPreferences = scoring.ErrInvalidPreferences
	ErrEmptyCandidateSet  = rerank.ErrEmptyCandidateSet
	ErrIndexOutOfRange    = catalog.ErrIndexOutOfRange
)
