// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package validation validates API request bodies with go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Field errors are
// reported under the JSON names of the offending fields, so that messages
// line up with what clients send:
//
//	type SearchRequest struct {
//	    PeriodStart int      `json:"period_start" validate:"gte=0"`
//	    PeriodEnd   int      `json:"period_end" validate:"gtefield=PeriodStart"`
//	    Genres      []string `json:"genres" validate:"required,min=1,dive,genre"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Tags
//
//   - genre: a single non-empty genre token with no comma and no surrounding
//     whitespace, matching how catalog genre lists are split
//   - step=N: an integer that is a multiple of N, used for length brackets
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use. The validator
// caches struct metadata after the first call for each type.
package validation
