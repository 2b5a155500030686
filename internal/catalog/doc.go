// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package catalog provides read-only access to the movie catalog consumed by
// the recommendation engine.
//
// The catalog stores raw attribute values in their canonical encodings
// (duration strings such as "1h 45m", ISO release dates, stringified lists
// such as "['Drama', 'Crime']"). The decoders in this package turn those raw
// values into the typed view used by scoring:
//
//   - ParseDuration: "<N>h <M>m", "<N>h" or "<M>m"; blank decodes to 0 minutes
//   - ParseRating: undefined numerics (NaN, nil) decode to 0
//   - ParseYear: integer prefix of "YYYY-MM-DD"; blank reports an absent year
//   - ParseList: native []string or the stringified list form; "[]" is empty
//
// Missing attributes never surface as errors. They decode to the documented
// sentinel (0, empty set, absent year) and scoring treats them as worst case.
//
// # Sources
//
// MemoryCatalog holds fully loaded rows and is what the engine reads from.
// LoadDuckDB fills a MemoryCatalog from a parquet or CSV export using DuckDB's
// file readers. CachedFeatures memoizes decoded movies so repeated fitness
// evaluations of the same index skip the decoders.
package catalog
