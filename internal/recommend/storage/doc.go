// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package storage persists recommendation sessions and tuning sweeps in
// BadgerDB.
//
// Records are JSON encoded and keyed by prefix:
//
//	rec:{id}                     finished recommendation sessions
//	tune:{sweep}:{seq}           one parameter combination of a sweep
//
// Sequence numbers are zero padded so prefix iteration returns a sweep in
// the order it was run.
//
//	store, err := storage.Open(storage.Options{Dir: "/var/lib/reelpick"}, logger)
//	id, err := store.SaveRecommendation(ctx, &storage.RecommendationRecord{...})
//	rec, err := store.GetRecommendation(ctx, id)
package storage
