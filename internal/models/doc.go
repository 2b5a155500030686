// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package models defines the JSON bodies of the HTTP API: the response
// envelope shared by every endpoint and the request and response types of
// the search and rerank endpoints.
//
// Request types carry go-playground/validator tags and are checked with
// validation.ValidateStruct before they reach the engine.
package models
