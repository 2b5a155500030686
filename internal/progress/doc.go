// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

/*
Package progress carries search progress from the genetic search to
WebSocket subscribers over an in-process watermill pub/sub.

	search goroutine ──Observer──▶ Bus.Publish ──gochannel──▶ Router ──▶ Sink (hub)

Publishing goes through a gobreaker circuit breaker: when delivery keeps
failing the breaker opens and progress events are dropped instead of
slowing the search. Progress is best effort; a dropped event never fails a
search.

Events are JSON (goccy/go-json) with the search ID in both the payload and
the message metadata, so a sink can route without decoding.
*/
package progress
