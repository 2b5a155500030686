// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package logging provides the process-wide zerolog logger.
//
// The global logger is configured once from main with Init and used through
// the package-level helpers:
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Int("movies", n).Msg("catalog loaded")
//
// Components derive a child logger with WithComponent and keep it for their
// lifetime. Request-scoped code uses Ctx, which attaches the request and
// search IDs carried by the context:
//
//	ctx = logging.ContextWithSearchID(ctx, id)
//	logging.Ctx(ctx).Debug().Int("generation", g).Msg("generation done")
//
// Two adapters route third-party logging through the same sink. SlogHandler
// serves libraries that take a *slog.Logger (the suture supervisor hook) and
// WatermillAdapter implements watermill.LoggerAdapter for the progress bus.
//
// Always finish an event with Msg or Send; an unfinished event is dropped.
package logging
