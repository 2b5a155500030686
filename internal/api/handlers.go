// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/reelpick/reelpick/internal/recommend"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/storage"
	ws "github.com/reelpick/reelpick/internal/websocket"
)

// ReportStore is the part of storage.ReportStore the handlers use.
type ReportStore interface {
	SaveRecommendation(ctx context.Context, rec *storage.RecommendationRecord) (string, error)
	GetRecommendation(ctx context.Context, id string) (*storage.RecommendationRecord, error)
	ListRecommendations(ctx context.Context, limit int) ([]*storage.RecommendationRecord, error)
	ListTuning(ctx context.Context, sweep string) ([]storage.TuningRecord, error)
}

// ProgressBus is the part of progress.Bus the handlers use.
type ProgressBus interface {
	Observer(searchID string) genetic.Observer
	Finish(ctx context.Context, searchID string, err error)
	BreakerState() string
}

// Options carries the optional dependencies of a Handler. Nil fields disable
// the endpoints that need them.
type Options struct {
	Store   ReportStore
	Bus     ProgressBus
	Hub     *ws.Hub
	Version string

	// AllowedOrigins restricts websocket upgrades. Empty allows same-origin
	// requests only.
	AllowedOrigins []string

	// KeepSearches bounds how many finished searches stay queryable.
	KeepSearches int
}

// Handler serves the recommendation API.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_health.go: health endpoint
//   - handlers_search.go: search lifecycle, sample and rerank
//   - handlers_reports.go: stored recommendations and tuning sweeps
//   - handlers_stream.go: websocket progress stream
type Handler struct {
	engine    *recommend.Engine
	searches  *Searches
	store     ReportStore
	bus       ProgressBus
	hub       *ws.Hub
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
	version   string
	startTime time.Time

	// pending tracks search goroutines so that shutdown can wait for them.
	pending sync.WaitGroup
}

// NewHandler creates a Handler over engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine *recommend.Engine, opts Options, logger zerolog.Logger) *Handler {
	h := &Handler{
		engine:    engine,
		searches:  NewSearches(opts.KeepSearches),
		store:     opts.Store,
		bus:       opts.Bus,
		hub:       opts.Hub,
		logger:    logger.With().Str("component", "api").Logger(),
		version:   opts.Version,
		startTime: time.Now(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return h
}

// Searches exposes the search registry.
func (h *Handler) Searches() *Searches {
	return h.searches
}

// WaitIdle blocks until no search goroutine is running or ctx is done.
func (h *Handler) WaitIdle(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
