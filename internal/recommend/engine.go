// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/metrics"
	"github.com/reelpick/reelpick/internal/recommend/feedback"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/rerank"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

// Engine runs searches and reranks against one catalog.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	source   catalog.Source
	searcher *genetic.Searcher
}

// NewEngine validates cfg and builds an Engine over acc. A nil cfg uses
// DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, acc catalog.Accessor, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if acc == nil || acc.Size() == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidConfig)
	}

	logger = logger.With().Str("component", "recommend").Logger()
	searcher, err := genetic.NewSearcher(cfg.Search, logger)
	if err != nil {
		return nil, err
	}

	var src catalog.Source = catalog.Decoder{Accessor: acc}
	if cfg.CacheSize > 0 {
		src = catalog.NewCachedFeatures(acc, cfg.CacheSize)
	}
	metrics.CatalogMovies.Set(float64(acc.Size()))

	return &Engine{
		config:   cfg.Clone(),
		logger:   logger,
		source:   src,
		searcher: searcher,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Catalog returns the decoded-movie source the engine scores against.
func (e *Engine) Catalog() catalog.Source {
	return e.source
}

// Movie decodes the movie at index.
func (e *Engine) Movie(index int) (catalog.Movie, error) {
	return e.source.Movie(index)
}

// Search runs the phase-one genetic search with the engine configuration.
// observe may be nil.
//
//nolint:gocritic // hugeParam: prefs passed by value, it is treated as immutable
func (e *Engine) Search(ctx context.Context, prefs scoring.Preferences, observe genetic.Observer) (*genetic.Result, error) {
	return e.search(ctx, e.searcher, prefs, observe)
}

// SearchWith runs a search with cfg instead of the engine configuration.
//
//nolint:gocritic // hugeParam: prefs passed by value, it is treated as immutable
func (e *Engine) SearchWith(ctx context.Context, cfg genetic.Config, prefs scoring.Preferences, observe genetic.Observer) (*genetic.Result, error) {
	searcher, err := genetic.NewSearcher(cfg, e.logger)
	if err != nil {
		return nil, err
	}
	return e.search(ctx, searcher, prefs, observe)
}

// StartSearch validates prefs and runs Search on a new goroutine. The run is
// detached from ctx cancellation; ctx only contributes its values.
//
//nolint:gocritic // hugeParam: prefs passed by value, it is treated as immutable
func (e *Engine) StartSearch(ctx context.Context, prefs scoring.Preferences, observe genetic.Observer) (*Future, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	return e.start(ctx, e.searcher, prefs, observe), nil
}

// StartSearchWith is StartSearch with cfg instead of the engine configuration.
// Both cfg and prefs are validated before the goroutine starts.
//
//nolint:gocritic // hugeParam: prefs passed by value, it is treated as immutable
func (e *Engine) StartSearchWith(ctx context.Context, cfg genetic.Config, prefs scoring.Preferences, observe genetic.Observer) (*Future, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	searcher, err := genetic.NewSearcher(cfg, e.logger)
	if err != nil {
		return nil, err
	}
	return e.start(ctx, searcher, prefs, observe), nil
}

//nolint:gocritic // hugeParam: prefs passed by value, it is treated as immutable
func (e *Engine) start(ctx context.Context, s *genetic.Searcher, prefs scoring.Preferences, observe genetic.Observer) *Future {
	ctx = context.WithoutCancel(ctx)

	f := newFuture()
	go func() {
		res, err := e.search(ctx, s, prefs, observe)
		f.complete(res, err)
	}()
	return f
}

//nolint:gocritic // hugeParam: prefs passed by value, it is treated as immutable
func (e *Engine) search(ctx context.Context, s *genetic.Searcher, prefs scoring.Preferences, observe genetic.Observer) (*genetic.Result, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	logger := e.loggerFor(ctx)
	logger.Info().
		Int("period_start", prefs.Period.Start).
		Int("period_end", prefs.Period.End).
		Int("length", prefs.Length).
		Strs("genres", prefs.Genres.Sorted()).
		Msg("search started")

	metrics.TrackSearch(true)
	defer metrics.TrackSearch(false)

	wrapped := func(st genetic.GenerationStats) {
		if st.Generation > 0 {
			metrics.RecordGeneration()
		}
		if observe != nil {
			observe(st)
		}
	}

	start := time.Now()
	eval := scoring.NewSetEvaluator(e.source, prefs)
	res, err := s.Run(ctx, e.source.Size(), eval, wrapped)
	if err != nil {
		metrics.RecordSearch(time.Since(start), 0, 0, 0, false, err)
		logger.Error().Err(err).Msg("search failed")
		return nil, err
	}

	metrics.RecordSearch(res.Duration, res.Generations, res.Evaluations, res.Best().Fitness(), res.Stagnated, nil)
	logger.Info().
		Int("generations", res.Generations).
		Bool("stagnated", res.Stagnated).
		Float64("best_fitness", res.Best().Fitness()).
		Ints("best_set", res.Best().Genes()).
		Dur("duration", res.Duration).
		Msg("search finished")
	return res, nil
}

// loggerFor tags the engine logger with the IDs carried by ctx.
func (e *Engine) loggerFor(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()
	if id := logging.SearchIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("search_id", id)
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	return logCtx.Logger()
}

// Sample returns the movies of the best individual offered for rating,
// capped at the configured sample size.
func (e *Engine) Sample(pop genetic.Population) []int {
	sample := feedback.Sample(pop)
	if n := e.config.SampleSize; n > 0 && len(sample) > n {
		sample = sample[:n]
	}
	return sample
}

// Feedback collects the liked and disliked attribute sets of the rated movies.
func (e *Engine) Feedback(ratings feedback.Ratings) (scoring.Feedback, error) {
	return feedback.Collect(e.source, ratings)
}

// Rerank scores every unique movie of pop with the extended penalty.
//
//nolint:gocritic // hugeParam: prefs passed by value, it is treated as immutable
func (e *Engine) Rerank(pop genetic.Population, prefs scoring.Preferences) (*rerank.Result, error) {
	start := time.Now()
	res, err := rerank.Rerank(pop, e.source, prefs)
	n := 0
	if res != nil {
		n = len(res.Ranked)
	}
	metrics.RecordRerank(time.Since(start), n, err, ErrEmptyCandidateSet)
	return res, err
}

// Recommend runs phase two: it folds ratings into prefs, reranks pop and
// explains the winner. Empty ratings are allowed; the rerank then orders by
// the phase-one terms alone.
//
//nolint:gocritic // hugeParam: prefs passed by value, it is treated as immutable
func (e *Engine) Recommend(ctx context.Context, pop genetic.Population, prefs scoring.Preferences, ratings feedback.Ratings) (*Recommendation, error) {
	logger := e.loggerFor(ctx)

	fb, err := e.Feedback(ratings)
	if err != nil {
		return nil, fmt.Errorf("collect feedback: %w", err)
	}
	extended := prefs.WithFeedback(fb)

	res, err := e.Rerank(pop, extended)
	if err != nil {
		if errors.Is(err, ErrEmptyCandidateSet) {
			logger.Warn().Msg("rerank requested for an empty population")
		}
		return nil, err
	}

	best, err := e.source.Movie(res.Best)
	if err != nil {
		return nil, fmt.Errorf("decode recommended movie: %w", err)
	}

	logger.Info().
		Int("movie", best.Index).
		Str("title", best.Title).
		Float64("score", res.Score).
		Int("candidates", len(res.Ranked)).
		Int("liked", len(ratings.Like)).
		Int("disliked", len(ratings.Dislike)).
		Msg("recommendation ready")

	return &Recommendation{
		Movie:       best,
		Score:       res.Score,
		Ranked:      res.Ranked,
		Explanation: feedback.Explain(best, extended),
		Feedback:    feedback.Flatten(fb),
	}, nil
}
