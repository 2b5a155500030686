// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package tuning sweeps genetic search parameters over a grid and records how
// well each combination does for a fixed set of preferences.
package tuning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelpick/reelpick/internal/metrics"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
	"github.com/reelpick/reelpick/internal/recommend/storage"
)

// Grid lists the candidate values per parameter. Every combination is run.
type Grid struct {
	PopulationSizes []int     `koanf:"pop_sizes" json:"pop_sizes"`
	CrossoverProbs  []float64 `koanf:"cxpb" json:"cxpb"`
	MutationProbs   []float64 `koanf:"mutpb" json:"mutpb"`
	MinGenerations  []int     `koanf:"min_iter" json:"min_iter"`
	MaxGenerations  []int     `koanf:"max_iter" json:"max_iter"`
}

// DefaultGrid is the full historical parameter space: 8 population sizes,
// crossover 0.1..1.0, mutation 0.01..0.46, four minimum and four maximum
// generation counts.
func DefaultGrid() Grid {
	g := Grid{
		PopulationSizes: []int{10, 20, 30, 40, 50, 75, 100, 150},
		MinGenerations:  []int{5, 10, 20, 30},
		MaxGenerations:  []int{50, 75, 100, 150},
	}
	for x := 10; x <= 100; x += 10 {
		g.CrossoverProbs = append(g.CrossoverProbs, float64(x)/100)
	}
	for x := 1; x <= 50; x += 5 {
		g.MutationProbs = append(g.MutationProbs, float64(x)/100)
	}
	return g
}

// Size is the number of combinations before invalid ones are dropped.
func (g Grid) Size() int {
	return len(g.PopulationSizes) * len(g.CrossoverProbs) * len(g.MutationProbs) *
		len(g.MinGenerations) * len(g.MaxGenerations)
}

// Combinations expands the grid on top of base. Combinations that fail
// validation (for example min above max) are skipped.
//
//nolint:gocritic // hugeParam: base is copied per combination
func (g Grid) Combinations(base genetic.Config) []genetic.Config {
	out := make([]genetic.Config, 0, g.Size())
	for _, pop := range g.PopulationSizes {
		for _, cx := range g.CrossoverProbs {
			for _, mut := range g.MutationProbs {
				for _, minG := range g.MinGenerations {
					for _, maxG := range g.MaxGenerations {
						cfg := base
						cfg.PopulationSize = pop
						cfg.CrossoverProb = cx
						cfg.MutationProb = mut
						cfg.MinGenerations = minG
						cfg.MaxGenerations = maxG
						if cfg.Validate() != nil {
							continue
						}
						out = append(out, cfg)
					}
				}
			}
		}
	}
	return out
}

// Searcher runs one search with explicit parameters. *recommend.Engine
// implements it.
type Searcher interface {
	SearchWith(ctx context.Context, cfg genetic.Config, prefs scoring.Preferences, observe genetic.Observer) (*genetic.Result, error)
}

// Recorder persists finished sweeps. *storage.ReportStore implements it.
type Recorder interface {
	SaveTuning(ctx context.Context, sweep string, records []storage.TuningRecord) error
}

// Options control a sweep.
type Options struct {
	// Repeats is the number of searches per combination. Defaults to 1.
	Repeats int

	// Progress, when set, is called after each combination.
	Progress func(done, total int, rec storage.TuningRecord)
}

// Report is the outcome of a sweep.
type Report struct {
	Sweep    string                 `json:"sweep"`
	Records  []storage.TuningRecord `json:"records"`
	Best     storage.TuningRecord   `json:"best"`
	Duration time.Duration          `json:"duration"`
}

// Tuner runs sweeps.
type Tuner struct {
	searcher Searcher
	recorder Recorder
	logger   zerolog.Logger
}

// NewTuner returns a Tuner. recorder may be nil, in which case results are
// only returned and logged.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTuner(searcher Searcher, recorder Recorder, logger zerolog.Logger) *Tuner {
	return &Tuner{
		searcher: searcher,
		recorder: recorder,
		logger:   logger.With().Str("component", "tuning").Logger(),
	}
}

// Run searches every combination of grid applied to base. Seeds are derived
// from base.Seed so a seeded sweep is reproducible. Cancelling ctx stops the
// sweep between searches; records finished so far are still saved and the
// context error is returned alongside the partial report.
//
//nolint:gocritic // hugeParam: base and prefs are read-only inputs
func (t *Tuner) Run(ctx context.Context, grid Grid, base genetic.Config, prefs scoring.Preferences, opts Options) (*Report, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	combos := grid.Combinations(base)
	if len(combos) == 0 {
		return nil, fmt.Errorf("%w: grid has no valid combination", genetic.ErrInvalidConfig)
	}
	repeats := opts.Repeats
	if repeats <= 0 {
		repeats = 1
	}

	report := &Report{Sweep: uuid.NewString()[:8]}
	logger := t.logger.With().Str("sweep", report.Sweep).Logger()
	logger.Info().Int("combinations", len(combos)).Int("repeats", repeats).Msg("sweep started")
	start := time.Now()

	var runErr error
	for i, cfg := range combos {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		rec, err := t.runCombination(ctx, i, cfg, prefs, repeats)
		if err != nil {
			runErr = fmt.Errorf("combination %d: %w", i, err)
			break
		}
		report.Records = append(report.Records, rec)
		metrics.TuneRunsTotal.Inc()

		logger.Debug().
			Int("seq", rec.Seq).
			Int("pop_size", cfg.PopulationSize).
			Float64("cxpb", cfg.CrossoverProb).
			Float64("mutpb", cfg.MutationProb).
			Int("min_iter", cfg.MinGenerations).
			Int("max_iter", cfg.MaxGenerations).
			Float64("mean_best", rec.MeanBest).
			Msg("combination done")
		if opts.Progress != nil {
			opts.Progress(i+1, len(combos), rec)
		}
	}
	report.Duration = time.Since(start)

	for i, rec := range report.Records {
		if i == 0 || rec.MeanBest < report.Best.MeanBest {
			report.Best = rec
		}
	}

	if t.recorder != nil && len(report.Records) > 0 {
		if err := t.recorder.SaveTuning(context.WithoutCancel(ctx), report.Sweep, report.Records); err != nil {
			return report, errors.Join(runErr, fmt.Errorf("save sweep: %w", err))
		}
		// SaveTuning stamps the sweep id on each record.
		report.Best.Sweep = report.Sweep
	}

	logger.Info().
		Int("completed", len(report.Records)).
		Float64("best_mean", report.Best.MeanBest).
		Int("best_seq", report.Best.Seq).
		Dur("duration", report.Duration).
		Msg("sweep finished")
	return report, runErr
}

//nolint:gocritic // hugeParam: cfg and prefs are read-only inputs
func (t *Tuner) runCombination(ctx context.Context, seq int, cfg genetic.Config, prefs scoring.Preferences, repeats int) (storage.TuningRecord, error) {
	rec := storage.TuningRecord{Seq: seq, Config: cfg, Runs: repeats, MinBest: math.Inf(1)}

	var sumBest, sumGens float64
	var sumDur time.Duration
	stagnated := 0
	for r := 0; r < repeats; r++ {
		runCfg := cfg
		if cfg.Seed != 0 {
			runCfg.Seed = cfg.Seed + uint64(seq*repeats+r)
		}
		res, err := t.searcher.SearchWith(ctx, runCfg, prefs, nil)
		if err != nil {
			return rec, err
		}
		best := res.Best().Fitness()
		sumBest += best
		rec.MinBest = math.Min(rec.MinBest, best)
		sumGens += float64(res.Generations)
		sumDur += res.Duration
		if res.Stagnated {
			stagnated++
		}
	}

	n := float64(repeats)
	rec.MeanBest = sumBest / n
	rec.MeanGenerations = sumGens / n
	rec.MeanDuration = sumDur / time.Duration(repeats)
	rec.StagnationRate = float64(stagnated) / n
	return rec, nil
}
