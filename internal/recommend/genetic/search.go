// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package genetic

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// GenerationStats summarizes one completed generation. Generation 0 is the
// initial population.
type GenerationStats struct {
	Generation  int           `json:"generation"`
	Best        float64       `json:"best"`
	Mean        float64       `json:"mean"`
	Worst       float64       `json:"worst"`
	BestSoFar   float64       `json:"best_so_far"`
	Stagnation  int           `json:"stagnation"`
	Evaluations int           `json:"evaluations"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Observer receives stats after every generation. It runs on the search
// goroutine and must not block for long.
type Observer func(GenerationStats)

// Result is the outcome of a run.
type Result struct {
	// Population is the final population sorted best first.
	Population Population

	// Generations is the number of generations executed.
	Generations int

	// Stagnated is true when the run stopped on the stagnation bound.
	Stagnated bool

	// Evaluations counts fitness computations, initial population included.
	Evaluations int

	Duration time.Duration
}

// Best returns the best individual of the run.
func (r *Result) Best() *Individual {
	if len(r.Population) == 0 {
		return nil
	}
	return r.Population[0]
}

// Searcher runs the generational loop. A Searcher holds no per-run state and
// may be shared; every Run owns its own random generator.
type Searcher struct {
	config Config
	logger zerolog.Logger
}

// NewSearcher validates cfg and returns a Searcher.
func NewSearcher(cfg Config, logger zerolog.Logger) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Searcher{
		config: cfg,
		logger: logger.With().Str("component", "genetic-search").Logger(),
	}, nil
}

// Config returns the searcher configuration.
func (s *Searcher) Config() Config {
	return s.config
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // clock seed, sign is irrelevant
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Run searches a catalog of catalogSize movies. Generations run strictly in
// sequence; only fitness evaluation within a generation is parallel.
//
// Runs are not cancellable: cancellation of ctx is ignored and the loop
// always reaches one of its termination bounds. An evaluation error, such as
// an out-of-range catalog index, aborts the run.
func (s *Searcher) Run(ctx context.Context, catalogSize int, eval Evaluator, observe Observer) (*Result, error) {
	if catalogSize <= 0 {
		return nil, fmt.Errorf("%w: catalog size must be positive, got %d", ErrInvalidConfig, catalogSize)
	}
	ctx = context.WithoutCancel(ctx)

	cfg := s.config
	rng := newRand(cfg.Seed)
	start := time.Now()

	pop := make(Population, cfg.PopulationSize)
	for i := range pop {
		pop[i] = RandomIndividual(cfg.Genes, catalogSize, rng)
	}
	evaluations, err := EvaluateInvalid(ctx, pop, eval, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("evaluate initial population: %w", err)
	}

	bestSoFar, _, _ := pop.Stats()
	gen, stagnation := 0, 0
	notify := func(n int) {
		if observe == nil {
			return
		}
		best, mean, worst := pop.Stats()
		observe(GenerationStats{
			Generation:  gen,
			Best:        best,
			Mean:        mean,
			Worst:       worst,
			BestSoFar:   bestSoFar,
			Stagnation:  stagnation,
			Evaluations: n,
			Elapsed:     time.Since(start),
		})
	}
	notify(evaluations)

	for gen < cfg.MaxGenerations && stagnation < StagnationBound {
		gen++

		if gen > cfg.MinGenerations {
			bestNow, _, _ := pop.Stats()
			if bestNow < bestSoFar {
				bestSoFar = bestNow
				stagnation = 0
			} else {
				stagnation++
			}
		}

		offspring := SelectTournament(pop, len(pop), TournamentSize, TournamentP, rng)
		for i := range offspring {
			offspring[i] = offspring[i].Clone()
		}

		for i := 0; i+1 < len(offspring); i += 2 {
			if rng.Float64() < cfg.CrossoverProb {
				CrossoverUniform(offspring[i], offspring[i+1], CrossoverIndpb, rng)
			}
		}

		for _, mutant := range offspring {
			if rng.Float64() < cfg.MutationProb {
				MutateReset(mutant, catalogSize, MutationIndpb, rng)
			}
		}

		n, err := EvaluateInvalid(ctx, offspring, eval, cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("evaluate generation %d: %w", gen, err)
		}
		evaluations += n

		pop = offspring
		notify(n)

		s.logger.Debug().
			Int("generation", gen).
			Float64("best_so_far", bestSoFar).
			Int("stagnation", stagnation).
			Int("evaluations", n).
			Msg("Generation complete")
	}

	pop.Sort()
	result := &Result{
		Population:  pop,
		Generations: gen,
		Stagnated:   stagnation >= StagnationBound,
		Evaluations: evaluations,
		Duration:    time.Since(start),
	}

	s.logger.Info().
		Int("generations", result.Generations).
		Bool("stagnated", result.Stagnated).
		Int("evaluations", result.Evaluations).
		Float64("best_fitness", result.Best().Fitness()).
		Dur("duration", result.Duration).
		Msg("Search finished")

	return result, nil
}
