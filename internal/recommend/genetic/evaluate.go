// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package genetic

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Evaluator computes the fitness of a gene sequence. Implementations must be
// pure and safe for concurrent use.
type Evaluator interface {
	Evaluate(genes []int) (float64, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(genes []int) (float64, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(genes []int) (float64, error) {
	return f(genes)
}

// EvaluateInvalid recomputes the fitness of every invalid individual, using
// at most workers goroutines. It returns the number of evaluations.
func EvaluateInvalid(ctx context.Context, pop Population, eval Evaluator, workers int) (int, error) {
	pending := pop.Invalid()
	if len(pending) == 0 {
		return 0, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if workers == 1 || len(pending) == 1 {
		for _, ind := range pending {
			f, err := eval.Evaluate(ind.genes)
			if err != nil {
				return 0, err
			}
			ind.SetFitness(f)
		}
		return len(pending), nil
	}

	results := make([]float64, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ind := range pending {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			f, err := eval.Evaluate(ind.genes)
			if err != nil {
				return err
			}
			results[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for i, ind := range pending {
		ind.SetFitness(results[i])
	}
	return len(pending), nil
}
