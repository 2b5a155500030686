// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package genetic implements the phase-one search: a generational genetic
// algorithm over fixed-length sets of catalog indices.
//
// # Representation
//
// An Individual is Genes catalog indices drawn uniformly from
// [0, catalogSize). Its fitness is computed lazily by an Evaluator and is
// cleared whenever a gene changes. Reading an invalid fitness panics; the
// search always re-evaluates before comparing.
//
// # Generation
//
// Each generation runs, strictly in order:
//
//  1. stagnation bookkeeping once past MinGenerations
//  2. probabilistic tournament selection (size 3, top bias 0.7)
//  3. cloning followed by pairwise uniform gene swap with probability CrossoverProb
//  4. per-gene random reset with probability MutationProb per individual
//  5. re-evaluation of invalidated individuals, optionally in parallel
//  6. full generational replacement
//
// The loop stops at MaxGenerations or after StagnationBound consecutive
// generations without improvement. The final population is returned sorted
// best first.
//
// Randomness comes from a single math/rand/v2 generator owned by the run.
// Parallel evaluation does not consume randomness, so a fixed seed gives the
// same result regardless of the worker count.
package genetic
