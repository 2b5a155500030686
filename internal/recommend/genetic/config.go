// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package genetic

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when search parameters cannot produce a run.
var ErrInvalidConfig = errors.New("invalid search configuration")

// Config tunes one search run.
type Config struct {
	// PopulationSize is the number of individuals per generation.
	PopulationSize int `json:"pop_size"`

	// Genes is the number of movie indices per individual.
	Genes int `json:"genes"`

	// CrossoverProb is the probability a consecutive pair is crossed.
	CrossoverProb float64 `json:"cxpb"`

	// MutationProb is the probability an individual is mutated.
	MutationProb float64 `json:"mutpb"`

	// MinGenerations is the number of generations before stagnation is tracked.
	MinGenerations int `json:"min_iter"`

	// MaxGenerations caps the run.
	MaxGenerations int `json:"max_iter"`

	// Workers bounds parallel fitness evaluation. Zero uses GOMAXPROCS.
	Workers int `json:"workers"`

	// Seed makes runs reproducible. Zero seeds from the clock.
	Seed uint64 `json:"seed"`
}

// DefaultConfig returns the library defaults.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 100,
		Genes:          5,
		CrossoverProb:  0.2,
		MutationProb:   0.02,
		MinGenerations: 5,
		MaxGenerations: 15,
	}
}

// Validate rejects configurations that cannot run.
func (c Config) Validate() error {
	var errs []error
	if c.PopulationSize <= 0 {
		errs = append(errs, fmt.Errorf("pop_size must be positive, got %d", c.PopulationSize))
	}
	if c.Genes <= 0 {
		errs = append(errs, fmt.Errorf("genes must be positive, got %d", c.Genes))
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		errs = append(errs, fmt.Errorf("cxpb must be in [0, 1], got %v", c.CrossoverProb))
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		errs = append(errs, fmt.Errorf("mutpb must be in [0, 1], got %v", c.MutationProb))
	}
	if c.MinGenerations < 0 || c.MaxGenerations < 0 {
		errs = append(errs, fmt.Errorf("generation bounds must be non-negative, got min %d max %d", c.MinGenerations, c.MaxGenerations))
	}
	if c.MinGenerations > c.MaxGenerations {
		errs = append(errs, fmt.Errorf("min_iter %d exceeds max_iter %d", c.MinGenerations, c.MaxGenerations))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
