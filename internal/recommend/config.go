// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package recommend

import (
	"fmt"

	"github.com/reelpick/reelpick/internal/recommend/genetic"
)

// Config configures an Engine.
type Config struct {
	// Search holds the genetic algorithm parameters.
	Search genetic.Config `json:"search"`

	// CacheSize bounds the decoded-movie LRU in front of the catalog.
	// Zero disables caching.
	CacheSize int `json:"cache_size"`

	// SampleSize caps how many movies of the best set are offered for rating.
	// Zero offers all of them.
	SampleSize int `json:"sample_size"`
}

// DefaultConfig returns the library defaults.
func DefaultConfig() *Config {
	return &Config{
		Search:    genetic.DefaultConfig(),
		CacheSize: 4096,
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must not be negative, got %d", ErrInvalidConfig, c.CacheSize)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("%w: sample size must not be negative, got %d", ErrInvalidConfig, c.SampleSize)
	}
	return nil
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
