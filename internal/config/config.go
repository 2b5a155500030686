// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package config

import (
	"fmt"
	"time"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/progress"
	"github.com/reelpick/reelpick/internal/recommend"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/storage"
	"github.com/reelpick/reelpick/internal/recommend/tuning"
	"github.com/reelpick/reelpick/internal/websocket"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: defaultConfig()
//  2. Config File: config.yaml (or the file named by CONFIG_PATH)
//  3. Environment Variables: override any mapped setting
//
// Sections:
//   - Server: HTTP listener, CORS and rate limiting
//   - Logging: zerolog level and format
//   - Catalog: the movie catalog file and decode cache
//   - Search: genetic algorithm parameters used when a request has no overrides
//   - Store: badger report store
//   - Progress: in-process event bus and its circuit breaker
//   - Websocket: progress stream throttling and buffers
//   - Tune: parameter sweep grid
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Search    SearchConfig     `koanf:"search"`
	Store     StoreConfig      `koanf:"store"`
	Progress  progress.Config  `koanf:"progress"`
	Websocket websocket.Config `koanf:"websocket"`
	Tune      TuneConfig       `koanf:"tune"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins also restricts websocket upgrades. "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// KeepSearches bounds how many finished searches stay queryable.
	KeepSearches int `koanf:"keep_searches"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// Logging converts to the logging package configuration.
func (l LoggingConfig) Logging() logging.Config {
	return logging.Config{
		Level:  l.Level,
		Format: l.Format,
		Caller: l.Caller,
	}
}

// CatalogConfig locates the movie catalog.
type CatalogConfig struct {
	// Path is a .parquet or .csv export. Row order defines movie indices.
	Path string `koanf:"path"`

	// Limit caps rows read; zero reads the whole file.
	Limit int `koanf:"limit"`

	LoadTimeout time.Duration `koanf:"load_timeout"`

	// CacheSize bounds the decoded movie cache. Zero disables it.
	CacheSize int `koanf:"cache_size"`

	// SampleSize caps the movies offered for rating. Zero offers the
	// whole best set.
	SampleSize int `koanf:"sample_size"`
}

// LoadOptions converts to catalog.LoadOptions.
func (c CatalogConfig) LoadOptions() catalog.LoadOptions {
	return catalog.LoadOptions{Limit: c.Limit, Timeout: c.LoadTimeout}
}

// SearchConfig holds the default genetic algorithm parameters.
type SearchConfig struct {
	PopSize int     `koanf:"pop_size"`
	Genes   int     `koanf:"genes"`
	Cxpb    float64 `koanf:"cxpb"`
	Mutpb   float64 `koanf:"mutpb"`
	MinIter int     `koanf:"min_iter"`
	MaxIter int     `koanf:"max_iter"`

	// Workers bounds parallel evaluation; zero uses GOMAXPROCS.
	Workers int `koanf:"workers"`

	// Seed fixes the random source. Zero seeds each run from the clock.
	Seed uint64 `koanf:"seed"`
}

// Genetic converts to genetic.Config.
func (s SearchConfig) Genetic() genetic.Config {
	return genetic.Config{
		PopulationSize: s.PopSize,
		Genes:          s.Genes,
		CrossoverProb:  s.Cxpb,
		MutationProb:   s.Mutpb,
		MinGenerations: s.MinIter,
		MaxGenerations: s.MaxIter,
		Workers:        s.Workers,
		Seed:           s.Seed,
	}
}

// StoreConfig configures the badger report store.
type StoreConfig struct {
	// Enabled turns persistence of recommendations and sweeps on.
	Enabled    bool   `koanf:"enabled"`
	Dir        string `koanf:"dir"`
	InMemory   bool   `koanf:"in_memory"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// Options converts to storage.Options.
func (s StoreConfig) Options() storage.Options {
	return storage.Options{Dir: s.Dir, InMemory: s.InMemory, SyncWrites: s.SyncWrites}
}

// TuneConfig holds the parameter sweep grid.
type TuneConfig struct {
	Grid tuning.Grid `koanf:"grid"`

	// Repeats is the number of searches per combination.
	Repeats int `koanf:"repeats"`
}

// Engine builds the recommendation engine configuration.
func (c *Config) Engine() *recommend.Config {
	return &recommend.Config{
		Search:     c.Search.Genetic(),
		CacheSize:  c.Catalog.CacheSize,
		SampleSize: c.Catalog.SampleSize,
	}
}
