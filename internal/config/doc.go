// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

/*
Package config provides centralized configuration management for Reelpick.

Configuration is layered with Koanf v2. Later layers override earlier ones:

 1. Built-in defaults (defaultConfig, loaded through the structs provider)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or
    /etc/reelpick/config.yaml
 3. Environment variables, mapped explicitly (unmapped variables are ignored)

# Sections

  - server: listen address, timeouts, CORS origins, rate limiting and how
    many finished searches stay queryable
  - logging: zerolog level and format
  - catalog: the parquet or CSV catalog file, decode cache and rating sample size
  - search: default genetic algorithm parameters (pop_size, genes, cxpb,
    mutpb, min_iter, max_iter, workers, seed)
  - store: the badger report store
  - progress: progress bus buffer and circuit breaker
  - websocket: stream throttling and buffers
  - tune: the parameter sweep grid used by "reelpick tune"

# Environment Variables

Selected mappings:

  - HTTP_HOST, HTTP_PORT: listen address (default 0.0.0.0:8080)
  - LOG_LEVEL, LOG_FORMAT: logging (default info, json)
  - CATALOG_PATH: catalog file (default data/movies.parquet)
  - SEARCH_POP_SIZE, SEARCH_GENES, SEARCH_CXPB, SEARCH_MUTPB,
    SEARCH_MIN_ITER, SEARCH_MAX_ITER, SEARCH_SEED: search defaults
    (150, 5, 0.7, 0.11, 10, 20, 0)
  - STORE_ENABLED, STORE_DIR: report store (default enabled, data/reports)
  - CORS_ORIGINS, TUNE_POP_SIZES, TUNE_CXPB, ...: comma-separated lists

A search seed of 0 seeds every run from the clock.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    return err
	}
	logging.Init(cfg.Logging.Logging())
	engine, err := recommend.NewEngine(cfg.Engine(), movies, logger)

Validate collects every problem and wraps them in ErrInvalidConfig.
*/
package config
