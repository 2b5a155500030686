// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/reelpick/reelpick/internal/progress"
	"github.com/reelpick/reelpick/internal/recommend/tuning"
	"github.com/reelpick/reelpick/internal/websocket"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelpick/config.yaml",
	"/etc/reelpick/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			KeepSearches:      32,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path:        "data/movies.parquet",
			LoadTimeout: 2 * time.Minute,
			CacheSize:   4096,
		},
		// Application defaults; genetic.DefaultConfig holds the smaller
		// library defaults.
		Search: SearchConfig{
			PopSize: 150,
			Genes:   5,
			Cxpb:    0.7,
			Mutpb:   0.11,
			MinIter: 10,
			MaxIter: 20,
		},
		Store: StoreConfig{
			Enabled: true,
			Dir:     "data/reports",
		},
		Progress:  progress.DefaultConfig(),
		Websocket: websocket.DefaultConfig(),
		Tune: TuneConfig{
			Grid:    tuning.DefaultGrid(),
			Repeats: 1,
		},
	}
}

// Load reads configuration using Koanf with layered sources:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path falls back
// to the default search.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		path = findConfigFile()
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// SEARCH_POP_SIZE -> search.pop_size
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
	"tune.grid.pop_sizes",
	"tune.grid.cxpb",
	"tune.grid.mutpb",
	"tune.grid.min_iter",
	"tune.grid.max_iter",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings; YAML lists pass through.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
// Unmapped variables are ignored so the process environment cannot leak
// into the configuration.
var envMappings = map[string]string{
	// Server
	"http_host":           "server.host",
	"http_port":           "server.port",
	"server_host":         "server.host",
	"server_port":         "server.port",
	"read_timeout":        "server.read_timeout",
	"write_timeout":       "server.write_timeout",
	"idle_timeout":        "server.idle_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_reqs":     "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"rate_limit_disabled": "server.rate_limit_disabled",
	"keep_searches":       "server.keep_searches",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_path":         "catalog.path",
	"catalog_limit":        "catalog.limit",
	"catalog_load_timeout": "catalog.load_timeout",
	"catalog_cache_size":   "catalog.cache_size",
	"catalog_sample_size":  "catalog.sample_size",

	// Search
	"search_pop_size": "search.pop_size",
	"search_genes":    "search.genes",
	"search_cxpb":     "search.cxpb",
	"search_mutpb":    "search.mutpb",
	"search_min_iter": "search.min_iter",
	"search_max_iter": "search.max_iter",
	"search_workers":  "search.workers",
	"search_seed":     "search.seed",

	// Store
	"store_enabled":     "store.enabled",
	"store_dir":         "store.dir",
	"store_in_memory":   "store.in_memory",
	"store_sync_writes": "store.sync_writes",

	// Progress bus
	"progress_buffer_size":               "progress.buffer_size",
	"progress_breaker_max_requests":      "progress.breaker.max_requests",
	"progress_breaker_interval":          "progress.breaker.interval",
	"progress_breaker_timeout":           "progress.breaker.timeout",
	"progress_breaker_failure_threshold": "progress.breaker.failure_threshold",

	// Websocket
	"ws_events_per_second": "websocket.events_per_second",
	"ws_burst":             "websocket.burst",
	"ws_queue_size":        "websocket.queue_size",
	"ws_client_buffer":     "websocket.client_buffer",

	// Tuning
	"tune_pop_sizes": "tune.grid.pop_sizes",
	"tune_cxpb":      "tune.grid.cxpb",
	"tune_mutpb":     "tune.grid.mutpb",
	"tune_min_iter":  "tune.grid.min_iter",
	"tune_max_iter":  "tune.grid.max_iter",
	"tune_repeats":   "tune.repeats",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - SEARCH_POP_SIZE -> search.pop_size
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//   - TUNE_CXPB -> tune.grid.cxpb
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
