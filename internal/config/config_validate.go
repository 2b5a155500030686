// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig wraps every validation failure returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	for _, check := range []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateCatalog,
		c.validateSearch,
		c.validateStore,
		c.validateProgress,
		c.validateWebsocket,
		c.validateTune,
	} {
		if err := check(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// validateServer validates the HTTP listener settings
func (c *Config) validateServer() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", s.Port)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 || s.ShutdownTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQS must be at least 1, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", s.RateLimitWindow)
		}
	}
	if s.KeepSearches < 1 {
		return fmt.Errorf("KEEP_SEARCHES must be at least 1, got %d", s.KeepSearches)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateCatalog validates the catalog source
func (c *Config) validateCatalog() error {
	cat := c.Catalog
	if strings.TrimSpace(cat.Path) == "" {
		return errors.New("CATALOG_PATH is required")
	}
	if cat.Limit < 0 {
		return fmt.Errorf("CATALOG_LIMIT must not be negative, got %d", cat.Limit)
	}
	if cat.CacheSize < 0 {
		return fmt.Errorf("CATALOG_CACHE_SIZE must not be negative, got %d", cat.CacheSize)
	}
	if cat.SampleSize < 0 {
		return fmt.Errorf("CATALOG_SAMPLE_SIZE must not be negative, got %d", cat.SampleSize)
	}
	return nil
}

// validateSearch applies the genetic algorithm's own checks
func (c *Config) validateSearch() error {
	if err := c.Search.Genetic().Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

// validateStore requires a directory for on-disk stores
func (c *Config) validateStore() error {
	if c.Store.Enabled && !c.Store.InMemory && strings.TrimSpace(c.Store.Dir) == "" {
		return errors.New("STORE_DIR is required when the store is enabled")
	}
	return nil
}

func (c *Config) validateProgress() error {
	p := c.Progress
	if p.BufferSize < 1 {
		return fmt.Errorf("PROGRESS_BUFFER_SIZE must be at least 1, got %d", p.BufferSize)
	}
	if p.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("PROGRESS_BREAKER_FAILURE_THRESHOLD must be at least 1, got %d", p.Breaker.FailureThreshold)
	}
	if p.Breaker.Timeout <= 0 {
		return fmt.Errorf("PROGRESS_BREAKER_TIMEOUT must be positive, got %v", p.Breaker.Timeout)
	}
	return nil
}

func (c *Config) validateWebsocket() error {
	w := c.Websocket
	if w.EventsPerSecond < 0 {
		return fmt.Errorf("WS_EVENTS_PER_SECOND must not be negative, got %v", w.EventsPerSecond)
	}
	if w.EventsPerSecond > 0 && w.Burst < 1 {
		return fmt.Errorf("WS_BURST must be at least 1 when throttling, got %d", w.Burst)
	}
	if w.QueueSize < 1 || w.ClientBuffer < 1 {
		return fmt.Errorf("websocket buffers must be at least 1, got queue %d client %d", w.QueueSize, w.ClientBuffer)
	}
	return nil
}

// validateTune rejects grids that expand to nothing
func (c *Config) validateTune() error {
	if c.Tune.Repeats < 1 {
		return fmt.Errorf("TUNE_REPEATS must be at least 1, got %d", c.Tune.Repeats)
	}
	if c.Tune.Grid.Size() == 0 {
		return errors.New("tune grid must have at least one value per parameter")
	}
	return nil
}
