// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector matches *storage.ReportStore's value log GC.
type GarbageCollector interface {
	RunGC(ratio float64) error
}

// StoreGCConfig holds configuration for the store GC service.
type StoreGCConfig struct {
	// Interval between GC passes. Default: 10m
	Interval time.Duration

	// Ratio is the discardable fraction that makes badger rewrite a value
	// log file. Default: 0.5
	Ratio float64
}

// StoreGCService periodically reclaims space in the report store.
type StoreGCService struct {
	store  GarbageCollector
	config StoreGCConfig
	logger zerolog.Logger
	name   string
}

// NewStoreGCService creates a new store GC service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStoreGCService(store GarbageCollector, cfg StoreGCConfig, logger zerolog.Logger) *StoreGCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Ratio <= 0 || cfg.Ratio >= 1 {
		cfg.Ratio = 0.5
	}
	return &StoreGCService{
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "store-gc").Logger(),
		name:   "store-gc",
	}
}

// Serve implements suture.Service. GC failures are logged and retried on
// the next tick; they never restart the service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", s.config.Interval).Msg("store gc running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.store.RunGC(s.config.Ratio); err != nil {
				s.logger.Warn().Err(err).Msg("store gc failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("store gc complete")
		}
	}
}

// String returns the service name for logging.
func (s *StoreGCService) String() string {
	return s.name
}
