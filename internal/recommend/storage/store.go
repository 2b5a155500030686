// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelpick/reelpick/internal/recommend"
	"github.com/reelpick/reelpick/internal/recommend/feedback"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
)

const (
	recommendationPrefix = "rec:"
	tuningPrefix         = "tune:"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Options configures the badger database.
type Options struct {
	// Dir holds the database files. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in memory; used by tests and one-shot CLI runs.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// RequestRecord is the phase-one input of a session in storable form.
type RequestRecord struct {
	PeriodStart int      `json:"period_start"`
	PeriodEnd   int      `json:"period_end"`
	Length      int      `json:"length"`
	Genres      []string `json:"genres"`
}

// RecommendationRecord is a finished session.
type RecommendationRecord struct {
	ID        string    `json:"id"`
	SearchID  string    `json:"search_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Request        RequestRecord             `json:"request"`
	Search         genetic.Config            `json:"search"`
	Generations    int                       `json:"generations"`
	BestSet        []int                     `json:"best_set"`
	BestFitness    float64                   `json:"best_fitness"`
	Ratings        feedback.Ratings          `json:"ratings"`
	Recommendation *recommend.Recommendation `json:"recommendation"`
}

// NewRecommendationRecord assembles the record of a finished session.
// ID and CreatedAt are filled in by SaveRecommendation.
//
//nolint:gocritic // hugeParam: cfg is copied into the record
func NewRecommendationRecord(searchID string, req RequestRecord, cfg genetic.Config, res *genetic.Result,
	ratings feedback.Ratings, rec *recommend.Recommendation) *RecommendationRecord {
	out := &RecommendationRecord{
		SearchID:       searchID,
		Request:        req,
		Search:         cfg,
		Ratings:        ratings,
		Recommendation: rec,
	}
	if res != nil {
		out.Generations = res.Generations
		if best := res.Best(); best != nil {
			out.BestSet = best.Genes()
			out.BestFitness = best.Fitness()
		}
	}
	return out
}

// TuningRecord aggregates the repeated runs of one parameter combination.
type TuningRecord struct {
	Sweep     string         `json:"sweep"`
	Seq       int            `json:"seq"`
	CreatedAt time.Time      `json:"created_at"`
	Config    genetic.Config `json:"config"`

	Runs            int           `json:"runs"`
	MeanBest        float64       `json:"mean_best"`
	MinBest         float64       `json:"min_best"`
	MeanGenerations float64       `json:"mean_generations"`
	MeanDuration    time.Duration `json:"mean_duration"`
	StagnationRate  float64       `json:"stagnation_rate"`
}

// ReportStore is a badger-backed record store. It is safe for concurrent use.
type ReportStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database described by opts.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(opts Options, logger zerolog.Logger) (*ReportStore, error) {
	logger = logger.With().Str("component", "storage").Logger()

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, errors.New("storage directory is required")
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}
	bopts = bopts.WithSyncWrites(opts.SyncWrites).WithLogger(badgerLogger{logger})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	logger.Info().Str("dir", opts.Dir).Bool("in_memory", opts.InMemory).Msg("store opened")
	return &ReportStore{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *ReportStore) Close() error {
	return s.db.Close()
}

// RunGC rewrites value log files until badger finds nothing left to
// reclaim. ratio is the discardable fraction that triggers a rewrite.
// In-memory stores have no value log and return nil.
func (s *ReportStore) RunGC(ratio float64) error {
	for {
		err := s.db.RunValueLogGC(ratio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("run value log gc: %w", err)
		}
	}
}

// SaveRecommendation stores rec, assigning an ID and timestamp when unset.
// It returns the record ID.
func (s *ReportStore) SaveRecommendation(ctx context.Context, rec *RecommendationRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal recommendation: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(recommendationPrefix+rec.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("save recommendation: %w", err)
	}

	s.logger.Debug().Str("id", rec.ID).Msg("recommendation saved")
	return rec.ID, nil
}

// GetRecommendation loads a stored session.
func (s *ReportStore) GetRecommendation(ctx context.Context, id string) (*RecommendationRecord, error) {
	var rec RecommendationRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(recommendationPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get recommendation: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecommendations returns stored sessions newest first. limit <= 0
// returns all of them.
func (s *ReportStore) ListRecommendations(ctx context.Context, limit int) ([]*RecommendationRecord, error) {
	var recs []*RecommendationRecord
	err := s.scan([]byte(recommendationPrefix), func(val []byte) error {
		var rec RecommendationRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return err
		}
		recs = append(recs, &rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// SaveTuning stores the records of one sweep in a single transaction. Each
// record's Sweep field is set to sweep.
func (s *ReportStore) SaveTuning(ctx context.Context, sweep string, records []TuningRecord) error {
	if sweep == "" || strings.Contains(sweep, ":") {
		return fmt.Errorf("invalid sweep id %q", sweep)
	}

	now := time.Now().UTC()
	return s.db.Update(func(txn *badger.Txn) error {
		for i := range records {
			rec := &records[i]
			rec.Sweep = sweep
			if rec.CreatedAt.IsZero() {
				rec.CreatedAt = now
			}
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal tuning record %d: %w", rec.Seq, err)
			}
			if err := txn.Set(tuningKey(sweep, rec.Seq), data); err != nil {
				return fmt.Errorf("set tuning record %d: %w", rec.Seq, err)
			}
		}
		return nil
	})
}

// ListTuning returns the records of sweep in run order. An empty sweep lists
// every stored sweep.
func (s *ReportStore) ListTuning(ctx context.Context, sweep string) ([]TuningRecord, error) {
	prefix := tuningPrefix
	if sweep != "" {
		prefix += sweep + ":"
	}

	var out []TuningRecord
	err := s.scan([]byte(prefix), func(val []byte) error {
		var rec TuningRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tuning: %w", err)
	}
	return out, nil
}

func (s *ReportStore) scan(prefix []byte, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

func tuningKey(sweep string, seq int) []byte {
	return []byte(fmt.Sprintf("%s%s:%06d", tuningPrefix, sweep, seq))
}

// badgerLogger routes badger's internal logging to zerolog. Info and debug
// are demoted one level.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(strings.TrimSpace(format), args...)
}
