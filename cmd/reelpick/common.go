// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/config"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/models"
	"github.com/reelpick/reelpick/internal/recommend"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
	"github.com/reelpick/reelpick/internal/recommend/storage"
	"github.com/reelpick/reelpick/internal/validation"
)

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New("invalid arguments")

// deps holds the replaceable parts of command setup.
type deps struct {
	// loadCatalog opens the movie catalog.
	loadCatalog func(ctx context.Context, cfg config.CatalogConfig) (catalog.Accessor, error)

	// loadConfig reads the configuration; path may be empty.
	loadConfig func(path string) (*config.Config, error)

	// stdin answers the rating prompts of "recommend -ask".
	stdin io.Reader

	// ready, when set, is called with the address serve listens on.
	ready func(addr net.Addr)
}

func defaultDeps() deps {
	return deps{
		loadCatalog: loadDuckDBCatalog,
		loadConfig:  config.LoadFile,
		stdin:       os.Stdin,
	}
}

func loadDuckDBCatalog(ctx context.Context, cfg config.CatalogConfig) (catalog.Accessor, error) {
	movies, err := catalog.LoadDuckDB(ctx, cfg.Path, cfg.LoadOptions())
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// setup loads configuration, initializes logging and builds the engine.
func setup(ctx context.Context, configPath string, d deps) (*config.Config, *recommend.Engine, error) {
	cfg, err := d.loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logging.Init(cfg.Logging.Logging())

	movies, err := d.loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	engine, err := recommend.NewEngine(cfg.Engine(), movies, logging.Logger())
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}
	logging.Info().
		Int("movies", movies.Size()).
		Int("pop_size", cfg.Search.PopSize).
		Int("genes", cfg.Search.Genes).
		Msg("Engine ready")
	return cfg, engine, nil
}

// openStore opens the report store, or returns nil when it is disabled.
func openStore(cfg *config.Config) (*storage.ReportStore, error) {
	if !cfg.Store.Enabled {
		return nil, nil
	}
	store, err := storage.Open(cfg.Store.Options(), logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	return store, nil
}

func closeStore(store *storage.ReportStore) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing report store")
	}
}

// preferenceFlags registers the phase-one inputs and per-run search
// overrides shared by recommend and tune.
type preferenceFlags struct {
	fs      *flag.FlagSet
	start   *int
	end     *int
	length  *int
	genres  *string
	pop     *int
	genes   *int
	cxpb    *float64
	mutpb   *float64
	minIter *int
	maxIter *int
	seed    *uint64
}

func registerPreferenceFlags(fs *flag.FlagSet) *preferenceFlags {
	return &preferenceFlags{
		fs:      fs,
		start:   fs.Int("start", 0, "first release year (inclusive)"),
		end:     fs.Int("end", 0, "last release year (inclusive)"),
		length:  fs.Int("length", 0, fmt.Sprintf("preferred length in minutes (%d-%d, a multiple of %d)",
			scoring.MinLength, scoring.MaxLength, scoring.LengthStep)),
		genres:  fs.String("genres", "", "comma-separated preferred genres"),
		pop:     fs.Int("pop", 0, "population size override"),
		genes:   fs.Int("genes", 0, "movies per individual override"),
		cxpb:    fs.Float64("cxpb", 0, "crossover probability override"),
		mutpb:   fs.Float64("mutpb", 0, "mutation probability override"),
		minIter: fs.Int("min-iter", 0, "minimum generations override"),
		maxIter: fs.Int("max-iter", 0, "maximum generations override"),
		seed:    fs.Uint64("seed", 0, "random seed override (0 keeps the configured seed)"),
	}
}

// request builds and validates a search request. Only flags given on the
// command line become overrides.
func (p *preferenceFlags) request() (*models.SearchRequest, error) {
	req := &models.SearchRequest{
		PeriodStart: *p.start,
		PeriodEnd:   *p.end,
		Length:      *p.length,
		Genres:      splitList(*p.genres),
	}

	var o models.SearchOverrides
	overridden := false
	p.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pop":
			o.PopulationSize, overridden = p.pop, true
		case "genes":
			o.Genes, overridden = p.genes, true
		case "cxpb":
			o.CrossoverProb, overridden = p.cxpb, true
		case "mutpb":
			o.MutationProb, overridden = p.mutpb, true
		case "min-iter":
			o.MinGenerations, overridden = p.minIter, true
		case "max-iter":
			o.MaxGenerations, overridden = p.maxIter, true
		case "seed":
			if *p.seed != 0 {
				o.Seed, overridden = p.seed, true
			}
		}
	})
	if overridden {
		req.Search = &o
	}

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, fmt.Errorf("%w: %s", errUsage, verr.Error())
	}
	return req, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIndices parses a comma-separated list of movie indices.
func parseIndices(s string) ([]int, error) {
	parts := splitList(s)
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a movie index", errUsage, part)
		}
		out = append(out, n)
	}
	return out, nil
}
