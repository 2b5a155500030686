// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/recommend/storage"
	"github.com/reelpick/reelpick/internal/recommend/tuning"
)

// runTune sweeps the configured parameter grid for one set of preferences.
func runTune(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) error {
	fs := newFlagSet("tune", stderr)
	configPath := fs.String("config", "", "config file")
	prefs := registerPreferenceFlags(fs)
	repeats := fs.Int("repeats", 0, "searches per combination (0 keeps the configured value)")
	asJSON := fs.Bool("json", false, "print the sweep report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	if *repeats < 0 {
		return fmt.Errorf("%w: -repeats must not be negative", errUsage)
	}

	req, err := prefs.request()
	if err != nil {
		return err
	}

	cfg, engine, err := setup(ctx, *configPath, d)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	var recorder tuning.Recorder
	if store != nil {
		recorder = store
	}
	opts := tuning.Options{
		Repeats: cfg.Tune.Repeats,
		Progress: func(done, total int, rec storage.TuningRecord) {
			logging.Info().
				Int("done", done).
				Int("total", total).
				Int("pop_size", rec.Config.PopulationSize).
				Float64("mean_best", rec.MeanBest).
				Msg("Combination finished")
		},
	}
	if *repeats > 0 {
		opts.Repeats = *repeats
	}

	tuner := tuning.NewTuner(engine, recorder, logging.Logger())
	report, err := tuner.Run(ctx, cfg.Tune.Grid, req.SearchConfig(engine.Config().Search), req.Preferences(), opts)
	if err != nil && (report == nil || !errors.Is(err, context.Canceled)) {
		return fmt.Errorf("sweep: %w", err)
	}
	if err != nil {
		logging.Warn().Int("finished", len(report.Records)).Msg("Sweep interrupted, printing partial results")
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(stdout, report)
	return nil
}

func printReport(w io.Writer, report *tuning.Report) {
	fmt.Fprintf(w, "Sweep %s: %d combinations in %s\n\n", report.Sweep, len(report.Records), report.Duration.Round(time.Millisecond))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tPOP\tCXPB\tMUTPB\tMIN\tMAX\tMEAN BEST\tMIN BEST\tGENERATIONS\tSTAGNATED")
	for _, r := range report.Records {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\t%d\t%d\t%.4f\t%.4f\t%.1f\t%.0f%%\n",
			r.Seq, r.Config.PopulationSize, r.Config.CrossoverProb, r.Config.MutationProb,
			r.Config.MinGenerations, r.Config.MaxGenerations,
			r.MeanBest, r.MinBest, r.MeanGenerations, r.StagnationRate*100)
	}
	_ = tw.Flush()
	if len(report.Records) > 0 {
		b := report.Best
		fmt.Fprintf(w, "\nBest: pop=%d cxpb=%.2f mutpb=%.2f min_iter=%d max_iter=%d mean_best=%.4f\n",
			b.Config.PopulationSize, b.Config.CrossoverProb, b.Config.MutationProb,
			b.Config.MinGenerations, b.Config.MaxGenerations, b.MeanBest)
	}
}
