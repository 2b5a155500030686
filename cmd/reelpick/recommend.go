// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/models"
	"github.com/reelpick/reelpick/internal/recommend/feedback"
	"github.com/reelpick/reelpick/internal/recommend/storage"
)

// runRecommend runs both phases once. Ratings come from -like and -dislike,
// or from stdin with -ask.
func runRecommend(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) error {
	fs := newFlagSet("recommend", stderr)
	configPath := fs.String("config", "", "config file")
	prefs := registerPreferenceFlags(fs)
	like := fs.String("like", "", "comma-separated indices of liked movies")
	dislike := fs.String("dislike", "", "comma-separated indices of disliked movies")
	ask := fs.Bool("ask", false, "ask about each sampled movie on stdin")
	asJSON := fs.Bool("json", false, "print the recommendation as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}

	req, err := prefs.request()
	if err != nil {
		return err
	}
	rerankReq := models.RerankRequest{}
	if rerankReq.Like, err = parseIndices(*like); err != nil {
		return err
	}
	if rerankReq.Dislike, err = parseIndices(*dislike); err != nil {
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

	searchID := logging.GenerateSearchID()
	ctx = logging.ContextWithSearchID(ctx, searchID)
	searchCfg := req.SearchConfig(engine.Config().Search)
	preferences := req.Preferences()

	res, err := engine.SearchWith(ctx, searchCfg, preferences, nil)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	sample := engine.Sample(res.Population)
	out := stdout
	if *asJSON {
		// Keep stdout parseable.
		out = stderr
	}
	fmt.Fprintf(out, "Search %s finished after %d generations.\n\nMovies to rate:\n", searchID, res.Generations)
	movies := make([]catalog.Movie, 0, len(sample))
	for _, idx := range sample {
		m, err := engine.Movie(idx)
		if err != nil {
			return err
		}
		movies = append(movies, m)
		fmt.Fprintf(out, "  %s\n", describeMovie(m))
	}
	fmt.Fprintln(out)

	ratings := rerankReq.Ratings()
	if *ask {
		if ratings, err = askRatings(d.stdin, out, movies); err != nil {
			return err
		}
	}

	rec, err := engine.Recommend(ctx, res.Population, preferences, ratings)
	if err != nil {
		return fmt.Errorf("rerank: %w", err)
	}

	resp := models.RecommendationResponse{
		SearchID:       searchID,
		Recommendation: rec,
		Reasons:        rec.Explanation.Lines(),
	}
	if store != nil {
		record := storage.NewRecommendationRecord(searchID, storage.RequestRecord{
			PeriodStart: req.PeriodStart,
			PeriodEnd:   req.PeriodEnd,
			Length:      req.Length,
			Genres:      preferences.Genres.Sorted(),
		}, searchCfg, res, ratings, rec)
		id, err := store.SaveRecommendation(ctx, record)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("recommendation not stored")
		} else {
			resp.ReportID = id
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printRecommendation(stdout, &resp)
	return nil
}

func describeMovie(m catalog.Movie) string {
	year := "unknown year"
	if m.HasYear {
		year = fmt.Sprint(m.Year)
	}
	return fmt.Sprintf("[%d] %s (%s, %d min) %s", m.Index, m.Title, year, m.Minutes, strings.Join(m.Genres, ", "))
}

func printRecommendation(w io.Writer, resp *models.RecommendationResponse) {
	fmt.Fprintf(w, "We recommend: %s\n", describeMovie(resp.Movie))
	for _, line := range resp.Reasons {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	if resp.ReportID != "" {
		fmt.Fprintf(w, "\nSaved as report %s\n", resp.ReportID)
	}
}

// askRatings prompts for each movie. "y" likes it, "n" dislikes it and
// anything else skips it.
func askRatings(in io.Reader, out io.Writer, movies []catalog.Movie) (feedback.Ratings, error) {
	var ratings feedback.Ratings
	scanner := bufio.NewScanner(in)
	for _, m := range movies {
		fmt.Fprintf(out, "Did you like %q? [y/n/skip] ", m.Title)
		if !scanner.Scan() {
			break
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			ratings.Like = append(ratings.Like, m.Index)
		case "n", "no":
			ratings.Dislike = append(ratings.Dislike, m.Index)
		}
	}
	fmt.Fprintln(out)
	if err := scanner.Err(); err != nil {
		return ratings, fmt.Errorf("read ratings: %w", err)
	}
	return ratings, nil
}

