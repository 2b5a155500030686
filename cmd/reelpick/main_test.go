// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/catalog/catalogtest"
	"github.com/reelpick/reelpick/internal/config"
	"github.com/reelpick/reelpick/internal/recommend/tuning"
)

// testConfig loads the built-in defaults from an empty directory and
// shrinks the search so commands finish quickly on the fixture catalog.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	cfg.Logging.Level = "error"
	cfg.Search.PopSize = 20
	cfg.Search.Genes = 3
	cfg.Search.MinIter = 2
	cfg.Search.MaxIter = 5
	cfg.Search.Seed = 7
	cfg.Store.Enabled = false
	return cfg
}

func testDeps(cfg *config.Config) deps {
	return deps{
		loadCatalog: func(context.Context, config.CatalogConfig) (catalog.Accessor, error) {
			return catalogtest.Catalog(), nil
		},
		loadConfig: func(string) (*config.Config, error) {
			return cfg, nil
		},
		stdin: strings.NewReader(""),
	}
}

func TestRunDispatch(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no arguments", args: nil, wantCode: 2, wantStderr: "Usage:"},
		{name: "help", args: []string{"help"}, wantCode: 0, wantStdout: "Usage:"},
		{name: "unknown command", args: []string{"bogus"}, wantCode: 2, wantStderr: `unknown command "bogus"`},
		{name: "version", args: []string{"version"}, wantCode: 0, wantStdout: version},
		{name: "subcommand help", args: []string{"recommend", "-h"}, wantCode: 0, wantStderr: "-genres"},
		{name: "bad preferences", args: []string{"recommend", "-start", "2000", "-end", "1990", "-length", "100", "-genres", "Drama"}, wantCode: 2, wantStderr: "invalid arguments"},
		{name: "length off bracket", args: []string{"recommend", "-start", "1990", "-end", "2000", "-length", "92", "-genres", "Drama"}, wantCode: 2, wantStderr: "multiple of 5"},
		{name: "length outside domain", args: []string{"tune", "-start", "1990", "-end", "2000", "-length", "600", "-genres", "Drama"}, wantCode: 2, wantStderr: "length must be less than or equal to 240"},
		{name: "stray argument", args: []string{"tune", "extra"}, wantCode: 2, wantStderr: "unexpected argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr, testDeps(nil))
			if code != tt.wantCode {
				t.Errorf("run() = %d, want %d (stderr %q)", code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestParseIndices(t *testing.T) {
	got, err := parseIndices(" 3, 0 ,11,")
	if err != nil {
		t.Fatalf("parseIndices() error = %v", err)
	}
	if fmt.Sprint(got) != "[3 0 11]" {
		t.Errorf("parseIndices() = %v, want [3 0 11]", got)
	}

	empty, err := parseIndices("")
	if err != nil || len(empty) != 0 {
		t.Errorf("parseIndices(\"\") = %v, %v; want empty, nil", empty, err)
	}

	if _, err := parseIndices("1,two"); !errors.Is(err, errUsage) {
		t.Errorf("parseIndices(\"1,two\") error = %v, want errUsage", err)
	}
}

func TestPreferenceFlagsOnlyVisitedOverride(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	p := registerPreferenceFlags(fs)
	if err := fs.Parse([]string{"-start", "1990", "-end", "2005", "-length", "110", "-genres", "Drama, Crime", "-pop", "40", "-seed", "9"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	req, err := p.request()
	if err != nil {
		t.Fatalf("request() error = %v", err)
	}
	if fmt.Sprint(req.Genres) != "[Drama Crime]" {
		t.Errorf("Genres = %v, want [Drama Crime]", req.Genres)
	}
	if req.Search == nil {
		t.Fatal("Search overrides = nil, want pop and seed set")
	}
	if req.Search.PopulationSize == nil || *req.Search.PopulationSize != 40 {
		t.Errorf("PopulationSize override = %v, want 40", req.Search.PopulationSize)
	}
	if req.Search.Seed == nil || *req.Search.Seed != 9 {
		t.Errorf("Seed override = %v, want 9", req.Search.Seed)
	}
	if req.Search.Genes != nil || req.Search.MaxGenerations != nil || req.Search.CrossoverProb != nil {
		t.Error("unset flags became overrides")
	}
}

func TestPreferenceFlagsWithoutOverrides(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	p := registerPreferenceFlags(fs)
	if err := fs.Parse([]string{"-start", "1990", "-end", "1990", "-length", "90", "-genres", "Comedy"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	req, err := p.request()
	if err != nil {
		t.Fatalf("request() error = %v", err)
	}
	if req.Search != nil {
		t.Errorf("Search = %+v, want nil", req.Search)
	}
}

func TestPreferenceFlagsRejectsMissingGenres(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	p := registerPreferenceFlags(fs)
	if err := fs.Parse([]string{"-start", "1990", "-end", "2000", "-length", "90"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := p.request(); !errors.Is(err, errUsage) {
		t.Errorf("request() error = %v, want errUsage", err)
	}
}

func TestAskRatings(t *testing.T) {
	movies := []catalog.Movie{
		{Index: 0, Title: "The Long Harbor"},
		{Index: 4, Title: "Red Meridian"},
		{Index: 7, Title: "Bitter Lanterns"},
		{Index: 9, Title: "Ledger"},
	}
	var out bytes.Buffer
	ratings, err := askRatings(strings.NewReader("y\n NO \nskip\n"), &out, movies)
	if err != nil {
		t.Fatalf("askRatings() error = %v", err)
	}
	if fmt.Sprint(ratings.Like) != "[0]" || fmt.Sprint(ratings.Dislike) != "[4]" {
		t.Errorf("ratings = %+v, want like [0] dislike [4]", ratings)
	}
	// Input ran out before the last movie.
	if !strings.Contains(out.String(), `"Ledger"`) {
		t.Errorf("prompt output = %q, want a prompt for Ledger", out.String())
	}
}

var recommendArgs = []string{"-start", "1990", "-end", "2010", "-length", "110", "-genres", "Drama,Crime"}

func TestRunRecommendText(t *testing.T) {
	cfg := testConfig(t)
	var stdout, stderr bytes.Buffer
	args := append([]string{"recommend"}, recommendArgs...)
	args = append(args, "-like", "0", "-dislike", "7")

	if code := run(context.Background(), args, &stdout, &stderr, testDeps(cfg)); code != 0 {
		t.Fatalf("run() = %d, stderr %q", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"Movies to rate:", "We recommend:"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Saved as report") {
		t.Error("report saved with the store disabled")
	}
}

func TestRunRecommendJSONStoresReport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Enabled = true
	cfg.Store.InMemory = true

	var stdout, stderr bytes.Buffer
	args := append([]string{"recommend", "-json"}, recommendArgs...)
	if code := run(context.Background(), args, &stdout, &stderr, testDeps(cfg)); code != 0 {
		t.Fatalf("run() = %d, stderr %q", code, stderr.String())
	}

	var resp struct {
		SearchID string        `json:"search_id"`
		ReportID string        `json:"report_id"`
		Movie    catalog.Movie `json:"movie"`
		Ranked   []any         `json:"ranked"`
		Reasons  []string      `json:"reasons"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if resp.SearchID == "" || resp.ReportID == "" {
		t.Errorf("ids = %q/%q, want both set", resp.SearchID, resp.ReportID)
	}
	if resp.Movie.Title == "" {
		t.Error("recommended movie has no title")
	}
	if len(resp.Ranked) == 0 {
		t.Error("ranked candidates empty")
	}
	if !strings.Contains(stderr.String(), "Movies to rate:") {
		t.Error("sample not printed to stderr in JSON mode")
	}
}

func TestRunRecommendRejectsUnknownMovie(t *testing.T) {
	cfg := testConfig(t)
	var stdout, stderr bytes.Buffer
	args := append([]string{"recommend"}, recommendArgs...)
	args = append(args, "-like", "500")

	if code := run(context.Background(), args, &stdout, &stderr, testDeps(cfg)); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestRunRecommendCatalogError(t *testing.T) {
	cfg := testConfig(t)
	d := testDeps(cfg)
	d.loadCatalog = func(context.Context, config.CatalogConfig) (catalog.Accessor, error) {
		return nil, errors.New("no such file")
	}
	var stdout, stderr bytes.Buffer
	args := append([]string{"recommend"}, recommendArgs...)
	if code := run(context.Background(), args, &stdout, &stderr, d); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestRunTune(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Enabled = true
	cfg.Store.InMemory = true
	cfg.Tune.Grid = tuning.Grid{
		PopulationSizes: []int{10, 20},
		CrossoverProbs:  []float64{0.7},
		MutationProbs:   []float64{0.1},
		MinGenerations:  []int{2},
		MaxGenerations:  []int{4},
	}

	var stdout, stderr bytes.Buffer
	args := append([]string{"tune", "-json", "-repeats", "2"}, recommendArgs...)
	if code := run(context.Background(), args, &stdout, &stderr, testDeps(cfg)); code != 0 {
		t.Fatalf("run() = %d, stderr %q", code, stderr.String())
	}

	var report tuning.Report
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if len(report.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(report.Records))
	}
	for _, rec := range report.Records {
		if rec.Runs != 2 {
			t.Errorf("record %d runs = %d, want 2", rec.Seq, rec.Runs)
		}
	}
	if report.Best.Sweep != report.Sweep {
		t.Errorf("best sweep = %q, want %q", report.Best.Sweep, report.Sweep)
	}
}

func TestRunTuneText(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tune.Grid = tuning.Grid{
		PopulationSizes: []int{10},
		CrossoverProbs:  []float64{0.5},
		MutationProbs:   []float64{0.2},
		MinGenerations:  []int{1},
		MaxGenerations:  []int{3},
	}

	var stdout, stderr bytes.Buffer
	args := append([]string{"tune"}, recommendArgs...)
	if code := run(context.Background(), args, &stdout, &stderr, testDeps(cfg)); code != 0 {
		t.Fatalf("run() = %d, stderr %q", code, stderr.String())
	}
	for _, want := range []string{"MEAN BEST", "Best: pop=10"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunServe(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Enabled = true
	cfg.Store.InMemory = true
	cfg.Server.ShutdownTimeout = 2 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	d := testDeps(cfg)
	d.ready = func(a net.Addr) { addrCh <- a }

	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"serve", "-addr", "127.0.0.1:0"}, io.Discard, io.Discard, d)
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case code := <-done:
		t.Fatalf("serve exited early with %d", code)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case code := <-done:
		if code != 0 {
			t.Errorf("serve exit code = %d, want 0", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
