// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package recommend

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/catalog/catalogtest"
	"github.com/reelpick/reelpick/internal/recommend/feedback"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

func testConfig() *Config {
	return &Config{
		Search: genetic.Config{
			PopulationSize: 20,
			Genes:          3,
			CrossoverProb:  0.7,
			MutationProb:   0.2,
			MinGenerations: 2,
			MaxGenerations: 5,
			Workers:        2,
			Seed:           7,
		},
		CacheSize: 8,
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testConfig(), catalogtest.Catalog(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func testPrefs() scoring.Preferences {
	return scoring.NewPreferences(scoring.Period{Start: 1990, End: 2005}, 120, "Drama")
}

func TestNewEngineRejectsBadInput(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Search.PopulationSize = 0
	if _, err := NewEngine(cfg, catalogtest.Catalog(), zerolog.Nop()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid search config: err = %v, want ErrInvalidConfig", err)
	}

	cfg = testConfig()
	cfg.CacheSize = -1
	if _, err := NewEngine(cfg, catalogtest.Catalog(), zerolog.Nop()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative cache: err = %v, want ErrInvalidConfig", err)
	}

	if _, err := NewEngine(testConfig(), catalog.NewMemoryCatalog(nil), zerolog.Nop()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty catalog: err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewEngineDefaults(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(nil, catalogtest.Catalog(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if got := e.Config().Search; got != genetic.DefaultConfig() {
		t.Errorf("search config = %+v, want defaults", got)
	}
	if e.Catalog().Size() != len(catalogtest.Rows()) {
		t.Errorf("catalog size = %d", e.Catalog().Size())
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	var gens []int
	res, err := e.Search(context.Background(), testPrefs(), func(st genetic.GenerationStats) {
		gens = append(gens, st.Generation)
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(res.Population) != 20 {
		t.Fatalf("population size = %d, want 20", len(res.Population))
	}
	for i, ind := range res.Population {
		if ind.Len() != 3 {
			t.Errorf("individual %d has %d genes", i, ind.Len())
		}
		for _, g := range ind.Genes() {
			if g < 0 || g >= e.Catalog().Size() {
				t.Errorf("gene %d out of range", g)
			}
		}
		if i > 0 && res.Population[i-1].Fitness() > ind.Fitness() {
			t.Errorf("population not sorted at %d", i)
		}
	}
	if len(gens) != res.Generations+1 || gens[0] != 0 {
		t.Errorf("observer saw generations %v for a %d-generation run", gens, res.Generations)
	}
}

func TestSearchDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a, err := testEngine(t).Search(context.Background(), testPrefs(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := testEngine(t).Search(context.Background(), testPrefs(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Best().Genes(), b.Best().Genes()) || a.Generations != b.Generations {
		t.Errorf("runs differ: %v/%d vs %v/%d", a.Best().Genes(), a.Generations, b.Best().Genes(), b.Generations)
	}
}

func TestSearchWith(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	cfg := testConfig().Search
	cfg.PopulationSize = 6
	res, err := e.SearchWith(context.Background(), cfg, testPrefs(), nil)
	if err != nil {
		t.Fatalf("SearchWith: %v", err)
	}
	if len(res.Population) != 6 {
		t.Errorf("population size = %d, want 6", len(res.Population))
	}

	cfg.Genes = 0
	if _, err := e.SearchWith(context.Background(), cfg, testPrefs(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSearchRejectsInvalidPreferences(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	bad := scoring.NewPreferences(scoring.Period{Start: 2005, End: 1990}, 120, "Drama")
	if _, err := e.Search(context.Background(), bad, nil); !errors.Is(err, ErrInvalidPreferences) {
		t.Errorf("Search err = %v, want ErrInvalidPreferences", err)
	}
	if _, err := e.StartSearch(context.Background(), bad, nil); !errors.Is(err, ErrInvalidPreferences) {
		t.Errorf("StartSearch err = %v, want ErrInvalidPreferences", err)
	}
}

func TestStartSearch(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	f, err := e.StartSearch(ctx, testPrefs(), nil)
	if err != nil {
		t.Fatalf("StartSearch: %v", err)
	}
	// Cancelling the starting context must not abort the search.
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer waitCancel()
	res, err := f.Wait(waitCtx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if res.Best() == nil {
		t.Fatal("no best individual")
	}
	if !f.Ready() {
		t.Error("future not ready after Wait returned")
	}
	select {
	case <-f.Done():
	default:
		t.Error("Done not closed")
	}
}

func TestStartSearchWith(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	cfg := testConfig().Search
	cfg.MinGenerations, cfg.MaxGenerations = 5, 2
	if _, err := e.StartSearchWith(context.Background(), cfg, testPrefs(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("inverted bounds: err = %v, want ErrInvalidConfig", err)
	}

	cfg = testConfig().Search
	cfg.Genes = 2
	f, err := e.StartSearchWith(context.Background(), cfg, testPrefs(), nil)
	if err != nil {
		t.Fatalf("StartSearchWith: %v", err)
	}
	waitCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := f.Wait(waitCtx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := res.Best().Len(); got != 2 {
		t.Errorf("best has %d genes, want 2", got)
	}
}

func TestFutureWaitHonorsContext(t *testing.T) {
	t.Parallel()

	f := newFuture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if f.Ready() {
		t.Error("pending future reported ready")
	}

	f.complete(nil, errors.New("first"))
	f.complete(nil, errors.New("second"))
	if _, err := f.Wait(context.Background()); err == nil || err.Error() != "first" {
		t.Errorf("err = %v, want first", err)
	}
}

func population(sets ...[]int) genetic.Population {
	pop := make(genetic.Population, len(sets))
	for i, genes := range sets {
		pop[i] = genetic.NewIndividual(genes)
		pop[i].SetFitness(float64(i))
	}
	return pop
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	pop := population([]int{0, 1, 2}, []int{9, 1, 4}, []int{2, 10, 0})

	rec, err := e.Recommend(context.Background(), pop, testPrefs(), feedback.Ratings{
		Like:    []int{0},
		Dislike: []int{1},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(rec.Ranked) != 6 {
		t.Fatalf("ranked %d candidates, want 6 unique", len(rec.Ranked))
	}
	if rec.Movie.Index != rec.Ranked[0].Index || rec.Score != rec.Ranked[0].Score {
		t.Errorf("winner %d/%v does not head ranking %+v", rec.Movie.Index, rec.Score, rec.Ranked[0])
	}
	for i := 1; i < len(rec.Ranked); i++ {
		if rec.Ranked[i-1].Score > rec.Ranked[i].Score {
			t.Errorf("ranking not ascending at %d", i)
		}
	}
	if !slices.Contains(rec.Feedback.DirectorsLiked, "Ada Moreau") {
		t.Errorf("liked directors = %v", rec.Feedback.DirectorsLiked)
	}
	if !slices.Contains(rec.Feedback.KeywordsDisliked, "heist") {
		t.Errorf("disliked keywords = %v", rec.Feedback.KeywordsDisliked)
	}
	if rec.Explanation.Title != rec.Movie.Title {
		t.Errorf("explanation title = %q, want %q", rec.Explanation.Title, rec.Movie.Title)
	}
}

func TestRecommendWithoutRatings(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	rec, err := e.Recommend(context.Background(), population([]int{0, 1}), testPrefs(), feedback.Ratings{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(rec.Ranked) != 2 {
		t.Errorf("ranked %d, want 2", len(rec.Ranked))
	}
}

func TestRecommendErrors(t *testing.T) {
	t.Parallel()

	e := testEngine(t)
	if _, err := e.Recommend(context.Background(), nil, testPrefs(), feedback.Ratings{}); !errors.Is(err, ErrEmptyCandidateSet) {
		t.Errorf("empty population: err = %v, want ErrEmptyCandidateSet", err)
	}

	_, err := e.Recommend(context.Background(), population([]int{0}), testPrefs(), feedback.Ratings{Like: []int{99}})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("bad rating: err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSample(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SampleSize = 2
	e, err := NewEngine(cfg, catalogtest.Catalog(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	pop := population([]int{4, 4, 7, 1}, []int{0, 2, 3})
	if got := e.Sample(pop); !slices.Equal(got, []int{4, 7}) {
		t.Errorf("Sample = %v, want [4 7]", got)
	}
	if got := testEngine(t).Sample(pop); !slices.Equal(got, []int{4, 7, 1}) {
		t.Errorf("uncapped Sample = %v, want [4 7 1]", got)
	}
}
