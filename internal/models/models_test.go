// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
	"github.com/reelpick/reelpick/internal/validation"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func uint64Ptr(v uint64) *uint64  { return &v }

func TestSearchRequestPreferences(t *testing.T) {
	req := SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: 100, Genres: []string{"Drama", "Crime", "Drama"}}
	p := req.Preferences()

	if p.Period.Start != 1990 || p.Period.End != 2000 {
		t.Errorf("Period = %+v", p.Period)
	}
	if p.Length != 100 {
		t.Errorf("Length = %d, want 100", p.Length)
	}
	if p.Genres.Len() != 2 || !p.Genres.Has("Crime") {
		t.Errorf("Genres = %v", p.Genres.Sorted())
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSearchConfigOverrides(t *testing.T) {
	base := genetic.DefaultConfig()

	req := SearchRequest{}
	if got := req.SearchConfig(base); got != base {
		t.Errorf("no overrides changed config: %+v", got)
	}

	req.Search = &SearchOverrides{
		PopulationSize: intPtr(40),
		CrossoverProb:  floatPtr(0),
		MaxGenerations: intPtr(30),
		Seed:           uint64Ptr(9),
	}
	got := req.SearchConfig(base)
	if got.PopulationSize != 40 || got.CrossoverProb != 0 || got.MaxGenerations != 30 || got.Seed != 9 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.Genes != base.Genes || got.MutationProb != base.MutationProb || got.MinGenerations != base.MinGenerations {
		t.Errorf("unset fields changed: %+v", got)
	}
}

func TestSearchRequestValidation(t *testing.T) {
	valid := SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: 100, Genres: []string{"Drama"}}
	if verr := validation.ValidateStruct(&valid); verr != nil {
		t.Fatalf("valid request rejected: %v", verr)
	}

	tests := []struct {
		name  string
		req   SearchRequest
		field string
	}{
		{"reversed period", SearchRequest{PeriodStart: 2000, PeriodEnd: 1990, Length: 100, Genres: []string{"Drama"}}, "period_end"},
		{"no genres", SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: 100}, "genres"},
		{"zero length", SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Genres: []string{"Drama"}}, "length"},
		{"length below domain", SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: 35, Genres: []string{"Drama"}}, "length"},
		{"length above domain", SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: 600, Genres: []string{"Drama"}}, "length"},
		{"length off bracket", SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: 92, Genres: []string{"Drama"}}, "length"},
		{"bad override", SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: 100, Genres: []string{"Drama"},
			Search: &SearchOverrides{CrossoverProb: floatPtr(1.5)}}, "cxpb"},
		{"negative population override", SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: 100, Genres: []string{"Drama"},
			Search: &SearchOverrides{PopulationSize: intPtr(-5)}}, "pop_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := validation.ValidateStruct(&tt.req)
			if verr == nil {
				t.Fatal("want validation error")
			}
			if got := verr.Errors()[0].Field(); got != tt.field {
				t.Errorf("field = %q, want %q", got, tt.field)
			}
		})
	}
}

func TestSearchRequestLengthMatchesPreferences(t *testing.T) {
	for _, length := range []int{scoring.MinLength, 95, scoring.MaxLength} {
		req := SearchRequest{PeriodStart: 1990, PeriodEnd: 2000, Length: length, Genres: []string{"Drama"}}
		if verr := validation.ValidateStruct(&req); verr != nil {
			t.Errorf("length %d rejected: %v", length, verr)
			continue
		}
		if err := req.Preferences().Validate(); err != nil {
			t.Errorf("length %d accepted by the request but not the preferences: %v", length, err)
		}
	}
}

func TestRerankRequestValidation(t *testing.T) {
	ok := RerankRequest{Like: []int{0, 3}, Dislike: []int{3}}
	if verr := validation.ValidateStruct(&ok); verr != nil {
		t.Fatalf("valid request rejected: %v", verr)
	}
	r := ok.Ratings()
	if len(r.Like) != 2 || len(r.Dislike) != 1 {
		t.Errorf("Ratings() = %+v", r)
	}

	empty := RerankRequest{}
	if verr := validation.ValidateStruct(&empty); verr != nil {
		t.Errorf("empty ratings rejected: %v", verr)
	}

	bad := RerankRequest{Like: []int{1, -2}}
	verr := validation.ValidateStruct(&bad)
	if verr == nil {
		t.Fatal("negative index accepted")
	}
	if got := verr.Errors()[0].Field(); got != "like[1]" {
		t.Errorf("field = %q, want like[1]", got)
	}
}

func TestNewIndividuals(t *testing.T) {
	a := genetic.NewIndividual([]int{1, 2})
	a.SetFitness(0.5)
	b := genetic.NewIndividual([]int{3, 4})
	b.SetFitness(1.5)

	got := NewIndividuals(genetic.Population{a, b})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Fitness != 0.5 || got[1].Genes[0] != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestAPIResponseEnvelope(t *testing.T) {
	ok, err := json.Marshal(APIResponse{Status: StatusSuccess, Data: map[string]int{"n": 1}, Metadata: Metadata{Timestamp: time.Unix(0, 0).UTC()}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(ok), `"error"`) {
		t.Errorf("success body carries error: %s", ok)
	}

	failed, err := json.Marshal(APIResponse{Status: StatusError, Error: &APIError{Code: "NOT_FOUND", Message: "no such search"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"status":"error"`, `"data":null`, `"code":"NOT_FOUND"`} {
		if !strings.Contains(string(failed), want) {
			t.Errorf("error body %s missing %s", failed, want)
		}
	}
}
