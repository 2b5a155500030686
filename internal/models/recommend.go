// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package models

import (
	"time"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/recommend"
	"github.com/reelpick/reelpick/internal/recommend/feedback"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

// Search states reported by GET /api/v1/search/{id}.
const (
	SearchRunning  = "running"
	SearchDone     = "done"
	SearchFailed   = "failed"
	SearchReranked = "reranked"
)

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	PeriodStart int              `json:"period_start" validate:"gte=0,lte=9999"`
	PeriodEnd   int              `json:"period_end" validate:"gtefield=PeriodStart,lte=9999"`
	Length      int              `json:"length" validate:"gte=40,lte=240,step=5"`
	Genres      []string         `json:"genres" validate:"required,min=1,max=32,dive,genre"`
	Search      *SearchOverrides `json:"search,omitempty"`
}

// SearchOverrides replaces individual fields of the configured search
// parameters for one run. Unset fields keep the configured value.
type SearchOverrides struct {
	PopulationSize *int     `json:"pop_size,omitempty" validate:"omitempty,gte=1,lte=10000"`
	Genes          *int     `json:"genes,omitempty" validate:"omitempty,gte=1,lte=50"`
	CrossoverProb  *float64 `json:"cxpb,omitempty" validate:"omitempty,gte=0,lte=1"`
	MutationProb   *float64 `json:"mutpb,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinGenerations *int     `json:"min_iter,omitempty" validate:"omitempty,gte=0,lte=1000"`
	MaxGenerations *int     `json:"max_iter,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Seed           *uint64  `json:"seed,omitempty"`
}

// Preferences converts the request to phase-one preferences.
func (r *SearchRequest) Preferences() scoring.Preferences {
	return scoring.NewPreferences(scoring.Period{Start: r.PeriodStart, End: r.PeriodEnd}, r.Length, r.Genres...)
}

// SearchConfig applies the overrides to base.
func (r *SearchRequest) SearchConfig(base genetic.Config) genetic.Config {
	o := r.Search
	if o == nil {
		return base
	}
	if o.PopulationSize != nil {
		base.PopulationSize = *o.PopulationSize
	}
	if o.Genes != nil {
		base.Genes = *o.Genes
	}
	if o.CrossoverProb != nil {
		base.CrossoverProb = *o.CrossoverProb
	}
	if o.MutationProb != nil {
		base.MutationProb = *o.MutationProb
	}
	if o.MinGenerations != nil {
		base.MinGenerations = *o.MinGenerations
	}
	if o.MaxGenerations != nil {
		base.MaxGenerations = *o.MaxGenerations
	}
	if o.Seed != nil {
		base.Seed = *o.Seed
	}
	return base
}

// SearchAccepted is returned with 202 when a search starts.
type SearchAccepted struct {
	SearchID  string         `json:"search_id"`
	State     string         `json:"state"`
	Config    genetic.Config `json:"config"`
	StatusURL string         `json:"status_url"`
	StreamURL string         `json:"stream_url"`
}

// Individual is one member of the final population.
type Individual struct {
	Genes   []int   `json:"genes"`
	Fitness float64 `json:"fitness"`
}

// SearchStatus describes a search. Population is set once the search is done
// and is sorted best first.
type SearchStatus struct {
	SearchID    string                   `json:"search_id"`
	State       string                   `json:"state"`
	StartedAt   time.Time                `json:"started_at"`
	FinishedAt  *time.Time               `json:"finished_at,omitempty"`
	Progress    *genetic.GenerationStats `json:"progress,omitempty"`
	Generations int                      `json:"generations,omitempty"`
	Evaluations int                      `json:"evaluations,omitempty"`
	Stagnated   bool                     `json:"stagnated,omitempty"`
	Population  []Individual             `json:"population,omitempty"`
	Error       string                   `json:"error,omitempty"`
	ReportID    string                   `json:"report_id,omitempty"`
}

// NewIndividuals flattens a population for the wire.
func NewIndividuals(pop genetic.Population) []Individual {
	out := make([]Individual, len(pop))
	for i, ind := range pop {
		out[i] = Individual{Genes: ind.Genes(), Fitness: ind.Fitness()}
	}
	return out
}

// SampleResponse lists the movies offered for rating.
type SampleResponse struct {
	SearchID string          `json:"search_id"`
	Movies   []catalog.Movie `json:"movies"`
}

// RerankRequest is the body of POST /api/v1/search/{id}/rerank. Indices are
// catalog positions; a movie may appear in both lists.
type RerankRequest struct {
	Like    []int `json:"like" validate:"max=100,dive,gte=0"`
	Dislike []int `json:"dislike" validate:"max=100,dive,gte=0"`
}

// Ratings converts the request to feedback ratings.
func (r *RerankRequest) Ratings() feedback.Ratings {
	return feedback.Ratings{Like: r.Like, Dislike: r.Dislike}
}

// RecommendationResponse is the body returned by a rerank.
type RecommendationResponse struct {
	SearchID string `json:"search_id"`
	ReportID string `json:"report_id,omitempty"`
	*recommend.Recommendation
	Reasons []string `json:"reasons"`
}
