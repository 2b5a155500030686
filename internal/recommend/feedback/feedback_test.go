// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package feedback

import (
	"errors"
	"reflect"
	"testing"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/catalog/catalogtest"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/scoring"
)

func TestCollect(t *testing.T) {
	t.Parallel()

	src := catalog.Decoder{Accessor: catalogtest.Catalog()}
	fb, err := Collect(src, Ratings{Like: []int{0, 2}, Dislike: []int{1, 3}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	sets := Flatten(fb)

	if !reflect.DeepEqual(sets.DirectorsLiked, []string{"Ada Moreau"}) {
		t.Errorf("directors+ = %v", sets.DirectorsLiked)
	}
	if !reflect.DeepEqual(sets.ActorsLiked, []string{"Lena Park", "Tom Reyes"}) {
		t.Errorf("actors+ = %v", sets.ActorsLiked)
	}
	if !reflect.DeepEqual(sets.KeywordsLiked, []string{"family", "friendship", "hope", "prison"}) {
		t.Errorf("keywords+ = %v", sets.KeywordsLiked)
	}
	if !reflect.DeepEqual(sets.DirectorsDisliked, []string{"Kai Lindqvist"}) {
		t.Errorf("directors- = %v", sets.DirectorsDisliked)
	}
	if !reflect.DeepEqual(sets.KeywordsDisliked, []string{"cars", "heist"}) {
		t.Errorf("keywords- = %v", sets.KeywordsDisliked)
	}
}

func TestCollectEmptyRatings(t *testing.T) {
	t.Parallel()

	src := catalog.Decoder{Accessor: catalogtest.Catalog()}
	fb, err := Collect(src, Ratings{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !fb.Empty() {
		t.Error("empty ratings should produce empty feedback")
	}
}

func TestCollectOutOfRange(t *testing.T) {
	t.Parallel()

	src := catalog.Decoder{Accessor: catalogtest.Catalog()}
	if _, err := Collect(src, Ratings{Like: []int{40}}); !errors.Is(err, catalog.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSample(t *testing.T) {
	t.Parallel()

	best := genetic.NewIndividual([]int{4, 2, 4, 7, 2})
	best.SetFitness(1)
	other := genetic.NewIndividual([]int{9, 9, 9, 9, 9})
	other.SetFitness(2)

	if got := Sample(genetic.Population{best, other}); !reflect.DeepEqual(got, []int{4, 2, 7}) {
		t.Errorf("Sample = %v, want [4 2 7]", got)
	}
	if Sample(nil) != nil {
		t.Error("Sample of empty population should be nil")
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()

	m, err := catalog.Decode(catalogtest.Catalog(), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	prefs := scoring.NewPreferences(scoring.Period{Start: 1990, End: 2000}, 120, "Crime", "War").
		WithFeedback(scoring.Feedback{
			LikedDirectors: catalog.NewSet("Ada Moreau"),
			LikedStars:     catalog.NewSet("Lena Park"),
			LikedKeywords:  catalog.NewSet("hope", "space"),
		})

	e := Explain(m, prefs)
	if !e.InPeriod || e.LengthBracket != 125 {
		t.Errorf("period/length wrong: %+v", e)
	}
	if !reflect.DeepEqual(e.MatchedGenres, []string{"Crime"}) {
		t.Errorf("MatchedGenres = %v", e.MatchedGenres)
	}
	if !reflect.DeepEqual(e.LikedDirectors, []string{"Ada Moreau"}) ||
		!reflect.DeepEqual(e.LikedStars, []string{"Lena Park"}) ||
		!reflect.DeepEqual(e.LikedKeywords, []string{"hope"}) {
		t.Errorf("feedback matches wrong: %+v", e)
	}
	if len(e.Lines()) != 6 {
		t.Errorf("Lines() = %v", e.Lines())
	}
}
