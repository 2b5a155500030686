// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package catalog

import "fmt"

// Movie is the decoded view of one catalog row.
type Movie struct {
	Index       int      `json:"index"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Minutes     int      `json:"minutes"`
	Rating      float64  `json:"rating"`
	Year        int      `json:"year,omitempty"`
	HasYear     bool     `json:"has_year"`
	Genres      []string `json:"genres,omitempty"`
	Directors   []string `json:"directors,omitempty"`
	Stars       []string `json:"stars,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Decode reads every attribute of one movie and decodes it.
func Decode(acc Accessor, index int) (Movie, error) {
	raw, err := acc.Get(index, AllAttributes...)
	if err != nil {
		return Movie{}, fmt.Errorf("decode movie %d: %w", index, err)
	}
	if len(raw) != len(AllAttributes) {
		return Movie{}, fmt.Errorf("decode movie %d: got %d values for %d attributes", index, len(raw), len(AllAttributes))
	}

	year, hasYear := ParseYear(raw[2])
	return Movie{
		Index:       index,
		Minutes:     ParseDuration(raw[0]),
		Rating:      ParseRating(raw[1]),
		Year:        year,
		HasYear:     hasYear,
		Genres:      ParseList(raw[3]),
		Directors:   ParseList(raw[4]),
		Stars:       ParseList(raw[5]),
		Keywords:    ParseList(raw[6]),
		Title:       ParseText(raw[7]),
		Description: ParseText(raw[8]),
	}, nil
}

// Source yields decoded movies. CachedFeatures and Decoder both satisfy it.
type Source interface {
	Size() int
	Movie(index int) (Movie, error)
}

// Decoder adapts an Accessor into a Source without caching.
type Decoder struct {
	Accessor Accessor
}

// Size returns the catalog size.
func (d Decoder) Size() int {
	return d.Accessor.Size()
}

// Movie decodes the movie at index.
func (d Decoder) Movie(index int) (Movie, error) {
	return Decode(d.Accessor, index)
}
