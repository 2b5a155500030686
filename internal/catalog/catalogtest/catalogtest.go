// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package catalogtest provides a small fixed movie catalog for tests.
package catalogtest

import (
	"math"

	"github.com/reelpick/reelpick/internal/catalog"
)

// Rows returns the raw fixture rows. Rows use the same mixed encodings found
// in real exports: stringified lists, native slices, NaN ratings and blanks.
func Rows() []catalog.Row {
	return []catalog.Row{
		{ // 0
			catalog.AttrTitle: "The Long Harbor", catalog.AttrDuration: "2h 5m", catalog.AttrRating: 8.1,
			catalog.AttrReleaseDate: "1994-09-23", catalog.AttrGenres: "['Drama', 'Crime']",
			catalog.AttrDirectors: "['Ada Moreau']", catalog.AttrStars: "['Tom Reyes', 'Lena Park']",
			catalog.AttrKeywords: "['prison', 'friendship', 'hope']",
		},
		{ // 1
			catalog.AttrTitle: "Neon Drift", catalog.AttrDuration: "1h 42m", catalog.AttrRating: 6.9,
			catalog.AttrReleaseDate: "2011-05-13", catalog.AttrGenres: []string{"Action", "Thriller"},
			catalog.AttrDirectors: []string{"Kai Lindqvist"}, catalog.AttrStars: []string{"Rui Tanaka"},
			catalog.AttrKeywords: []string{"heist", "cars"},
		},
		{ // 2
			catalog.AttrTitle: "Quiet Orchard", catalog.AttrDuration: "1h 38m", catalog.AttrRating: 7.4,
			catalog.AttrReleaseDate: "2003-02-14", catalog.AttrGenres: "['Drama', 'Romance']",
			catalog.AttrDirectors: "['Ada Moreau']", catalog.AttrStars: "['Lena Park']",
			catalog.AttrKeywords: "['family', 'hope']",
		},
		{ // 3
			catalog.AttrTitle: "Static Bloom", catalog.AttrDuration: "", catalog.AttrRating: math.NaN(),
			catalog.AttrReleaseDate: "", catalog.AttrGenres: "[]",
			catalog.AttrDirectors: "", catalog.AttrStars: nil, catalog.AttrKeywords: "[]",
		},
		{ // 4
			catalog.AttrTitle: "Red Meridian", catalog.AttrDuration: "2h 31m", catalog.AttrRating: 7.8,
			catalog.AttrReleaseDate: "1979-11-02", catalog.AttrGenres: "['War', 'Drama']",
			catalog.AttrDirectors: "['Piotr Halas']", catalog.AttrStars: "['Tom Reyes']",
			catalog.AttrKeywords: "['jungle', 'madness']",
		},
		{ // 5
			catalog.AttrTitle: "Paper Comets", catalog.AttrDuration: "1h 29m", catalog.AttrRating: 6.2,
			catalog.AttrReleaseDate: "2019-07-19", catalog.AttrGenres: "['Comedy', 'Family']",
			catalog.AttrDirectors: "['June Okafor']", catalog.AttrStars: "['Mia Costa', 'Rui Tanaka']",
			catalog.AttrKeywords: "['school', 'friendship']",
		},
		{ // 6
			catalog.AttrTitle: "Glass Tide", catalog.AttrDuration: "1h 55m", catalog.AttrRating: 7.9,
			catalog.AttrReleaseDate: "2015-10-09", catalog.AttrGenres: "['Sci-Fi', 'Drama']",
			catalog.AttrDirectors: "['Kai Lindqvist']", catalog.AttrStars: "['Lena Park']",
			catalog.AttrKeywords: "['space', 'isolation', 'hope']",
		},
		{ // 7
			catalog.AttrTitle: "Bitter Lanterns", catalog.AttrDuration: "45m", catalog.AttrRating: 5.1,
			catalog.AttrReleaseDate: "1962-03-30", catalog.AttrGenres: "['Horror']",
			catalog.AttrDirectors: "['Piotr Halas']", catalog.AttrStars: "['Mia Costa']",
			catalog.AttrKeywords: "['ghost']",
		},
		{ // 8
			catalog.AttrTitle: "Hollow Crown Road", catalog.AttrDuration: "3h", catalog.AttrRating: 8.4,
			catalog.AttrReleaseDate: "2001-12-19", catalog.AttrGenres: "['Fantasy', 'Adventure', 'Drama']",
			catalog.AttrDirectors: "['June Okafor']", catalog.AttrStars: "['Tom Reyes', 'Mia Costa']",
			catalog.AttrKeywords: "['quest', 'friendship']",
		},
		{ // 9
			catalog.AttrTitle: "Ledger", catalog.AttrDuration: "1h 50m", catalog.AttrRating: 7.0,
			catalog.AttrReleaseDate: "2008-04-04", catalog.AttrGenres: "['Crime', 'Thriller']",
			catalog.AttrDirectors: "['Ada Moreau', 'Kai Lindqvist']", catalog.AttrStars: "['Rui Tanaka']",
			catalog.AttrKeywords: "['heist', 'betrayal']",
		},
		{ // 10
			catalog.AttrTitle: "Salt Years", catalog.AttrDuration: "2h", catalog.AttrRating: 6.6,
			catalog.AttrReleaseDate: "1988-08-12", catalog.AttrGenres: "['Drama']",
			catalog.AttrDirectors: "['June Okafor']", catalog.AttrStars: "['Lena Park', 'Tom Reyes']",
			catalog.AttrKeywords: "['sea', 'family']",
		},
		{ // 11
			catalog.AttrTitle: "Cinder Parade", catalog.AttrDuration: "1h 33m", catalog.AttrRating: 4.8,
			catalog.AttrReleaseDate: "2022-01-21", catalog.AttrGenres: "['Comedy']",
			catalog.AttrDirectors: "['Kai Lindqvist']", catalog.AttrStars: "['Mia Costa']",
			catalog.AttrKeywords: "['parade', 'town']",
		},
	}
}

// Catalog returns the fixture rows as a MemoryCatalog.
func Catalog() *catalog.MemoryCatalog {
	return catalog.NewMemoryCatalog(Rows())
}
