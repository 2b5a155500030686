// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package catalog

import (
	"errors"
	"fmt"
)

// Attribute names a raw catalog column.
type Attribute string

// Canonical catalog attributes.
const (
	AttrDuration    Attribute = "duration"
	AttrRating      Attribute = "rating"
	AttrReleaseDate Attribute = "release_date"
	AttrGenres      Attribute = "genres"
	AttrDirectors   Attribute = "directors"
	AttrStars       Attribute = "stars"
	AttrKeywords    Attribute = "keywords"
	AttrTitle       Attribute = "title"
	AttrDescription Attribute = "description"
)

// AllAttributes lists every attribute in column order.
var AllAttributes = []Attribute{
	AttrDuration,
	AttrRating,
	AttrReleaseDate,
	AttrGenres,
	AttrDirectors,
	AttrStars,
	AttrKeywords,
	AttrTitle,
	AttrDescription,
}

var (
	// ErrIndexOutOfRange is returned for indices outside [0, Size()).
	ErrIndexOutOfRange = errors.New("catalog index out of range")

	// ErrUnknownAttribute is returned when a requested attribute is not a catalog column.
	ErrUnknownAttribute = errors.New("unknown catalog attribute")
)

// Accessor is the read-only catalog contract.
//
// Get returns the raw values of the requested attributes for one movie, in
// the same order as attrs. Implementations must be safe for concurrent reads.
type Accessor interface {
	Size() int
	Get(index int, attrs ...Attribute) ([]any, error)
}

// Valid reports whether a is a known catalog attribute.
func (a Attribute) Valid() bool {
	for _, known := range AllAttributes {
		if a == known {
			return true
		}
	}
	return false
}

// CheckIndex returns ErrIndexOutOfRange wrapped with context when index is not
// addressable in a catalog of the given size.
func CheckIndex(index, size int) error {
	if index < 0 || index >= size {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, size)
	}
	return nil
}
