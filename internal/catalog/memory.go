// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package catalog

import "fmt"

// Row holds the raw attribute values of one movie.
type Row map[Attribute]any

// MemoryCatalog is an in-memory Accessor. It is immutable after construction
// and safe for concurrent reads.
type MemoryCatalog struct {
	rows []Row
}

// NewMemoryCatalog creates a catalog over rows. Row i is movie index i.
func NewMemoryCatalog(rows []Row) *MemoryCatalog {
	copied := make([]Row, len(rows))
	copy(copied, rows)
	return &MemoryCatalog{rows: copied}
}

// Size returns the number of movies.
func (c *MemoryCatalog) Size() int {
	return len(c.rows)
}

// Get returns the requested raw attributes of a movie. Attributes missing
// from the row are returned as nil.
func (c *MemoryCatalog) Get(index int, attrs ...Attribute) ([]any, error) {
	if err := CheckIndex(index, len(c.rows)); err != nil {
		return nil, err
	}

	row := c.rows[index]
	values := make([]any, len(attrs))
	for i, attr := range attrs {
		if !attr.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
		}
		values[i] = row[attr]
	}
	return values, nil
}

// FindByTitle returns the index of the first movie whose title matches
// exactly, or -1.
func (c *MemoryCatalog) FindByTitle(title string) int {
	for i, row := range c.rows {
		if s, ok := row[AttrTitle].(string); ok && s == title {
			return i
		}
	}
	return -1
}
