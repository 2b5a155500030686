// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package scoring

import (
	"errors"
	"fmt"

	"github.com/reelpick/reelpick/internal/catalog"
)

// ErrInvalidPreferences is returned by Preferences.Validate.
var ErrInvalidPreferences = errors.New("invalid preferences")

// Period is an inclusive range of release years.
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether year lies in the period, both ends included.
func (p Period) Contains(year int) bool {
	return year >= p.Start && year <= p.End
}

// Feedback holds the sets derived from like and dislike ratings.
// Star sets are collected but do not contribute to any score.
type Feedback struct {
	LikedDirectors    catalog.Set
	DislikedDirectors catalog.Set
	LikedStars        catalog.Set
	DislikedStars     catalog.Set
	LikedKeywords     catalog.Set
	DislikedKeywords  catalog.Set
}

// Union merges two feedback values into a new one.
func (f Feedback) Union(other Feedback) Feedback {
	return Feedback{
		LikedDirectors:    f.LikedDirectors.Union(other.LikedDirectors),
		DislikedDirectors: f.DislikedDirectors.Union(other.DislikedDirectors),
		LikedStars:        f.LikedStars.Union(other.LikedStars),
		DislikedStars:     f.DislikedStars.Union(other.DislikedStars),
		LikedKeywords:     f.LikedKeywords.Union(other.LikedKeywords),
		DislikedKeywords:  f.DislikedKeywords.Union(other.DislikedKeywords),
	}
}

// Empty reports whether no feedback set has any entry.
func (f Feedback) Empty() bool {
	return f.LikedDirectors.Len()+f.DislikedDirectors.Len()+
		f.LikedStars.Len()+f.DislikedStars.Len()+
		f.LikedKeywords.Len()+f.DislikedKeywords.Len() == 0
}

// Preferences describe what the user is looking for. Values are treated as
// immutable: WithFeedback returns a new Preferences and leaves the receiver
// untouched.
type Preferences struct {
	Period   Period
	Length   int
	Genres   catalog.Set
	Feedback Feedback
}

// NewPreferences builds phase-one preferences.
func NewPreferences(period Period, length int, genres ...string) Preferences {
	return Preferences{
		Period: period,
		Length: length,
		Genres: catalog.NewSet(genres...),
	}
}

// WithFeedback returns a copy of p whose feedback is the union of the
// existing feedback and fb.
func (p Preferences) WithFeedback(fb Feedback) Preferences {
	return Preferences{
		Period:   p.Period,
		Length:   p.Length,
		Genres:   p.Genres.Clone(),
		Feedback: p.Feedback.Union(fb),
	}
}

// Validate checks the phase-one fields. The length must be a bracket inside
// the length domain so the bracket distance stays within DMax steps.
func (p Preferences) Validate() error {
	var errs []error
	if p.Period.Start > p.Period.End {
		errs = append(errs, fmt.Errorf("period start %d after end %d", p.Period.Start, p.Period.End))
	}
	if p.Length < MinLength || p.Length > MaxLength {
		errs = append(errs, fmt.Errorf("length must be within [%d, %d] minutes, got %d", MinLength, MaxLength, p.Length))
	} else if p.Length%LengthStep != 0 {
		errs = append(errs, fmt.Errorf("length must be a multiple of %d minutes, got %d", LengthStep, p.Length))
	}
	if p.Genres.Len() == 0 {
		errs = append(errs, errors.New("at least one genre is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPreferences, errors.Join(errs...))
	}
	return nil
}
