// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package progress

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelpick/reelpick/internal/recommend/genetic"
)

// Topic is the watermill topic progress events are published on.
const Topic = "search.progress"

// MetadataSearchID is the message metadata key holding the search ID.
const MetadataSearchID = "search_id"

// EventType identifies a progress event.
type EventType string

const (
	EventGeneration EventType = "generation"
	EventFinished   EventType = "finished"
	EventFailed     EventType = "failed"
)

// Event is one progress notification.
type Event struct {
	SearchID string                   `json:"search_id"`
	Type     EventType                `json:"type"`
	Stats    *genetic.GenerationStats `json:"stats,omitempty"`
	Error    string                   `json:"error,omitempty"`
	Time     time.Time                `json:"time"`
}

// Encode serializes e.
func (e *Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode progress event: %w", err)
	}
	return data, nil
}

// DecodeEvent parses a serialized Event.
func DecodeEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode progress event: %w", err)
	}
	if e.SearchID == "" {
		return nil, fmt.Errorf("decode progress event: missing search_id")
	}
	return &e, nil
}
