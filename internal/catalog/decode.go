// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDuration decodes a runtime such as "1h 45m", "2h" or "50m" into minutes.
// Blank or unparseable values decode to 0, which scoring treats as unknown.
// Numeric values, as DuckDB returns them for typed columns, are taken to
// already be minutes.
func ParseDuration(raw any) int {
	switch v := raw.(type) {
	case nil:
		return 0
	case int:
		return max(v, 0)
	case int64:
		return max(int(v), 0)
	case int32:
		return max(int(v), 0)
	case int16:
		return max(int(v), 0)
	case float64:
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		return int(v)
	case float32:
		return ParseDuration(float64(v))
	case string:
		return parseDurationString(v)
	default:
		return 0
	}
}

func parseDurationString(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	hours, minutes := 0, 0
	for _, part := range strings.Fields(s) {
		switch {
		case strings.HasSuffix(part, "h"):
			if n, err := strconv.Atoi(strings.TrimSuffix(part, "h")); err == nil {
				hours = n
			}
		case strings.HasSuffix(part, "m"):
			if n, err := strconv.Atoi(strings.TrimSuffix(part, "m")); err == nil {
				minutes = n
			}
		}
	}
	return hours*60 + minutes
}

// ParseRating decodes a rating, mapping undefined numerics to 0.
func ParseRating(raw any) float64 {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case int16:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseYear extracts the release year from a "YYYY-MM-DD" date.
// The boolean is false when the date is missing or has no integer prefix.
func ParseYear(raw any) (int, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		prefix, _, _ := strings.Cut(s, "-")
		year, err := strconv.Atoi(prefix)
		if err != nil {
			return 0, false
		}
		return year, true
	case time.Time:
		if v.IsZero() {
			return 0, false
		}
		return v.Year(), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// ParseList decodes a list attribute into unique tokens, preserving first-seen
// order. It accepts native sequences and the stringified form "['a', 'b']".
// Blank input and "[]" decode to nil.
func ParseList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return uniqueTokens(v)
	case []any:
		tokens := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				tokens = append(tokens, s)
			}
		}
		return uniqueTokens(tokens)
	case string:
		return parseListString(v)
	default:
		return nil
	}
}

func parseListString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return nil
	}

	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		token = strings.TrimSuffix(strings.TrimPrefix(token, "'"), "'")
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return uniqueTokens(tokens)
}

func uniqueTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// EncodeList renders tokens in the stringified list form read by ParseList.
// Tokens must not contain commas or single quotes.
func EncodeList(tokens []string) string {
	if len(tokens) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range tokens {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(t)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

// ParseText decodes a free-text attribute such as title or description.
func ParseText(raw any) string {
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
