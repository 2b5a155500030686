// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse wraps every JSON body served under /api/v1.
//
// Example success:
//
//	{
//	  "status": "success",
//	  "data": {"search_id": "0b1c...", "state": "running"},
//	  "metadata": {"timestamp": "2026-10-18T12:00:00Z"}
//	}
//
// Example error:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-10-18T12:00:00Z"},
//	  "error": {"code": "SEARCH_IN_PROGRESS", "message": "a search is already running"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and the request correlation ID.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the error part of the envelope. Code is machine-readable.
//
// Codes in use:
//   - VALIDATION_ERROR: request body or parameter failed validation
//   - INVALID_JSON: body could not be decoded
//   - NOT_FOUND: unknown movie index, search ID or report
//   - SEARCH_IN_PROGRESS: a search is already running
//   - SEARCH_NOT_READY: the search has not finished yet
//   - SEARCH_FAILED: the search ended with an error
//   - SERVICE_UNAVAILABLE: an optional component is not configured
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	CatalogSize    int     `json:"catalog_size"`
	StoreAvailable bool    `json:"store_available"`
	ProgressState  string  `json:"progress_breaker"`
	ActiveSearch   string  `json:"active_search,omitempty"`
	StreamClients  int     `json:"stream_clients"`
	Uptime         float64 `json:"uptime_seconds"`
}
