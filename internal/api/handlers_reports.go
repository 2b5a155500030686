// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reelpick/reelpick/internal/recommend/storage"
)

const (
	defaultReportLimit = 20
	maxReportLimit     = 200
)

// ListReports handles GET /api/v1/reports?limit=N, newest first.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}

	limit := defaultReportLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxReportLimit {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer between 1 and 200", nil)
			return
		}
		limit = n
	}

	records, err := h.store.ListRecommendations(r.Context(), limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list reports", err)
		return
	}
	if records == nil {
		records = []*storage.RecommendationRecord{}
	}
	respondSuccess(w, r, http.StatusOK, records)
}

// GetReport handles GET /api/v1/reports/{id}.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}

	rec, err := h.store.GetRecommendation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Report not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read report", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, rec)
}

// ListTuning handles GET /api/v1/tuning?sweep=NAME. Without a sweep every
// stored tuning record is returned.
func (h *Handler) ListTuning(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}

	records, err := h.store.ListTuning(r.Context(), r.URL.Query().Get("sweep"))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list tuning records", err)
		return
	}
	if records == nil {
		records = []storage.TuningRecord{}
	}
	respondSuccess(w, r, http.StatusOK, records)
}

func (h *Handler) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if h.store == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Report store is not configured", nil)
		return false
	}
	return true
}
