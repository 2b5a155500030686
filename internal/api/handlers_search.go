// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/models"
	"github.com/reelpick/reelpick/internal/recommend"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
	"github.com/reelpick/reelpick/internal/recommend/storage"
)

// Movie handles GET /api/v1/movies/{index}.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Movie index must be an integer", nil)
		return
	}

	movie, err := h.engine.Movie(index)
	if err != nil {
		if errors.Is(err, recommend.ErrIndexOutOfRange) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "No movie at index "+strconv.Itoa(index), nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read movie", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, movie)
}

// StartSearch handles POST /api/v1/search. The search runs in the background;
// the response carries its ID. Only one search runs at a time.
func (h *Handler) StartSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}

	cfg := req.SearchConfig(h.engine.Config().Search)
	id := logging.GenerateSearchID()
	run, err := h.searches.Begin(id, req, cfg)
	if err != nil {
		respondError(w, r, http.StatusConflict, ErrCodeSearchInProgress, "A search is already running", nil)
		return
	}

	ctx := logging.ContextWithSearchID(r.Context(), id)
	var observe genetic.Observer = run.observe
	if h.bus != nil {
		publish := h.bus.Observer(id)
		observe = func(st genetic.GenerationStats) {
			run.observe(st)
			publish(st)
		}
	}

	future, err := h.engine.StartSearchWith(ctx, cfg, run.prefs, observe)
	if err != nil {
		h.searches.Abort(id)
		if errors.Is(err, recommend.ErrInvalidConfig) || errors.Is(err, recommend.ErrInvalidPreferences) {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, sanitizeLogValue(err.Error()), nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to start search", err)
		return
	}

	h.pending.Add(1)
	go h.await(context.WithoutCancel(ctx), run, future)

	respondSuccess(w, r, http.StatusAccepted, models.SearchAccepted{
		SearchID:  id,
		State:     models.SearchRunning,
		Config:    cfg,
		StatusURL: "/api/v1/search/" + id,
		StreamURL: "/api/v1/search/" + id + "/stream",
	})
}

// await records the outcome of a background search and publishes the
// terminal progress event. The registry is updated first, so that clients
// reacting to the event see the final state.
func (h *Handler) await(ctx context.Context, run *SearchRun, f *recommend.Future) {
	defer h.pending.Done()

	res, err := f.Wait(ctx)
	h.searches.Finish(run, res, err)
	if h.bus != nil {
		h.bus.Finish(ctx, run.id, err)
	}
}

// SearchStatus handles GET /api/v1/search/{id}.
func (h *Handler) SearchStatus(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondSuccess(w, r, http.StatusOK, run.Status())
}

// SearchSample handles GET /api/v1/search/{id}/sample: the movies of the best
// individual, offered for rating.
func (h *Handler) SearchSample(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	res, ok := finished(w, r, run)
	if !ok {
		return
	}

	indices := h.engine.Sample(res.Population)
	movies := make([]catalog.Movie, 0, len(indices))
	for _, idx := range indices {
		m, err := h.engine.Movie(idx)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read movie", err)
			return
		}
		movies = append(movies, m)
	}

	respondSuccess(w, r, http.StatusOK, models.SampleResponse{SearchID: run.id, Movies: movies})
}

// Rerank handles POST /api/v1/search/{id}/rerank. The ratings are folded into
// the search preferences and every candidate of the final population is
// rescored. The result is stored when a report store is configured.
func (h *Handler) Rerank(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	res, ok := finished(w, r, run)
	if !ok {
		return
	}

	var req models.RerankRequest
	if !decodeAndValidate(w, r, &req, true) {
		return
	}

	ctx := logging.ContextWithSearchID(r.Context(), run.id)
	ratings := req.Ratings()
	rec, err := h.engine.Recommend(ctx, res.Population, run.prefs, ratings)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrIndexOutOfRange):
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, sanitizeLogValue(err.Error()), nil)
		case errors.Is(err, recommend.ErrEmptyCandidateSet):
			respondError(w, r, http.StatusConflict, ErrCodeSearchFailed, "Search produced no candidates", nil)
		default:
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to rerank", err)
		}
		return
	}

	resp := models.RecommendationResponse{
		SearchID:       run.id,
		Recommendation: rec,
		Reasons:        rec.Explanation.Lines(),
	}

	if h.store != nil {
		record := storage.NewRecommendationRecord(run.id, storage.RequestRecord{
			PeriodStart: run.request.PeriodStart,
			PeriodEnd:   run.request.PeriodEnd,
			Length:      run.request.Length,
			Genres:      run.prefs.Genres.Sorted(),
		}, run.config, res, ratings, rec)
		id, err := h.store.SaveRecommendation(ctx, record)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("recommendation not stored")
		} else {
			resp.ReportID = id
			run.setReport(id)
		}
	}

	respondSuccess(w, r, http.StatusOK, resp)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*SearchRun, bool) {
	run, err := h.searches.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Search not found", nil)
		return nil, false
	}
	return run, true
}

// finished returns the result of a completed search, or writes a 409 when it
// is still running or has failed.
func finished(w http.ResponseWriter, r *http.Request, run *SearchRun) (*genetic.Result, bool) {
	if run.State() == models.SearchRunning {
		respondError(w, r, http.StatusConflict, ErrCodeSearchNotReady, "Search is still running", nil)
		return nil, false
	}
	res, err := run.Result()
	if err != nil {
		respondError(w, r, http.StatusConflict, ErrCodeSearchFailed, "Search failed: "+sanitizeLogValue(err.Error()), nil)
		return nil, false
	}
	return res, true
}
