// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"net/http"
	"time"

	"github.com/reelpick/reelpick/internal/models"
	"github.com/reelpick/reelpick/internal/progress"
	ws "github.com/reelpick/reelpick/internal/websocket"
)

// StreamSearch handles GET /api/v1/search/{id}/stream. It upgrades to a
// websocket that receives the progress events of one search. A client that
// connects after the search ended receives the terminal event at once.
func (h *Handler) StreamSearch(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Progress streaming is not enabled", nil)
		return
	}
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		h.logger.Debug().Err(err).Str("search_id", run.id).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, run.id)
	if !h.hub.Attach(client) {
		_ = conn.Close()
		return
	}
	client.Start()

	// Checked after Attach: a search finishing in between produces at worst a
	// duplicate terminal event.
	if run.State() == models.SearchRunning {
		return
	}
	_, searchErr := run.Result()
	ev := &progress.Event{SearchID: run.id, Type: progress.EventFinished, Time: time.Now().UTC()}
	if searchErr != nil {
		ev.Type = progress.EventFailed
		ev.Error = searchErr.Error()
	}
	if payload, err := ev.Encode(); err == nil {
		h.hub.Deliver(run.id, payload)
	} else {
		h.logger.Error().Err(err).Msg("terminal event not sent")
	}
}
