// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"net/http"
	"time"

	"github.com/reelpick/reelpick/internal/models"
)

// Health handles GET /api/v1/health. The service is degraded while the
// progress publisher's circuit breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:         "healthy",
		Version:        h.version,
		CatalogSize:    h.engine.Catalog().Size(),
		StoreAvailable: h.store != nil,
		ProgressState:  "disabled",
		ActiveSearch:   h.searches.Active(),
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	if h.bus != nil {
		health.ProgressState = h.bus.BreakerState()
		if health.ProgressState == "open" {
			health.Status = "degraded"
		}
	}
	if h.hub != nil {
		health.StreamClients = h.hub.ClientCount()
	}

	respondSuccess(w, r, http.StatusOK, health)
}
