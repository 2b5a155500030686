// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

/*
Package metrics provides Prometheus metrics for the recommender.

Metrics are registered on the default registry through promauto and exposed
at /metrics by the API server:

	curl http://localhost:8420/metrics

# Available Metrics

API:
  - api_requests_total{method,endpoint,status}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Search:
  - search_runs_total{outcome}: stagnated, max_generations or error
  - search_duration_seconds, search_generations
  - search_generations_total, search_fitness_evaluations_total
  - search_best_fitness, search_in_flight

Rerank:
  - rerank_total{outcome}, rerank_candidates, rerank_duration_seconds

Streaming:
  - progress_events_total{result}, circuit_breaker_state{name}
  - websocket_connections_active, websocket_messages_total{result}

Other:
  - tune_runs_total, catalog_movies
*/
package metrics
