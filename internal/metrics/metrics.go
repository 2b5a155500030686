// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Genetic search runs and generations
// - Second-phase reranking
// - Progress event publishing and the WebSocket stream
// - Parameter tuning sweeps

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Search Metrics
	SearchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_runs_total",
			Help: "Total number of genetic search runs by outcome",
		},
		[]string{"outcome"}, // "stagnated", "max_generations", "error"
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Wall time of a complete genetic search run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms .. ~80s
		},
	)

	SearchGenerations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_generations",
			Help:    "Generations executed per search run",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)

	SearchGenerationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_generations_total",
			Help: "Total generations executed across all runs",
		},
	)

	SearchEvaluationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_fitness_evaluations_total",
			Help: "Total fitness evaluations across all runs",
		},
	)

	SearchBestFitness = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_best_fitness",
			Help: "Best fitness of the most recently finished run (lower is better)",
		},
	)

	SearchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_in_flight",
			Help: "Number of genetic searches currently running",
		},
	)

	// Rerank Metrics
	RerankTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rerank_total",
			Help: "Total number of second-phase reranks by outcome",
		},
		[]string{"outcome"}, // "success", "empty", "error"
	)

	RerankCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rerank_candidates",
			Help:    "Unique candidates scored per rerank",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	RerankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rerank_duration_seconds",
			Help:    "Duration of second-phase reranks",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Progress and streaming
	ProgressEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_events_total",
			Help: "Search progress events by publish result",
		},
		[]string{"result"}, // "published", "failed", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of active WebSocket connections",
		},
	)

	WSMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_total",
			Help: "WebSocket messages by result",
		},
		[]string{"result"}, // "sent", "throttled", "dropped"
	)

	// Tuning
	TuneRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tune_runs_total",
			Help: "Total parameter combinations evaluated by tuning sweeps",
		},
	)

	// Catalog
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)
)

// RecordAPIRequest records one served API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSearch records a finished search run.
func RecordSearch(duration time.Duration, generations, evaluations int, bestFitness float64, stagnated bool, err error) {
	SearchDuration.Observe(duration.Seconds())
	if err != nil {
		SearchRunsTotal.WithLabelValues("error").Inc()
		return
	}

	outcome := "max_generations"
	if stagnated {
		outcome = "stagnated"
	}
	SearchRunsTotal.WithLabelValues(outcome).Inc()
	SearchGenerations.Observe(float64(generations))
	SearchEvaluationsTotal.Add(float64(evaluations))
	SearchBestFitness.Set(bestFitness)
}

// RecordGeneration counts one executed generation.
func RecordGeneration() {
	SearchGenerationsTotal.Inc()
}

// TrackSearch increments or decrements the in-flight search gauge.
func TrackSearch(inc bool) {
	if inc {
		SearchesInFlight.Inc()
	} else {
		SearchesInFlight.Dec()
	}
}

// RecordRerank records one rerank. emptyErr identifies the empty candidate
// set error so it is counted separately from other failures.
func RecordRerank(duration time.Duration, candidates int, err, emptyErr error) {
	RerankDuration.Observe(duration.Seconds())
	switch {
	case err == nil:
		RerankTotal.WithLabelValues("success").Inc()
		RerankCandidates.Observe(float64(candidates))
	case emptyErr != nil && errors.Is(err, emptyErr):
		RerankTotal.WithLabelValues("empty").Inc()
	default:
		RerankTotal.WithLabelValues("error").Inc()
	}
}

// RecordProgressEvent records a progress publish attempt.
func RecordProgressEvent(result string) {
	ProgressEventsTotal.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState publishes a breaker state (0 closed, 1 half-open, 2 open).
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordWSMessage records the fate of a WebSocket message.
func RecordWSMessage(result string) {
	WSMessagesTotal.WithLabelValues(result).Inc()
}
