// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

/*
Package api serves the recommender over HTTP.

Routes (all JSON bodies use the models.APIResponse envelope):

	GET  /api/v1/health                  service status
	GET  /api/v1/movies/{index}          one decoded catalog movie
	POST /api/v1/search                  start a phase-one search (202)
	GET  /api/v1/search/{id}             search state, final population when done
	GET  /api/v1/search/{id}/sample      movies of the best set, to be rated
	GET  /api/v1/search/{id}/stream      websocket progress events
	POST /api/v1/search/{id}/rerank      phase two: ratings in, recommendation out
	GET  /api/v1/reports[/{id}]          stored recommendations
	GET  /api/v1/tuning?sweep=NAME       stored tuning sweeps
	GET  /metrics                        Prometheus exposition

Only one search runs at a time; a second POST /api/v1/search answers 409
with SEARCH_IN_PROGRESS until the first finishes. Finished searches stay
queryable until the registry evicts them.

Middleware, outermost first: request ID with logging context, real IP,
panic recovery, CORS (go-chi/cors), Prometheus request metrics, request
logging, security headers and per-IP rate limits (go-chi/httprate).

Usage:

	engine, _ := recommend.NewEngine(cfg, catalog, logger)
	h := api.NewHandler(engine, api.Options{Store: store, Bus: bus, Hub: hub}, logger)
	srv := &http.Server{Addr: ":8080", Handler: api.NewRouter(h, api.NewChiMiddleware(nil))}
*/
package api
