// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

/*
Package supervisor provides process supervision for Reelpick using suture v4.

NewServeTree groups the long-running parts of "reelpick serve" so each
group restarts on its own:

	reelpick-serve
	├── report-store      (only when reports are kept on disk)
	│   └── StoreGCService
	├── progress-streams
	│   ├── WebSocketHubService
	│   └── ProgressRouterService
	└── http-api
	    └── HTTPServerService

A crashed progress router is rebuilt without dropping the HTTP listener.
Searches run on the engine's own goroutines and are not supervised; the
HTTP service drains them on shutdown.

Supervisor events (service start, failure, backoff) are logged through
sutureslog into the zerolog sink:

	tree, err := supervisor.NewServeTree(logging.NewSlogLogger("supervisor"), cfg, supervisor.ServeServices{
		Hub:      services.NewWebSocketHubService(hub),
		Progress: services.NewProgressRouterService(newRouter),
		HTTP:     services.NewHTTPServerService(server, addr, timeout, logger),
	})
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
