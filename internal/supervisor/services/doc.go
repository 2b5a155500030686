// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

/*
Package services provides suture.Service wrappers for Reelpick components.

Each wrapper adapts a component's lifecycle to suture's context-aware
Serve pattern and names itself through fmt.Stringer for supervisor logs:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Binds its own listener on every start so restarts rebind the port
  - Shuts the server down on cancellation, then drains running searches

WebSocket Hub (WebSocketHubService):
  - Runs the progress stream hub; clients get a close frame on shutdown

Progress Router (ProgressRouterService):
  - Builds a fresh watermill router per start and forwards bus events
    to the hub

Store GC (StoreGCService):
  - Periodically reclaims badger value log space in the report store

All wrappers return ctx.Err() on a clean shutdown. Any other error makes
the parent supervisor restart the service with backoff.
*/
package services
