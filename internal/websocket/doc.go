// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

/*
Package websocket streams search progress to browser clients.

Each Client watches exactly one search. The Hub receives encoded progress
events through Deliver (it is the progress.Sink) and forwards each one to the
clients watching that search:

	progress.Router ──Deliver(searchID, payload)──▶ Hub ──▶ Client(searchID)

Generation events are throttled per search with a token bucket
(golang.org/x/time/rate). Terminal events (finished, failed) always pass, so
a client never misses the end of a run. A client whose send buffer is full is
disconnected rather than allowed to block the hub.

Each client runs two goroutines: readPump handles pings and the close
handshake, writePump writes events and keepalive pings.

	hub := websocket.NewHub(websocket.DefaultConfig())
	go hub.RunWithContext(ctx)

	client := websocket.NewClient(hub, conn, searchID)
	hub.Register <- client
	client.Start()
*/
package websocket
