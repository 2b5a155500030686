// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

const (
	generationEvent = `{"search_id":"s1","type":"generation","stats":{"generation":1}}`
	finishedEvent   = `{"search_id":"s1","type":"finished"}`
)

// startHub runs a hub until the test ends.
func startHub(t *testing.T, cfg Config) *Hub {
	t.Helper()
	hub := NewHub(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.RunWithContext(ctx) }()
	return hub
}

// serveHub upgrades each request and attaches a client watching the search
// named by the "search" query parameter.
func serveHub(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("search"))
		if hub.Attach(client) {
			client.Start()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, search string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?search=" + search
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubRoutesBySearch(t *testing.T) {
	hub := startHub(t, Config{})
	srv := serveHub(t, hub)

	watcher := dial(t, srv, "s1")
	other := dial(t, srv, "s2")
	waitForClients(t, hub, 2)

	hub.Deliver("s1", []byte(finishedEvent))

	_ = watcher.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := watcher.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != finishedEvent {
		t.Errorf("payload = %s", data)
	}

	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("client watching another search received the event")
	}
}

func TestHubAnswersPing(t *testing.T) {
	hub := startHub(t, Config{})
	srv := serveHub(t, hub)
	conn := dial(t, srv, "s1")
	waitForClients(t, hub, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatal(err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"pong"`) {
		t.Errorf("reply = %s, want pong", data)
	}
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub := startHub(t, Config{})
	srv := serveHub(t, hub)
	conn := dial(t, srv, "s1")
	waitForClients(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- hub.RunWithContext(ctx) }()

	srv := serveHub(t, hub)
	conn := dial(t, srv, "s1")
	waitForClients(t, hub, 1)

	cancel()
	if err := <-errc; err != context.Canceled {
		t.Errorf("RunWithContext = %v, want context.Canceled", err)
	}
	if hub.ClientCount() != 0 {
		t.Errorf("clients left after shutdown: %d", hub.ClientCount())
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("read after shutdown = %v, want normal close", err)
	}
	if hub.Attach(&Client{hub: hub, send: make(chan []byte)}) {
		t.Error("Attach succeeded on a stopped hub")
	}
}

func TestThrottleLetsTerminalEventsThrough(t *testing.T) {
	hub := NewHub(Config{EventsPerSecond: 0.001, Burst: 1})

	if !hub.allow("s1", false) {
		t.Fatal("first generation event should pass")
	}
	if hub.allow("s1", false) {
		t.Error("second generation event should be throttled")
	}
	if !hub.allow("s2", false) {
		t.Error("searches must not share a bucket")
	}
	if !hub.allow("s1", true) {
		t.Error("terminal event throttled")
	}
	if !hub.allow("s1", false) {
		t.Error("bucket not released after terminal event")
	}
}

func TestThrottleDisabled(t *testing.T) {
	hub := NewHub(Config{})
	for i := 0; i < 100; i++ {
		if !hub.allow("s1", false) {
			t.Fatalf("event %d throttled with throttling disabled", i)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal([]byte(generationEvent)) {
		t.Error("generation event reported terminal")
	}
	if !isTerminal([]byte(finishedEvent)) {
		t.Error("finished event not terminal")
	}
	if !isTerminal([]byte(`{"type":"failed"}`)) {
		t.Error("failed event not terminal")
	}
	if isTerminal([]byte(`not json`)) {
		t.Error("garbage reported terminal")
	}
}

func TestDeliverDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(Config{QueueSize: 1})
	hub.Deliver("s1", []byte(finishedEvent))
	hub.Deliver("s1", []byte(finishedEvent)) // hub not running: queue stays full
	if got := len(hub.deliveries); got != 1 {
		t.Errorf("queued = %d, want 1", got)
	}
}
