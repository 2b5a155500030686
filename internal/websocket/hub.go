// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/metrics"
	"github.com/reelpick/reelpick/internal/progress"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Config tunes the hub.
type Config struct {
	// EventsPerSecond caps generation events per search. Zero disables
	// throttling.
	EventsPerSecond float64 `koanf:"events_per_second"`

	// Burst is the token bucket size.
	Burst int `koanf:"burst"`

	// QueueSize is the hub's inbound buffer.
	QueueSize int `koanf:"queue_size"`

	// ClientBuffer is each client's outbound buffer.
	ClientBuffer int `koanf:"client_buffer"`
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		EventsPerSecond: 20,
		Burst:           5,
		QueueSize:       256,
		ClientBuffer:    64,
	}
}

var _ progress.Sink = (*Hub)(nil)

type delivery struct {
	searchID string
	payload  []byte
}

// Hub maintains the set of active clients and fans progress out to them.
type Hub struct {
	config     Config
	clients    map[*Client]bool
	deliveries chan delivery
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	doneOnce   sync.Once
	mu         sync.RWMutex

	limMu    sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHub creates a Hub. Zero fields of cfg take their defaults.
func NewHub(cfg Config) *Hub {
	def := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = def.ClientBuffer
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	return &Hub{
		config:     cfg,
		clients:    make(map[*Client]bool),
		deliveries: make(chan delivery, cfg.QueueSize),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// RunWithContext runs the hub until ctx is done, then closes every client.
// Lifecycle events are handled before deliveries so a client registered
// ahead of an event receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	defer h.doneOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case d := <-h.deliveries:
			h.fanOut(d)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(n))
	logging.Debug().Uint64("client", c.id).Str("search_id", c.searchID).Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(n))
	logging.Debug().Uint64("client", c.id).Int("total_clients", n).Msg("websocket client disconnected")
}

// Attach registers c. It returns false if the hub has stopped.
func (h *Hub) Attach(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

// unregister is used by clients; it never blocks once the hub has stopped.
func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// fanOut sends d to every client watching its search, in client ID order.
func (h *Hub) fanOut(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var targets []*Client
	for c := range h.clients {
		if c.searchID == d.searchID {
			targets = append(targets, c)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	for _, c := range targets {
		select {
		case c.send <- d.payload:
			metrics.RecordWSMessage("sent")
		default:
			// Slow consumer: disconnect rather than block the hub.
			metrics.RecordWSMessage("dropped")
			close(c.send)
			delete(h.clients, c)
		}
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	for _, c := range clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
	metrics.WSConnections.Set(0)

	reason := ShutdownReasonContextCanceled
	if ctx.Err() == context.DeadlineExceeded {
		reason = ShutdownReasonContextDeadline
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(reason)).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

// Deliver queues payload for the clients watching searchID. Generation
// events over the per-search rate are dropped. It never blocks.
func (h *Hub) Deliver(searchID string, payload []byte) {
	terminal := isTerminal(payload)
	if !h.allow(searchID, terminal) {
		metrics.RecordWSMessage("throttled")
		return
	}

	select {
	case h.deliveries <- delivery{searchID: searchID, payload: payload}:
	default:
		metrics.RecordWSMessage("dropped")
		logging.Warn().Str("search_id", searchID).Msg("websocket hub queue full, dropping progress event")
	}
}

// allow applies the per-search token bucket. Terminal events always pass and
// release the search's limiter.
func (h *Hub) allow(searchID string, terminal bool) bool {
	if h.config.EventsPerSecond <= 0 {
		return true
	}

	h.limMu.Lock()
	defer h.limMu.Unlock()
	if terminal {
		delete(h.limiters, searchID)
		return true
	}
	lim, ok := h.limiters[searchID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(h.config.EventsPerSecond), h.config.Burst)
		h.limiters[searchID] = lim
	}
	return lim.Allow()
}

func isTerminal(payload []byte) bool {
	var head struct {
		Type progress.EventType `json:"type"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return false
	}
	return head.Type == progress.EventFinished || head.Type == progress.EventFailed
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
