// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/reelpick/reelpick/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Message types sent by clients.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// clientMessage is a control message read from a client.
type clientMessage struct {
	Type string `json:"type"`
}

// clientIDCounter gives every client a monotonically increasing ID so
// fan-out iterates clients in a stable order.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	id       uint64
	searchID string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
}

// NewClient creates a client watching searchID.
func NewClient(hub *Hub, conn *websocket.Conn, searchID string) *Client {
	return &Client{
		id:       clientIDCounter.Add(1),
		searchID: searchID,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, hub.config.ClientBuffer),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// SearchID returns the search the client watches.
func (c *Client) SearchID() string {
	return c.searchID
}

// readPump drains the connection so control frames are processed. Pings sent
// as JSON messages are answered with a pong.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close() // best-effort cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	pong, _ := json.Marshal(clientMessage{Type: MessageTypePong}) //nolint:errcheck // static struct
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Uint64("client", c.id).Msg("unexpected websocket close")
			}
			return
		}

		var msg clientMessage
		if json.Unmarshal(data, &msg) == nil && msg.Type == MessageTypePing {
			select {
			case c.send <- pong:
			default:
			}
		}
	}
}

// writePump writes queued payloads and periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // best-effort cleanup
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logging.Debug().Err(err).Uint64("client", c.id).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
