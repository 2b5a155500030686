// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Sink receives encoded progress events for one search. The WebSocket hub
// implements it.
type Sink interface {
	Deliver(searchID string, payload []byte)
}

// Router forwards progress messages from the bus to a Sink.
type Router struct {
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewRouter builds a router with panic recovery and one forwarding handler.
func NewRouter(bus *Bus, sink Sink, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	wmRouter.AddMiddleware(middleware.Recoverer)

	wmRouter.AddConsumerHandler("progress_to_sink", Topic, bus.Subscriber(), func(msg *message.Message) error {
		searchID := msg.Metadata.Get(MetadataSearchID)
		if searchID == "" {
			ev, err := DecodeEvent(msg.Payload)
			if err != nil {
				// Malformed events are dropped; retrying cannot fix them.
				logger.Error("dropping malformed progress event", err, watermill.LogFields{"uuid": msg.UUID})
				return nil
			}
			searchID = ev.SearchID
		}
		sink.Deliver(searchID, msg.Payload)
		return nil
	})

	return &Router{router: wmRouter, logger: logger}, nil
}

// Run blocks until ctx is cancelled or the router is closed.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once handlers are subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close stops the router.
func (r *Router) Close() error {
	return r.router.Close()
}
