// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package services

import (
	"context"
	"errors"
	"fmt"
)

// ProgressRouter matches *progress.Router.
type ProgressRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterFactory builds a fresh router. Watermill routers cannot be run
// twice, so every supervised restart asks for a new one.
type RouterFactory func() (ProgressRouter, error)

// ProgressRouterService supervises the router that forwards progress
// events from the bus to the websocket hub.
type ProgressRouterService struct {
	factory RouterFactory
	name    string
}

// NewProgressRouterService creates the service.
func NewProgressRouterService(factory RouterFactory) *ProgressRouterService {
	return &ProgressRouterService{
		factory: factory,
		name:    "progress-router",
	}
}

// Serve implements suture.Service.
func (p *ProgressRouterService) Serve(ctx context.Context) error {
	router, err := p.factory()
	if err != nil {
		return fmt.Errorf("build progress router: %w", err)
	}

	runErr := router.Run(ctx)
	closeErr := router.Close()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runErr != nil {
		return fmt.Errorf("progress router stopped: %w", runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("progress router close: %w", closeErr)
	}
	// A router that returns on its own without an error was closed
	// externally; restarting it gives a fresh subscription.
	return errors.New("progress router exited")
}

// String implements fmt.Stringer.
func (p *ProgressRouterService) String() string {
	return p.name
}
