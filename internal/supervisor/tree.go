// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick


package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// ErrMissingService is returned when a required serve service is nil.
var ErrMissingService = errors.New("required service missing")

// TreeConfig holds the restart policy shared by every layer.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// ServeServices are the long-running parts of "reelpick serve".
type ServeServices struct {
	// StoreGC collects the report store's value log. Nil when reports are
	// kept in memory or not at all.
	StoreGC suture.Service

	// Hub fans progress events out to websocket clients.
	Hub suture.Service

	// Progress routes bus events from running searches into the hub.
	Progress suture.Service

	// HTTP serves the API.
	HTTP suture.Service
}

func (s ServeServices) validate() error {
	switch {
	case s.Hub == nil:
		return fmt.Errorf("%w: websocket hub", ErrMissingService)
	case s.Progress == nil:
		return fmt.Errorf("%w: progress router", ErrMissingService)
	case s.HTTP == nil:
		return fmt.Errorf("%w: http server", ErrMissingService)
	}
	return nil
}

// ServeTree supervises "reelpick serve".
//
// Each service group restarts on its own: a crashed progress router or hub
// is rebuilt while the HTTP server keeps accepting searches, and store GC
// failures never reach either.
type ServeTree struct {
	root    *suture.Supervisor
	store   *suture.Supervisor
	streams *suture.Supervisor
	http    *suture.Supervisor
	config  TreeConfig
}

// NewServeTree wires svcs into a supervision tree. Hub, Progress and HTTP
// are required; the store layer exists only when StoreGC is set.
func NewServeTree(logger *slog.Logger, config TreeConfig, svcs ServeServices) (*ServeTree, error) {
	if err := svcs.validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	rootSpec := config.spec()
	// MustHook has a pointer receiver. Layers inherit the hook from root.
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &ServeTree{
		root:   suture.New("reelpick-serve", rootSpec),
		config: config,
	}
	if svcs.StoreGC != nil {
		t.store = t.layer("report-store", svcs.StoreGC)
	}
	t.streams = t.layer("progress-streams", svcs.Hub, svcs.Progress)
	t.http = t.layer("http-api", svcs.HTTP)
	return t, nil
}

func (t *ServeTree) layer(name string, svcs ...suture.Service) *suture.Supervisor {
	sup := suture.New(name, t.config.spec())
	for _, svc := range svcs {
		sup.Add(svc)
	}
	t.root.Add(sup)
	return sup
}

// Root returns the root supervisor.
func (t *ServeTree) Root() *suture.Supervisor {
	return t.root
}

// ServeBackground starts the tree in a background goroutine. The returned
// channel receives the error (or nil) when the tree stops.
func (t *ServeTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *ServeTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
