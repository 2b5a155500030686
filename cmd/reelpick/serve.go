// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/reelpick/reelpick/internal/api"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/progress"
	"github.com/reelpick/reelpick/internal/supervisor"
	"github.com/reelpick/reelpick/internal/supervisor/services"
	ws "github.com/reelpick/reelpick/internal/websocket"
)

// runServe runs the HTTP API under the supervisor tree until ctx is
// canceled.
func runServe(ctx context.Context, args []string, stderr io.Writer, d deps) error {
	fs := newFlagSet("serve", stderr)
	configPath := fs.String("config", "", "config file")
	addr := fs.String("addr", "", "listen address (overrides HTTP_HOST and HTTP_PORT)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}

	cfg, engine, err := setup(ctx, *configPath, d)
	if err != nil {
		return err
	}
	listenAddr := cfg.Server.Addr()
	if *addr != "" {
		listenAddr = *addr
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	busLogger := logging.NewWatermillAdapter(logging.WithComponent("progress"))
	bus := progress.NewBus(cfg.Progress, busLogger)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing progress bus")
		}
	}()
	hub := ws.NewHub(cfg.Websocket)

	opts := api.Options{
		Bus:            bus,
		Hub:            hub,
		Version:        version,
		AllowedOrigins: cfg.Server.CORSOrigins,
		KeepSearches:   cfg.Server.KeepSearches,
	}
	if store != nil {
		opts.Store = store
	}
	handler := api.NewHandler(engine, opts, logging.Logger())

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Server.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Server.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Server.RateLimitDisabled
	if mwConfig.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}
	for _, origin := range mwConfig.CORSAllowedOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins for public deployments")
			break
		}
	}

	server := &http.Server{
		Handler:           api.NewRouter(handler, api.NewChiMiddleware(mwConfig)),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	httpService := services.NewHTTPServerService(server, listenAddr, cfg.Server.ShutdownTimeout, logging.Logger())
	httpService.SetDrain(handler.WaitIdle)

	svcs := supervisor.ServeServices{
		Hub: services.NewWebSocketHubService(hub),
		Progress: services.NewProgressRouterService(func() (services.ProgressRouter, error) {
			return progress.NewRouter(bus, hub, busLogger)
		}),
		HTTP: httpService,
	}
	// An in-memory store has no value log to collect.
	if store != nil && !cfg.Store.InMemory {
		svcs.StoreGC = services.NewStoreGCService(store, services.StoreGCConfig{}, logging.Logger())
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewServeTree(logging.NewSlogLogger("supervisor"), treeConfig, svcs)
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if d.ready != nil {
		go func() {
			select {
			case a := <-httpService.Bound():
				d.ready(a)
			case <-ctx.Done():
			}
		}()
	}

	logging.Info().Str("addr", listenAddr).Str("version", version).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	err = <-errCh
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Reelpick stopped gracefully")
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
