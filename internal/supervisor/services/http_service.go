// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer matches the *http.Server methods the service drives.
type HTTPServer interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// DrainFunc blocks until background work started by requests has finished
// or ctx expires. api.Handler.WaitIdle satisfies it.
type DrainFunc func(ctx context.Context) error

// HTTPServerService wraps an HTTP server as a supervised service.
//
// Each Serve call binds a fresh listener, so a restart after a crash
// rebinds the address. On shutdown the server stops accepting requests
// first, then the optional drain waits for running searches, all within
// one shutdown timeout.
//
//	server := &http.Server{Handler: router}
//	svc := services.NewHTTPServerService(server, ":8080", 10*time.Second, logger)
//	svc.SetDrain(handler.WaitIdle)
//	tree, err := supervisor.NewServeTree(logger, cfg, supervisor.ServeServices{HTTP: svc, ...})
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	listen          func(network, addr string) (net.Listener, error)
	drain           DrainFunc
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	name            string
	bound           chan net.Addr
}

// NewHTTPServerService creates a new HTTP server service wrapper.
// A non-positive shutdownTimeout defaults to 10 seconds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		addr:            addr,
		listen:          net.Listen,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("service", "http").Logger(),
		name:            "http-server",
		bound:           make(chan net.Addr, 1),
	}
}

// SetDrain installs the post-shutdown drain. Call before Serve.
func (h *HTTPServerService) SetDrain(drain DrainFunc) {
	h.drain = drain
}

// Bound receives the listener address each time the server binds.
// Useful when addr uses port 0.
func (h *HTTPServerService) Bound() <-chan net.Addr {
	return h.bound
}

// Serve implements suture.Service.
//
// Returns ctx.Err() after a graceful shutdown, or an error if binding or
// serving fails. http.ErrServerClosed is expected on shutdown and dropped.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	ln, err := h.listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("http listen on %s: %w", h.addr, err)
	}
	h.logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	select {
	case h.bound <- ln.Addr():
	default:
	}

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// The parent context is already canceled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh

		if h.drain != nil {
			if err := h.drain(shutdownCtx); err != nil {
				h.logger.Warn().Err(err).Msg("searches still running at shutdown")
			}
		}
		h.logger.Info().Msg("http server stopped")
		return ctx.Err()
	}
}

// String implements fmt.Stringer for suture's log messages.
func (h *HTTPServerService) String() string {
	return h.name
}
