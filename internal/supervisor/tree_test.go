// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/reelpick/reelpick/internal/progress"
	"github.com/reelpick/reelpick/internal/supervisor/services"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func mockServices() (ServeServices, map[string]*MockService) {
	mocks := map[string]*MockService{
		"store":    NewMockService("store-gc"),
		"hub":      NewMockService("hub"),
		"progress": NewMockService("progress"),
		"http":     NewMockService("http"),
	}
	return ServeServices{
		StoreGC:  mocks["store"],
		Hub:      mocks["hub"],
		Progress: mocks["progress"],
		HTTP:     mocks["http"],
	}, mocks
}

func TestNewServeTreeConfig(t *testing.T) {
	svcs, _ := mockServices()
	tree, err := NewServeTree(quietLogger(), TreeConfig{}, svcs)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor should not be nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("zero config should take defaults, got %+v", tree.config)
	}

	custom := TreeConfig{FailureThreshold: 2, FailureDecay: 1, FailureBackoff: time.Second, ShutdownTimeout: time.Second}
	tree, _ = NewServeTree(quietLogger(), custom, svcs)
	if tree.config != custom {
		t.Errorf("config = %+v, want %+v", tree.config, custom)
	}
}

func TestNewServeTreeRequiresServices(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServeServices)
		want   string
	}{
		{"no hub", func(s *ServeServices) { s.Hub = nil }, "websocket hub"},
		{"no progress router", func(s *ServeServices) { s.Progress = nil }, "progress router"},
		{"no http server", func(s *ServeServices) { s.HTTP = nil }, "http server"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcs, _ := mockServices()
			tt.mutate(&svcs)
			tree, err := NewServeTree(quietLogger(), TreeConfig{}, svcs)
			if !errors.Is(err, ErrMissingService) {
				t.Fatalf("err = %v, want ErrMissingService", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to name %q", err, tt.want)
			}
			if tree != nil {
				t.Error("tree should be nil on error")
			}
		})
	}
}

func TestNewServeTreeStoreLayerOptional(t *testing.T) {
	svcs, _ := mockServices()
	tree, _ := NewServeTree(quietLogger(), TreeConfig{}, svcs)
	if tree.store == nil {
		t.Error("store layer missing with StoreGC set")
	}

	svcs.StoreGC = nil
	tree, err := NewServeTree(quietLogger(), TreeConfig{}, svcs)
	if err != nil {
		t.Fatalf("StoreGC is optional: %v", err)
	}
	if tree.store != nil {
		t.Error("store layer built without StoreGC")
	}
	if tree.streams == nil || tree.http == nil {
		t.Error("stream and http layers are always built")
	}
}

func TestServeTreeStartsAllServices(t *testing.T) {
	svcs, mocks := mockServices()
	tree, _ := NewServeTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second}, svcs)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, "all services to start", func() bool {
		for _, m := range mocks {
			if m.StartCount() == 0 {
				return false
			}
		}
		return true
	})
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}
	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		t.Errorf("services missed the shutdown timeout: %v", report)
	}
}

func TestServeTreeProgressCrashSparesHTTP(t *testing.T) {
	svcs, mocks := mockServices()
	mocks["progress"].SetFailCount(2)

	tree, _ := NewServeTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	}, svcs)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	waitFor(t, "the progress router to recover", func() bool { return mocks["progress"].StartCount() >= 3 })
	if n := mocks["http"].StartCount(); n != 1 {
		t.Errorf("http service started %d times, want 1", n)
	}
	if n := mocks["store"].StartCount(); n != 1 {
		t.Errorf("store GC started %d times, want 1", n)
	}
}

type recordingSink struct {
	mu       sync.Mutex
	searches []string
}

func (s *recordingSink) Deliver(searchID string, _ []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, searchID)
}

func (s *recordingSink) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.searches...)
}

func TestSupervisedProgressRouter(t *testing.T) {
	bus := progress.NewBus(progress.DefaultConfig(), watermill.NopLogger{})
	defer bus.Close()
	sink := &recordingSink{}

	routers := make(chan *progress.Router, 1)
	svc := services.NewProgressRouterService(func() (services.ProgressRouter, error) {
		r, err := progress.NewRouter(bus, sink, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}
		routers <- r
		return r, nil
	})

	tree, err := NewServeTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second}, ServeServices{
		Hub:      NewMockService("hub"),
		Progress: svc,
		HTTP:     NewMockService("http"),
	})
	if err != nil {
		t.Fatalf("NewServeTree: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	select {
	case r := <-routers:
		<-r.Running()
	case <-time.After(2 * time.Second):
		t.Fatal("router was not started")
	}

	bus.Finish(context.Background(), "search-1", nil)
	waitFor(t, "the terminal event", func() bool { return len(sink.delivered()) == 1 })
	if got := sink.delivered()[0]; got != "search-1" {
		t.Errorf("delivered search %q, want search-1", got)
	}
}
