// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reelpick/reelpick/internal/recommend/genetic"
)

type delivery struct {
	searchID string
	payload  []byte
}

type chanSink chan delivery

func (s chanSink) Deliver(searchID string, payload []byte) {
	s <- delivery{searchID: searchID, payload: payload}
}

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(string, ...*message.Message) error {
	p.calls++
	return errors.New("downstream unavailable")
}

func (p *failingPublisher) Close() error { return nil }

func TestEventCodec(t *testing.T) {
	ev := &Event{SearchID: "s1", Type: EventGeneration, Stats: &genetic.GenerationStats{Generation: 3, Best: 1.5}}
	data, err := ev.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.SearchID != "s1" || got.Stats == nil || got.Stats.Generation != 3 || got.Stats.Best != 1.5 {
		t.Errorf("decoded %+v", got)
	}

	if _, err := DecodeEvent([]byte(`{"type":"finished"}`)); err == nil {
		t.Error("expected error for missing search_id")
	}
	if _, err := DecodeEvent([]byte(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestBusRoutesToSink(t *testing.T) {
	bus := NewBus(DefaultConfig(), watermill.NopLogger{})
	defer bus.Close()

	sink := make(chanSink, 8)
	router, err := NewRouter(bus, sink, watermill.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	observe := bus.Observer("search-42")
	observe(genetic.GenerationStats{Generation: 0, Best: 4})
	observe(genetic.GenerationStats{Generation: 1, Best: 3})
	bus.Finish(context.Background(), "search-42", nil)

	want := []EventType{EventGeneration, EventGeneration, EventFinished}
	for i, typ := range want {
		select {
		case d := <-sink:
			if d.searchID != "search-42" {
				t.Errorf("event %d routed to %q", i, d.searchID)
			}
			ev, err := DecodeEvent(d.payload)
			if err != nil {
				t.Fatalf("event %d: %v", i, err)
			}
			if ev.Type != typ {
				t.Errorf("event %d type = %s, want %s", i, ev.Type, typ)
			}
			if typ == EventGeneration && ev.Stats.Generation != i {
				t.Errorf("event %d generation = %d", i, ev.Stats.Generation)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestBusWithoutSubscribers(t *testing.T) {
	bus := NewBus(DefaultConfig(), nil)
	defer bus.Close()

	if err := bus.Publish(context.Background(), &Event{SearchID: "s", Type: EventFinished}); err != nil {
		t.Errorf("Publish with no subscribers: %v", err)
	}
	if got := bus.BreakerState(); got != "closed" {
		t.Errorf("breaker state = %q, want closed", got)
	}
}

func TestFailureFinishEvent(t *testing.T) {
	bus := NewBus(DefaultConfig(), nil)
	defer bus.Close()

	msgs, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	go bus.Finish(context.Background(), "s9", errors.New("evaluator failed"))

	select {
	case msg := <-msgs:
		msg.Ack()
		ev, err := DecodeEvent(msg.Payload)
		if err != nil {
			t.Fatal(err)
		}
		if ev.Type != EventFailed || ev.Error != "evaluator failed" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}
}

func TestPublisherBreakerOpens(t *testing.T) {
	cfg := DefaultBreakerConfig()
	cfg.Name = "test-progress"
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Minute

	inner := &failingPublisher{}
	pub := NewPublisher(inner, NewCircuitBreaker(cfg, watermill.NopLogger{}))

	for i := 0; i < 2; i++ {
		if err := pub.Publish(context.Background(), Topic, message.NewMessage("m", nil)); err == nil {
			t.Fatalf("publish %d succeeded", i)
		}
	}
	err := pub.Publish(context.Background(), Topic, message.NewMessage("m", nil))
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner publisher called %d times, want 2", inner.calls)
	}
	if pub.State() != "open" {
		t.Errorf("state = %q, want open", pub.State())
	}
}

func TestPublisherClosed(t *testing.T) {
	pub := NewPublisher(&failingPublisher{}, nil)
	if pub.State() != "disabled" {
		t.Errorf("state = %q", pub.State())
	}
	if err := pub.Close(); err != nil {
		t.Fatal(err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := pub.Publish(context.Background(), Topic); !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("err = %v, want ErrPublisherClosed", err)
	}
}
