// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reelpick/reelpick/internal/metrics"
	"github.com/reelpick/reelpick/internal/recommend/genetic"
)

// Config configures a Bus.
type Config struct {
	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64 `koanf:"buffer_size"`

	// Breaker guards publishing.
	Breaker BreakerConfig `koanf:"breaker"`
}

// DefaultConfig returns the defaults used by the server.
func DefaultConfig() Config {
	return Config{
		BufferSize: 256,
		Breaker:    DefaultBreakerConfig(),
	}
}

// Bus is the in-process progress pub/sub.
type Bus struct {
	pubsub    *gochannel.GoChannel
	publisher *Publisher
	logger    watermill.LoggerAdapter
}

// NewBus creates a Bus. Publishing blocks until every subscriber has acked,
// which keeps one search's events in order.
func NewBus(cfg Config, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            cfg.BufferSize,
		BlockPublishUntilSubscriberAck: true,
	}, logger)

	return &Bus{
		pubsub:    pubsub,
		publisher: NewPublisher(pubsub, NewCircuitBreaker(cfg.Breaker, logger)),
		logger:    logger,
	}
}

// Publish encodes ev and publishes it on Topic.
func (b *Bus) Publish(ctx context.Context, ev *Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	data, err := ev.Encode()
	if err != nil {
		return err
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set(MetadataSearchID, ev.SearchID)
	msg.Metadata.Set("type", string(ev.Type))

	if err := b.publisher.Publish(ctx, Topic, msg); err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordProgressEvent("rejected")
		} else {
			metrics.RecordProgressEvent("failed")
		}
		return fmt.Errorf("publish progress: %w", err)
	}
	metrics.RecordProgressEvent("published")
	return nil
}

// Observer returns a genetic.Observer that publishes every generation of
// searchID. Publish failures are logged and otherwise ignored.
func (b *Bus) Observer(searchID string) genetic.Observer {
	return func(st genetic.GenerationStats) {
		stats := st
		err := b.Publish(context.Background(), &Event{
			SearchID: searchID,
			Type:     EventGeneration,
			Stats:    &stats,
		})
		if err != nil {
			b.logger.Debug("progress event dropped", watermill.LogFields{
				"search_id":  searchID,
				"generation": st.Generation,
				"error":      err.Error(),
			})
		}
	}
}

// Finish publishes the terminal event of searchID. A nil err reports success.
func (b *Bus) Finish(ctx context.Context, searchID string, err error) {
	ev := &Event{SearchID: searchID, Type: EventFinished}
	if err != nil {
		ev.Type = EventFailed
		ev.Error = err.Error()
	}
	if pubErr := b.Publish(ctx, ev); pubErr != nil {
		b.logger.Error("terminal progress event dropped", pubErr, watermill.LogFields{"search_id": searchID})
	}
}

// Subscriber exposes the bus for routers.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Subscribe returns a channel of raw progress messages. Each must be acked.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, Topic)
}

// BreakerState reports the publish breaker state.
func (b *Bus) BreakerState() string {
	return b.publisher.State()
}

// Close shuts the bus down. Subscriber channels are closed.
func (b *Bus) Close() error {
	return b.publisher.Close()
}
