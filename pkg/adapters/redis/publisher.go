// Package redis publishes pose events over Redis PUB/SUB and keeps the latest
// event under a key so late subscribers can catch up.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/rover/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const (
	DefaultChannel = "rover:pose"
	DefaultPrefix  = "rover:"
)

// Publisher implements ports.PoseSink using Redis.
type Publisher struct {
	client  *backend.Client
	channel string
	prefix  string
	ttl     time.Duration
}

type Option func(*Publisher)

// WithChannel sets the PUB/SUB channel name.
func WithChannel(channel string) Option {
	return func(p *Publisher) {
		if channel != "" {
			p.channel = channel
		}
	}
}

// WithPrefix sets the key prefix for the latest-event key.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithTTL sets the expiration of the latest-event key.
func WithTTL(ttl time.Duration) Option {
	return func(p *Publisher) {
		p.ttl = ttl
	}
}

// New creates a Publisher with its own client.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		channel: DefaultChannel,
		prefix:  DefaultPrefix,
		ttl:     0, // No expiration by default
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Channel returns the PUB/SUB channel events are sent to.
func (p *Publisher) Channel() string {
	return p.channel
}

func (p *Publisher) latestKey() string {
	return p.prefix + "latest"
}

// Ping checks connectivity.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Publish implements ports.PoseSink.
func (p *Publisher) Publish(ctx context.Context, event domain.PoseEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal pose event: %w", err)
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, p.latestKey(), data, p.ttl)
	pipe.Publish(ctx, p.channel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error publishing pose event: %w", err)
	}
	return nil
}

// Latest returns the most recently published event. ok is false when none
// has been published (or it expired).
func (p *Publisher) Latest(ctx context.Context) (domain.PoseEvent, bool, error) {
	data, err := p.client.Get(ctx, p.latestKey()).Bytes()
	if err == backend.Nil {
		return domain.PoseEvent{}, false, nil
	}
	if err != nil {
		return domain.PoseEvent{}, false, fmt.Errorf("redis error reading latest pose: %w", err)
	}

	var event domain.PoseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return domain.PoseEvent{}, false, fmt.Errorf("failed to unmarshal pose event: %w", err)
	}
	return event, true, nil
}

// Subscribe streams events from the channel until ctx is cancelled.
// Messages that fail to decode are skipped.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan domain.PoseEvent, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	// Wait for confirmation so no event published after Subscribe returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis error subscribing to %s: %w", p.channel, err)
	}

	out := make(chan domain.PoseEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event domain.PoseEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
