// Package memory fans pose events out to in-process subscribers.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/rover/internal/logging"
	"github.com/aretw0/rover/pkg/domain"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Broadcaster implements ports.PoseSink by delivering every event to all
// current subscribers. Slow subscribers lose events instead of blocking the
// publisher. Safe for concurrent use.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan domain.PoseEvent]struct{}
	buffer      int
	logger      *slog.Logger
}

// Option configures the Broadcaster.
type Option func(*Broadcaster)

// WithBuffer sets the channel capacity handed to each subscriber.
func WithBuffer(n int) Option {
	return func(b *Broadcaster) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithLogger configures a logger for dropped events.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broadcaster) {
		b.logger = logger
	}
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster(opts ...Option) *Broadcaster {
	b := &Broadcaster{
		subscribers: make(map[chan domain.PoseEvent]struct{}),
		buffer:      DefaultBuffer,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new listener. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (b *Broadcaster) Subscribe() (<-chan domain.PoseEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.PoseEvent, b.buffer)
	b.subscribers[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of active listeners.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish implements ports.PoseSink. It never blocks and never fails.
func (b *Broadcaster) Publish(ctx context.Context, event domain.PoseEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Drop message if channel is full (slow client)
			b.logger.Warn("Subscriber buffer full, dropping pose event", "revision", event.Revision)
		}
	}
	return nil
}
