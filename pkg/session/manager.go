package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/rover/internal/logging"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/interpreter"
	"github.com/aretw0/rover/pkg/ports"
)

// Manager guards the one robot the process owns.
type Manager struct {
	pattern ports.Pattern
	origin  domain.Pose
	undo    bool

	mu       sync.Mutex // Guards robot and revision
	robot    ports.Robot
	revision uint64

	sinks []ports.PoseSink

	pubMu    sync.Mutex // Guards pending and draining
	pending  []queued
	draining bool

	logger *slog.Logger
}

// queued is an event waiting for delivery, with the context of the request
// that produced it.
type queued struct {
	ctx   context.Context
	event domain.PoseEvent
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithOrigin sets the pose used at startup and by Reset (default: 0, 0 facing North).
func WithOrigin(pose domain.Pose) Option {
	return func(m *Manager) {
		m.origin = pose
	}
}

// WithSink registers sinks notified after every state change. Events reach
// the sinks one at a time, in revision order.
func WithSink(sinks ...ports.PoseSink) Option {
	return func(m *Manager) {
		m.sinks = append(m.sinks, sinks...)
	}
}

// NewManager creates a Manager whose robot is built by pattern at the origin.
func NewManager(pattern ports.Pattern, opts ...Option) *Manager {
	m := &Manager{
		pattern: pattern,
		origin:  domain.Origin,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	m.robot = pattern.New(m.origin)
	_, m.undo = m.robot.(ports.Undoer)
	return m
}

// Pattern returns the active implementation.
func (m *Manager) Pattern() ports.Pattern {
	return m.pattern
}

// Origin returns the reset pose.
func (m *Manager) Origin() domain.Pose {
	return m.origin
}

// SupportsUndo reports whether the active implementation keeps an undo history.
func (m *Manager) SupportsUndo() bool {
	return m.undo
}

// Move applies an instruction string to the robot.
func (m *Manager) Move(ctx context.Context, instructions string) (domain.Snapshot, error) {
	return m.mutate(ctx, domain.OpMove, func(r ports.Robot) (ports.Robot, *domain.Report, error) {
		report := interpreter.Run(r, instructions)
		return nil, &report, nil
	})
}

// Reposition replaces the robot wholesale with one decoded from its JSON state.
// Decoding happens before the lock is taken. Errors wrap domain.ErrInvalidState.
func (m *Manager) Reposition(ctx context.Context, state []byte) (domain.Snapshot, error) {
	robot, err := m.pattern.Decode(state)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %w", domain.ErrInvalidState, err)
	}
	return m.Replace(ctx, robot)
}

// Replace swaps in an already built robot.
func (m *Manager) Replace(ctx context.Context, robot ports.Robot) (domain.Snapshot, error) {
	return m.mutate(ctx, domain.OpReposition, func(ports.Robot) (ports.Robot, *domain.Report, error) {
		return robot, nil, nil
	})
}

// Reset puts a fresh robot at the origin, dropping any history.
func (m *Manager) Reset(ctx context.Context) (domain.Snapshot, error) {
	return m.mutate(ctx, domain.OpReset, func(ports.Robot) (ports.Robot, *domain.Report, error) {
		return m.pattern.New(m.origin), nil, nil
	})
}

// Undo reverts the last command. The boolean is false when the history was empty.
// Returns domain.ErrUndoUnsupported for implementations without history.
func (m *Manager) Undo(ctx context.Context) (domain.Snapshot, bool, error) {
	var undone bool
	snap, err := m.mutate(ctx, domain.OpUndo, func(r ports.Robot) (ports.Robot, *domain.Report, error) {
		u, ok := r.(ports.Undoer)
		if !ok {
			return nil, nil, domain.ErrUndoUnsupported
		}
		undone = u.UndoLast()
		return nil, nil, nil
	})
	return snap, undone, err
}

// History returns the recorded operations of an undo-capable robot.
func (m *Manager) History(ctx context.Context) ([]string, error) {
	var history []string
	err := m.WithLock(ctx, func(r ports.Robot) error {
		u, ok := r.(ports.Undoer)
		if !ok {
			return domain.ErrUndoUnsupported
		}
		history = u.History()
		return nil
	})
	return history, err
}

// Position returns the current state without changing it.
func (m *Manager) Position(ctx context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// WithLock executes fn while holding the robot lock. fn must not block and
// must not retain r after returning.
func (m *Manager) WithLock(ctx context.Context, fn func(r ports.Robot) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.robot)
}

type mutation func(current ports.Robot) (next ports.Robot, report *domain.Report, err error)

func (m *Manager) mutate(ctx context.Context, op domain.Operation, fn mutation) (domain.Snapshot, error) {
	snap, err := m.locked(ctx, op, fn)
	if err != nil {
		return domain.Snapshot{}, err
	}
	m.flush()
	return snap, nil
}

func (m *Manager) locked(ctx context.Context, op domain.Operation, fn mutation) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, report, err := fn(m.robot)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if next != nil {
		m.robot = next
	}
	m.revision++

	snap, err := m.snapshot()
	if err != nil {
		return domain.Snapshot{}, err
	}

	// Queued while the robot is locked, so the queue is in revision order.
	m.enqueue(ctx, domain.PoseEvent{
		Timestamp: time.Now(),
		Revision:  snap.Revision,
		Pattern:   m.pattern.Name(),
		Operation: op,
		Pose:      snap.Pose,
		Report:    report,
	})
	return snap, nil
}

// snapshot must be called with m.mu held.
func (m *Manager) snapshot() (domain.Snapshot, error) {
	state, err := json.Marshal(m.robot)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to encode robot state: %w", err)
	}
	return domain.Snapshot{
		Revision: m.revision,
		Pose:     m.robot.Pose(),
		State:    state,
	}, nil
}

func (m *Manager) enqueue(ctx context.Context, event domain.PoseEvent) {
	if len(m.sinks) == 0 {
		return
	}
	m.pubMu.Lock()
	defer m.pubMu.Unlock()
	// Delivery may outlive the request that produced the event.
	m.pending = append(m.pending, queued{ctx: context.WithoutCancel(ctx), event: event})
}

// flush delivers pending events in revision order. Only one caller drains at
// a time; the others return at once and their events go out with the batch
// of the caller already draining. No robot lock is held here.
func (m *Manager) flush() {
	for {
		m.pubMu.Lock()
		if m.draining || len(m.pending) == 0 {
			m.pubMu.Unlock()
			return
		}
		m.draining = true
		batch := m.pending
		m.pending = nil
		m.pubMu.Unlock()

		for _, q := range batch {
			m.publish(q.ctx, q.event)
		}

		m.pubMu.Lock()
		m.draining = false
		m.pubMu.Unlock()
	}
}

func (m *Manager) publish(ctx context.Context, event domain.PoseEvent) {
	for _, sink := range m.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			m.logger.Warn("Failed to publish pose event",
				"revision", event.Revision,
				"operation", event.Operation,
				"err", err,
			)
		}
	}
}
