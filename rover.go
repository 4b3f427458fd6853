package rover

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/rover/internal/logging"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
	"github.com/aretw0/rover/pkg/registry"
	"github.com/aretw0/rover/pkg/session"
	"github.com/aretw0/rover/pkg/solutions/command"
	"github.com/aretw0/rover/pkg/solutions/nopattern"
	"github.com/aretw0/rover/pkg/solutions/state"
	"github.com/aretw0/rover/pkg/solutions/typestate"
)

// Version is the build version, set with -ldflags "-X github.com/aretw0/rover.Version=...".
var Version = "0.1.0-dev"

// DefaultPattern is used when no pattern is configured.
const DefaultPattern = nopattern.Name

// DefaultRegistry returns a registry holding every implementation.
// logger receives the command implementation's warnings.
func DefaultRegistry(logger *slog.Logger) *registry.Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return registry.NewRegistry(
		nopattern.Pattern{},
		command.Pattern{Logger: logger},
		state.Pattern{},
		typestate.Pattern{},
	)
}

type options struct {
	logger   *slog.Logger
	registry *registry.Registry
	origin   domain.Pose
	session  []session.Option
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger shared by the manager and the implementations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry replaces DefaultRegistry.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithOrigin sets the start and reset pose.
func WithOrigin(pose domain.Pose) Option {
	return func(o *options) {
		o.origin = pose
		o.session = append(o.session, session.WithOrigin(pose))
	}
}

// WithSink registers pose event sinks.
func WithSink(sinks ...ports.PoseSink) Option {
	return func(o *options) {
		o.session = append(o.session, session.WithSink(sinks...))
	}
}

// New builds the shared robot for the named implementation.
// Unknown names return an error wrapping domain.ErrUnknownPattern and an
// origin facing no cardinal direction one wrapping domain.ErrUnknownDirection.
func New(pattern string, opts ...Option) (*session.Manager, error) {
	o := &options{logger: logging.NewNop(), origin: domain.Origin}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry(o.logger)
	}

	p, err := o.registry.Lookup(pattern)
	if err != nil {
		return nil, err
	}
	if !o.origin.Facing.IsValid() {
		return nil, fmt.Errorf("origin: %w: %d", domain.ErrUnknownDirection, int(o.origin.Facing))
	}
	o.logger.Debug("Robot pattern selected", "pattern", p.Name())

	sessionOpts := append([]session.Option{session.WithLogger(o.logger)}, o.session...)
	return session.NewManager(p, sessionOpts...), nil
}
