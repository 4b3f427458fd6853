package ports

import (
	"context"

	"github.com/aretw0/rover/pkg/domain"
)

// PoseSink receives pose events after the shared robot has been unlocked.
// Events arrive one at a time in revision order, so a slow sink delays the
// delivery of later events. Implementations
// must not expect the event's revision to still be the latest one.
type PoseSink interface {
	Publish(ctx context.Context, event domain.PoseEvent) error
}

// PoseSinkFunc adapts a function to PoseSink.
type PoseSinkFunc func(ctx context.Context, event domain.PoseEvent) error

// Publish calls f.
func (f PoseSinkFunc) Publish(ctx context.Context, event domain.PoseEvent) error {
	return f(ctx, event)
}
