package command

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
)

// Name is the registry key of this implementation.
const Name = "command"

// Pattern is the ports.Pattern for this implementation. Logger, when set, is
// handed to every controller it builds.
type Pattern struct {
	Logger *slog.Logger
}

func (Pattern) Name() string { return Name }

func (Pattern) Description() string {
	return "undoable command objects replayed by an invoker with history"
}

func (Pattern) Shape() ports.StateShape { return ports.ShapeFlat }

func (p Pattern) New(pose domain.Pose) ports.Robot {
	if !pose.Facing.IsValid() {
		panic(fmt.Sprintf("command: invalid direction %d", int(pose.Facing)))
	}
	return NewController(pose.X, pose.Y, pose.Facing, p.options()...)
}

func (p Pattern) Decode(data []byte) (ports.Robot, error) {
	var pose domain.Pose
	if err := json.Unmarshal(data, &pose); err != nil {
		return nil, fmt.Errorf("decode %s robot: %w", Name, err)
	}
	return NewController(pose.X, pose.Y, pose.Facing, p.options()...), nil
}

func (p Pattern) options() []Option {
	if p.Logger == nil {
		return nil
	}
	return []Option{WithLogger(p.Logger)}
}
