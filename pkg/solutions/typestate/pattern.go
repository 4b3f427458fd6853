package typestate

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
)

// Name is the registry key of this implementation.
const Name = "type_state"

// Pattern is the ports.Pattern for this implementation.
type Pattern struct{}

func (Pattern) Name() string { return Name }

func (Pattern) Description() string {
	return "facing encoded in the robot's type, wrapped in a closed tagged union at runtime"
}

func (Pattern) Shape() ports.StateShape { return ports.ShapeTagged }

func (Pattern) New(pose domain.Pose) ports.Robot {
	return NewFacing(pose.X, pose.Y, pose.Facing)
}

func (Pattern) Decode(data []byte) (ports.Robot, error) {
	var w RobotWithFace
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode %s robot: %w", Name, err)
	}
	return &w, nil
}
