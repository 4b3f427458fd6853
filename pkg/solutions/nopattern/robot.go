// Package nopattern implements the robot with a plain direction enum mutated in place.
package nopattern

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
)

// Name is the registry key of this implementation.
const Name = "no_pattern"

// Robot holds its position and facing as plain fields.
type Robot struct {
	X      int              `json:"x"`
	Y      int              `json:"y"`
	Facing domain.Direction `json:"facing"`
}

var _ ports.Robot = (*Robot)(nil)

// New creates a robot at (x, y) facing the given direction.
func New(x, y int, facing domain.Direction) *Robot {
	return &Robot{X: x, Y: y, Facing: facing}
}

// Execute dispatches one instruction rune. Unknown runes are ignored.
func (r *Robot) Execute(instruction rune) {
	switch domain.Instruction(instruction) {
	case domain.TurnLeft:
		r.TurnLeft()
	case domain.TurnRight:
		r.TurnRight()
	case domain.Advance:
		r.Advance()
	}
}

func (r *Robot) TurnLeft() {
	switch r.Facing {
	case domain.North:
		r.Facing = domain.West
	case domain.East:
		r.Facing = domain.North
	case domain.South:
		r.Facing = domain.East
	case domain.West:
		r.Facing = domain.South
	}
}

func (r *Robot) TurnRight() {
	switch r.Facing {
	case domain.North:
		r.Facing = domain.East
	case domain.East:
		r.Facing = domain.South
	case domain.South:
		r.Facing = domain.West
	case domain.West:
		r.Facing = domain.North
	}
}

func (r *Robot) Advance() {
	switch r.Facing {
	case domain.North:
		r.Y++
	case domain.East:
		r.X++
	case domain.South:
		r.Y--
	case domain.West:
		r.X--
	}
}

func (r *Robot) Pose() domain.Pose {
	return domain.NewPose(r.X, r.Y, r.Facing)
}

// Pattern is the ports.Pattern for this implementation.
type Pattern struct{}

func (Pattern) Name() string { return Name }

func (Pattern) Description() string {
	return "direct mutation over a plain direction enum"
}

func (Pattern) Shape() ports.StateShape { return ports.ShapeFlat }

func (Pattern) New(pose domain.Pose) ports.Robot {
	if !pose.Facing.IsValid() {
		panic(fmt.Sprintf("nopattern: invalid direction %d", int(pose.Facing)))
	}
	return New(pose.X, pose.Y, pose.Facing)
}

func (Pattern) Decode(data []byte) (ports.Robot, error) {
	var p domain.Pose
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode %s robot: %w", Name, err)
	}
	return New(p.X, p.Y, p.Facing), nil
}
