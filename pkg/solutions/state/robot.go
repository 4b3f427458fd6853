package state

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
)

// Name is the registry key of this implementation.
const Name = "state"

// Robot holds its position and a reference to its current facing state.
type Robot struct {
	X      int
	Y      int
	Facing Direction
}

var _ ports.Robot = (*Robot)(nil)

// New creates a robot at (x, y) in the given facing state.
func New(x, y int, facing Direction) *Robot {
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

func (r *Robot) TurnRight() {
	r.Facing = r.Facing.TurnRight()
}

func (r *Robot) TurnLeft() {
	r.Facing = r.Facing.TurnLeft()
}

func (r *Robot) Advance() {
	r.X, r.Y = r.Facing.Advance(r.X, r.Y)
}

func (r *Robot) Pose() domain.Pose {
	return domain.NewPose(r.X, r.Y, r.Facing.Name())
}

func (r *Robot) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Pose())
}

func (r *Robot) UnmarshalJSON(data []byte) error {
	var p domain.Pose
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	facing, ok := For(p.Facing)
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrUnknownDirection, int(p.Facing))
	}
	r.X, r.Y, r.Facing = p.X, p.Y, facing
	return nil
}

// Pattern is the ports.Pattern for this implementation.
type Pattern struct{}

func (Pattern) Name() string { return Name }

func (Pattern) Description() string {
	return "facing as a polymorphic state value returning the next state on each turn"
}

func (Pattern) Shape() ports.StateShape { return ports.ShapeFlat }

func (Pattern) New(pose domain.Pose) ports.Robot {
	facing, ok := For(pose.Facing)
	if !ok {
		panic(fmt.Sprintf("state: invalid direction %d", int(pose.Facing)))
	}
	return New(pose.X, pose.Y, facing)
}

func (Pattern) Decode(data []byte) (ports.Robot, error) {
	var r Robot
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode %s robot: %w", Name, err)
	}
	return &r, nil
}
