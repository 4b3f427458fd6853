package domain

import (
	"encoding/json"
	"fmt"
)

// Position is a point on the unbounded grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pose is the comparable snapshot of a robot: where it is and where it faces.
// Every robot implementation reports its state as a Pose so results can be
// compared across implementations.
type Pose struct {
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Facing Direction `json:"facing"`
}

// Origin is the pose a freshly reset robot takes.
var Origin = Pose{X: 0, Y: 0, Facing: North}

// NewPose builds a pose.
func NewPose(x, y int, facing Direction) Pose {
	return Pose{X: x, Y: y, Facing: facing}
}

// Position returns the coordinates of the pose.
func (p Pose) Position() Position {
	return Position{X: p.X, Y: p.Y}
}

func (p Pose) String() string {
	return fmt.Sprintf("(%d, %d) facing %s", p.X, p.Y, p.Facing)
}

// UnmarshalJSON requires both coordinates to be present.
func (p *Position) UnmarshalJSON(data []byte) error {
	var wire struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.X == nil:
		return fmt.Errorf("%w: x", ErrMissingField)
	case wire.Y == nil:
		return fmt.Errorf("%w: y", ErrMissingField)
	}
	*p = Position{X: *wire.X, Y: *wire.Y}
	return nil
}

// UnmarshalJSON requires x, y and facing to be present.
func (p *Pose) UnmarshalJSON(data []byte) error {
	var wire struct {
		X      *int       `json:"x"`
		Y      *int       `json:"y"`
		Facing *Direction `json:"facing"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.X == nil:
		return fmt.Errorf("%w: x", ErrMissingField)
	case wire.Y == nil:
		return fmt.Errorf("%w: y", ErrMissingField)
	case wire.Facing == nil:
		return fmt.Errorf("%w: facing", ErrMissingField)
	}
	*p = NewPose(*wire.X, *wire.Y, *wire.Facing)
	return nil
}
