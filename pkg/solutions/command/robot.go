// Package command implements the robot as a receiver driven by undoable command objects.
package command

import (
	"github.com/aretw0/rover/pkg/domain"
)

// Robot is the receiver the commands act on.
type Robot struct {
	X      int              `json:"x"`
	Y      int              `json:"y"`
	Facing domain.Direction `json:"facing"`
}

func (r *Robot) turnLeft() {
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

func (r *Robot) turnRight() {
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

func (r *Robot) advance() {
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

func (r *Robot) pose() domain.Pose {
	return domain.NewPose(r.X, r.Y, r.Facing)
}
