// Package state implements the robot with its facing modeled as a polymorphic state value.
package state

import "github.com/aretw0/rover/pkg/domain"

// Direction is one facing state. Each state knows which state follows a turn
// and how it displaces the robot on advance.
type Direction interface {
	TurnRight() Direction
	TurnLeft() Direction
	Advance(x, y int) (int, int)
	Name() domain.Direction
}

type north struct{}
type east struct{}
type south struct{}
type west struct{}

// The four states are stateless singletons shared by every robot.
var (
	North Direction = north{}
	East  Direction = east{}
	South Direction = south{}
	West  Direction = west{}
)

func (north) TurnRight() Direction        { return East }
func (north) TurnLeft() Direction         { return West }
func (north) Advance(x, y int) (int, int) { return x, y + 1 }
func (north) Name() domain.Direction      { return domain.North }

func (east) TurnRight() Direction        { return South }
func (east) TurnLeft() Direction         { return North }
func (east) Advance(x, y int) (int, int) { return x + 1, y }
func (east) Name() domain.Direction      { return domain.East }

func (south) TurnRight() Direction        { return West }
func (south) TurnLeft() Direction         { return East }
func (south) Advance(x, y int) (int, int) { return x, y - 1 }
func (south) Name() domain.Direction      { return domain.South }

func (west) TurnRight() Direction        { return North }
func (west) TurnLeft() Direction         { return South }
func (west) Advance(x, y int) (int, int) { return x - 1, y }
func (west) Name() domain.Direction      { return domain.West }

// For returns the state for a boundary direction.
func For(d domain.Direction) (Direction, bool) {
	switch d {
	case domain.North:
		return North, true
	case domain.East:
		return East, true
	case domain.South:
		return South, true
	case domain.West:
		return West, true
	default:
		return nil, false
	}
}
