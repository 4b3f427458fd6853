// Package typestate implements the robot with its facing encoded in the robot's type.
//
// A NorthRobot can only turn into a WestRobot or an EastRobot; there is no way to
// express a turn that is undefined for some direction. RobotWithFace wraps the four
// typed robots for the places that need one runtime type: JSON and the shared
// session state.
package typestate

import "github.com/aretw0/rover/pkg/domain"

// Marker types. They carry no data; they only tag a Robot with its facing.
type (
	North struct{}
	East  struct{}
	South struct{}
	West  struct{}
)

func (North) Direction() domain.Direction { return domain.North }
func (East) Direction() domain.Direction  { return domain.East }
func (South) Direction() domain.Direction { return domain.South }
func (West) Direction() domain.Direction  { return domain.West }

// Face is the closed set of marker types.
type Face interface {
	North | East | South | West
	Direction() domain.Direction
}

// Robot is a robot facing F.
type Robot[F Face] struct {
	Position domain.Position `json:"position"`
}

// Place puts a robot facing F at (x, y).
func Place[F Face](x, y int) Robot[F] {
	return Robot[F]{Position: domain.Position{X: x, Y: y}}
}

// Facing reports the direction encoded by F.
func (r Robot[F]) Facing() domain.Direction {
	var f F
	return f.Direction()
}

func (r Robot[F]) pose() domain.Pose {
	return domain.NewPose(r.Position.X, r.Position.Y, r.Facing())
}

// retag moves the position of r onto a robot facing T.
func retag[T Face, F Face](r Robot[F]) Robot[T] {
	return Robot[T]{Position: r.Position}
}

// The direction-specific robots. Each defines exactly the transitions valid
// for its facing and returns the robot type of the resulting facing.
type (
	NorthRobot struct{ Robot[North] }
	EastRobot  struct{ Robot[East] }
	SouthRobot struct{ Robot[South] }
	WestRobot  struct{ Robot[West] }
)

func NewNorthRobot(x, y int) NorthRobot { return NorthRobot{Place[North](x, y)} }
func NewEastRobot(x, y int) EastRobot   { return EastRobot{Place[East](x, y)} }
func NewSouthRobot(x, y int) SouthRobot { return SouthRobot{Place[South](x, y)} }
func NewWestRobot(x, y int) WestRobot   { return WestRobot{Place[West](x, y)} }

func (r NorthRobot) TurnLeft() WestRobot  { return WestRobot{retag[West](r.Robot)} }
func (r NorthRobot) TurnRight() EastRobot { return EastRobot{retag[East](r.Robot)} }
func (r NorthRobot) Advance() NorthRobot {
	r.Position.Y++
	return r
}

func (r EastRobot) TurnLeft() NorthRobot  { return NorthRobot{retag[North](r.Robot)} }
func (r EastRobot) TurnRight() SouthRobot { return SouthRobot{retag[South](r.Robot)} }
func (r EastRobot) Advance() EastRobot {
	r.Position.X++
	return r
}

func (r SouthRobot) TurnLeft() EastRobot  { return EastRobot{retag[East](r.Robot)} }
func (r SouthRobot) TurnRight() WestRobot { return WestRobot{retag[West](r.Robot)} }
func (r SouthRobot) Advance() SouthRobot {
	r.Position.Y--
	return r
}

func (r WestRobot) TurnLeft() SouthRobot  { return SouthRobot{retag[South](r.Robot)} }
func (r WestRobot) TurnRight() NorthRobot { return NorthRobot{retag[North](r.Robot)} }
func (r WestRobot) Advance() WestRobot {
	r.Position.X--
	return r
}
