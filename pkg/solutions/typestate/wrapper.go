package typestate

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
)

// faced is satisfied by the four direction-typed robots.
type faced interface {
	Facing() domain.Direction
	pose() domain.Pose
}

// Typed is the set of direction-typed robots RobotWithFace can hold.
type Typed interface {
	NorthRobot | EastRobot | SouthRobot | WestRobot
}

// RobotWithFace is a closed tagged union over NorthRobot, EastRobot, SouthRobot
// and WestRobot. Its operations unwrap the typed robot, apply the typed
// transition and wrap the result under its new tag. The zero value is a
// NorthRobot at the origin.
type RobotWithFace struct {
	robot faced
}

var _ ports.Robot = (*RobotWithFace)(nil)

// Wrap puts a typed robot behind the runtime wrapper.
func Wrap[R Typed](r R) *RobotWithFace {
	return &RobotWithFace{robot: any(r).(faced)}
}

// New builds a wrapped robot from a direction name such as "North".
func New(x, y int, facing string) (*RobotWithFace, error) {
	d, err := domain.ParseDirection(facing)
	if err != nil {
		return nil, err
	}
	return NewFacing(x, y, d), nil
}

// MustNew is like New but panics on an unknown direction name.
func MustNew(x, y int, facing string) *RobotWithFace {
	w, err := New(x, y, facing)
	if err != nil {
		panic(err)
	}
	return w
}

// NewFacing builds a wrapped robot for a boundary direction value.
func NewFacing(x, y int, d domain.Direction) *RobotWithFace {
	switch d {
	case domain.North:
		return Wrap(NewNorthRobot(x, y))
	case domain.East:
		return Wrap(NewEastRobot(x, y))
	case domain.South:
		return Wrap(NewSouthRobot(x, y))
	case domain.West:
		return Wrap(NewWestRobot(x, y))
	default:
		panic(fmt.Sprintf("typestate: invalid direction %d", int(d)))
	}
}

func (w *RobotWithFace) current() faced {
	if w.robot == nil {
		return NorthRobot{}
	}
	return w.robot
}

func (w *RobotWithFace) TurnLeft() {
	switch r := w.current().(type) {
	case NorthRobot:
		w.robot = r.TurnLeft()
	case EastRobot:
		w.robot = r.TurnLeft()
	case SouthRobot:
		w.robot = r.TurnLeft()
	case WestRobot:
		w.robot = r.TurnLeft()
	}
}

func (w *RobotWithFace) TurnRight() {
	switch r := w.current().(type) {
	case NorthRobot:
		w.robot = r.TurnRight()
	case EastRobot:
		w.robot = r.TurnRight()
	case SouthRobot:
		w.robot = r.TurnRight()
	case WestRobot:
		w.robot = r.TurnRight()
	}
}

func (w *RobotWithFace) Advance() {
	switch r := w.current().(type) {
	case NorthRobot:
		w.robot = r.Advance()
	case EastRobot:
		w.robot = r.Advance()
	case SouthRobot:
		w.robot = r.Advance()
	case WestRobot:
		w.robot = r.Advance()
	}
}

// Execute dispatches one instruction rune. Unknown runes are ignored.
func (w *RobotWithFace) Execute(instruction rune) {
	switch domain.Instruction(instruction) {
	case domain.TurnLeft:
		w.TurnLeft()
	case domain.TurnRight:
		w.TurnRight()
	case domain.Advance:
		w.Advance()
	}
}

// Facing reports the current tag.
func (w *RobotWithFace) Facing() domain.Direction {
	return w.current().Facing()
}

func (w *RobotWithFace) Pose() domain.Pose {
	return w.current().pose()
}

// Unwrap returns the typed robot behind the wrapper. Callers type-switch on
// the result.
func (w *RobotWithFace) Unwrap() any {
	return w.current()
}

type positionBody struct {
	Position domain.Position `json:"position"`
}

// MarshalJSON encodes the robot keyed by its direction:
// {"North":{"position":{"x":0,"y":0}}}.
func (w *RobotWithFace) MarshalJSON() ([]byte, error) {
	p := w.Pose()
	return json.Marshal(map[string]positionBody{
		p.Facing.String(): {Position: p.Position()},
	})
}

// UnmarshalJSON accepts exactly one direction key. An unknown key is an
// error wrapping domain.ErrUnknownDirection.
func (w *RobotWithFace) UnmarshalJSON(data []byte) error {
	var tagged map[string]struct {
		Position *domain.Position `json:"position"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("typestate: expected exactly one direction key, got %d", len(tagged))
	}
	for name, body := range tagged {
		if body.Position == nil {
			return fmt.Errorf("%w: position", domain.ErrMissingField)
		}
		decoded, err := New(body.Position.X, body.Position.Y, name)
		if err != nil {
			return err
		}
		*w = *decoded
	}
	return nil
}
