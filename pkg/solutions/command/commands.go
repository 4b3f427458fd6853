package command

import "github.com/aretw0/rover/pkg/domain"

// Command is one reversible robot operation.
type Command interface {
	Execute(r *Robot)
	Undo(r *Robot)
	Name() string
}

// TurnLeft rotates the robot 90° counter-clockwise.
type TurnLeft struct{}

func (TurnLeft) Execute(r *Robot) { r.turnLeft() }
func (TurnLeft) Undo(r *Robot)    { r.turnRight() }
func (TurnLeft) Name() string     { return domain.TurnLeft.Name() }

// TurnRight rotates the robot 90° clockwise.
type TurnRight struct{}

func (TurnRight) Execute(r *Robot) { r.turnRight() }
func (TurnRight) Undo(r *Robot)    { r.turnLeft() }
func (TurnRight) Name() string     { return domain.TurnRight.Name() }

// Advance moves the robot one cell forward.
type Advance struct{}

func (Advance) Execute(r *Robot) { r.advance() }

// Undo steps backwards using only the forward primitives: half turn, advance,
// half turn.
func (Advance) Undo(r *Robot) {
	r.turnRight()
	r.turnRight()
	r.advance()
	r.turnRight()
	r.turnRight()
}

func (Advance) Name() string { return domain.Advance.Name() }

// ForInstruction returns the command bound to an instruction rune.
func ForInstruction(instruction rune) (Command, bool) {
	switch domain.Instruction(instruction) {
	case domain.TurnLeft:
		return TurnLeft{}, true
	case domain.TurnRight:
		return TurnRight{}, true
	case domain.Advance:
		return Advance{}, true
	default:
		return nil, false
	}
}
