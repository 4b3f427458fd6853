package domain

// Instruction is a single robot command encoded as one rune.
type Instruction rune

const (
	TurnLeft  Instruction = 'L'
	TurnRight Instruction = 'R'
	Advance   Instruction = 'A'
)

// Instructions returns the recognized instructions.
func Instructions() []Instruction {
	return []Instruction{TurnLeft, TurnRight, Advance}
}

// ParseInstruction maps a rune to an Instruction. The boolean is false for
// runes the robot does not understand; callers skip those.
func ParseInstruction(r rune) (Instruction, bool) {
	switch Instruction(r) {
	case TurnLeft, TurnRight, Advance:
		return Instruction(r), true
	default:
		return 0, false
	}
}

// Name returns a stable identifier, used as a metric label and in logs.
func (i Instruction) Name() string {
	switch i {
	case TurnLeft:
		return "turn_left"
	case TurnRight:
		return "turn_right"
	case Advance:
		return "advance"
	default:
		return "unknown"
	}
}

func (i Instruction) String() string {
	return string(rune(i))
}
