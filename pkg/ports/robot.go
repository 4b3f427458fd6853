package ports

import (
	"github.com/aretw0/rover/pkg/domain"
)

// Robot is the contract every pattern implementation satisfies.
// Implementations are not safe for concurrent use; the session manager
// serializes access.
type Robot interface {
	TurnLeft()
	TurnRight()
	Advance()

	// Execute applies one instruction rune. Runes other than 'L', 'R' and 'A'
	// leave the robot untouched.
	Execute(instruction rune)

	// Pose reports the current position and facing.
	Pose() domain.Pose
}

// Undoer is implemented by robots that record a reversible history.
type Undoer interface {
	// UndoLast reverts the most recent operation. It returns false when the
	// history is empty.
	UndoLast() bool

	// History returns the names of the recorded operations, oldest first.
	History() []string
}

// StateShape describes how a pattern serializes its robot.
type StateShape int

const (
	// ShapeFlat is {"x":0,"y":0,"facing":"North"}.
	ShapeFlat StateShape = iota
	// ShapeTagged is {"North":{"position":{"x":0,"y":0}}}, keyed by direction name.
	ShapeTagged
)

func (s StateShape) String() string {
	if s == ShapeTagged {
		return "tagged"
	}
	return "flat"
}

// Pattern builds and decodes robots of one implementation.
type Pattern interface {
	// Name is the registry key, e.g. "no_pattern" or "type_state".
	Name() string

	// Description is a one-line summary shown by the CLI.
	Description() string

	// Shape reports the JSON layout produced by json.Marshal on this pattern's robots.
	Shape() StateShape

	// New returns a robot at the given pose. It panics when pose.Facing is not
	// one of the four cardinal directions.
	New(pose domain.Pose) Robot

	// Decode parses a robot from its JSON state (the same layout json.Marshal produces).
	Decode(data []byte) (Robot, error)
}
