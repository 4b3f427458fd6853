package command

import (
	"encoding/json"
	"log/slog"

	"github.com/aretw0/rover/internal/logging"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
)

// Controller is the invoker: it executes commands against its robot and keeps
// them in a history so they can be undone.
type Controller struct {
	robot   Robot
	history []Command
	logger  *slog.Logger
}

var (
	_ ports.Robot  = (*Controller)(nil)
	_ ports.Undoer = (*Controller)(nil)
)

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets the logger used to report unknown instructions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller whose robot starts at (x, y, facing).
func NewController(x, y int, facing domain.Direction, opts ...Option) *Controller {
	c := &Controller{
		robot:  Robot{X: x, Y: y, Facing: facing},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke executes a command and records it in the history.
func (c *Controller) Invoke(cmd Command) {
	cmd.Execute(&c.robot)
	c.history = append(c.history, cmd)
}

// UndoLast pops the latest command and applies its inverse.
func (c *Controller) UndoLast() bool {
	n := len(c.history)
	if n == 0 {
		return false
	}
	cmd := c.history[n-1]
	c.history[n-1] = nil
	c.history = c.history[:n-1]
	cmd.Undo(&c.robot)
	return true
}

// ProcessInstruction turns an instruction rune into a command and executes it.
// Unknown runes are logged and never enter the history.
func (c *Controller) ProcessInstruction(instruction rune) {
	cmd, ok := ForInstruction(instruction)
	if !ok {
		c.logger.Warn("unknown instruction", "instruction", string(instruction))
		return
	}
	c.Invoke(cmd)
}

// Execute applies one instruction rune; see ProcessInstruction.
func (c *Controller) Execute(instruction rune) {
	c.ProcessInstruction(instruction)
}

// History returns the names of the recorded commands, oldest first.
func (c *Controller) History() []string {
	names := make([]string, len(c.history))
	for i, cmd := range c.history {
		names[i] = cmd.Name()
	}
	return names
}

func (c *Controller) TurnLeft()  { c.Invoke(TurnLeft{}) }
func (c *Controller) TurnRight() { c.Invoke(TurnRight{}) }
func (c *Controller) Advance()   { c.Invoke(Advance{}) }

func (c *Controller) Pose() domain.Pose {
	return c.robot.pose()
}

// MarshalJSON encodes the robot, not the history.
func (c *Controller) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.robot)
}
