package domain

import "errors"

// ErrUnknownDirection is returned when a direction name is not one of North, East, South or West.
var ErrUnknownDirection = errors.New("unknown direction")

// ErrUnknownPattern is returned when no robot implementation is registered under the requested name.
var ErrUnknownPattern = errors.New("unknown pattern")

// ErrUndoUnsupported is returned when undo is requested from a robot that keeps no history.
var ErrUndoUnsupported = errors.New("undo not supported by the active pattern")

// ErrInvalidState is returned when a robot state document cannot be decoded.
var ErrInvalidState = errors.New("invalid robot state")

// ErrMissingField is returned when a state document omits a required field.
var ErrMissingField = errors.New("missing field")
