package domain

import (
	"fmt"
	"strings"
)

// Direction is the cardinal direction a robot faces.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions returns every valid direction in clockwise order starting at North.
func Directions() []Direction {
	return []Direction{North, East, South, West}
}

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// IsValid reports whether d is one of the four cardinal directions.
func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

// Delta returns the unit displacement of one advance in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// ParseDirection resolves a direction name. Matching ignores case, so both
// "North" and "NORTH" are accepted.
func ParseDirection(name string) (Direction, error) {
	for _, d := range Directions() {
		if strings.EqualFold(name, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
