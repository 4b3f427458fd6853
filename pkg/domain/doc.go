/*
Package domain contains the shared vocabulary of the rover simulator.

It defines the values every robot implementation agrees on at the boundary: the
cardinal Direction a robot faces, its grid Position, the comparable Pose snapshot
and the single-rune Instructions the interpreter understands. The package is pure
and free of I/O so that each pattern implementation can depend on it without
pulling in adapters.

# Key Entities

  - Direction: North, East, South or West, encoded as text ("North") on the wire.
  - Position: signed, unbounded (x, y) grid coordinates.
  - Pose: Position plus Direction; the value compared across implementations.
  - Instruction: 'L' (turn left), 'R' (turn right) and 'A' (advance).
  - PoseEvent: the notification emitted after every operation on the shared robot.
*/
package domain
