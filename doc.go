/*
Package rover drives a robot on an unbounded grid: it turns left, turns right and
advances one cell in the direction it faces.

The robot is implemented four times, each with a different design:

  - no_pattern: a plain direction enum mutated in place.
  - command: every instruction is a command object kept in an undo history.
  - state: the facing is a state value that knows its neighbours.
  - type_state: the facing is part of the robot's type, so only valid
    transitions compile; a tagged wrapper carries it across runtime boundaries.

All four produce the same position and facing for the same instructions.
Exactly one implementation is active per process. It is chosen by name at
startup and owned by a session.Manager, which serializes every request.

# Usage

	m, err := rover.New("state")
	if err != nil {
		log.Fatal(err)
	}
	snap, _ := m.Move(ctx, "RAALA")
	fmt.Println(snap.Pose) // (2, 1) facing North

The cmd/rover binary exposes the same operations over HTTP, MCP and a CLI.
*/
package rover
