/*
Package ports defines the contracts between the robot implementations and the
adapters that drive them.

Each design pattern (direct mutation, command objects, runtime state, type-state)
is an independent implementation of the same Robot contract. Adapters such as the
HTTP server, the MCP server and the CLI only ever see these interfaces, so the
active implementation can be swapped at startup without touching them.

# Key Interfaces

  - Robot: turn left, turn right, advance, execute one instruction rune, report a Pose.
  - Undoer: optional capability of robots that keep a reversible history.
  - Pattern: factory and decoder for one implementation's robots.
  - PoseSink: receives a PoseEvent after every operation on the shared robot.
*/
package ports
