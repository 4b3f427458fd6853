/*
Package solutions groups the four interchangeable robot implementations.

Each subpackage models the robot's facing and its instruction handling with a
different design pattern while honoring the same ports.Robot contract:

  - nopattern: a plain enum and in-place mutation through switch statements.
  - command: every instruction becomes a command object with an inverse, kept in an undo history.
  - state: the facing is a polymorphic state value that returns the next state on each turn.
  - typestate: the facing is part of the robot's static type; a closed wrapper carries it at runtime.

For any instruction string and start pose all four yield the same final pose.
*/
package solutions
