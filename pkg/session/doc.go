/*
Package session owns the single shared robot of the process.

Every request goes through the Manager, which serializes access with a mutex:
the lock is taken, the pure state transition runs, the robot's JSON state is
captured and the lock is released. Nothing blocking ever happens while the lock
is held; pose events are fanned out to sinks (SSE, Redis, metrics) afterwards.
*/
package session
