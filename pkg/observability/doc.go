/*
Package observability exposes Prometheus metrics for the rover service.

Metrics is a ports.PoseSink: registering it with the session manager counts every
operation and instruction applied to the shared robot and keeps gauges with the
latest pose. The HTTP adapter reports request counts and latencies through
ObserveRequest.
*/
package observability
