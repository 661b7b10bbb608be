// Package control
// Author: momentics <momentics@gmail.com>
//
// Hot-reload, runtime metrics, configuration control, and debug introspection layer.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates
//   - Runtime observers for hot-reload
//   - Metrics telemetry, including a bounded per-cycle latency history
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed. It
// never touches the exchange package's realtime read path directly; it
// is consumed by driver and cmd/rtstate-demo from the control-plane side.
package control
