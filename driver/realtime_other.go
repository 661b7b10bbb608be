//go:build !linux
// +build !linux

// File: driver/realtime_other.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux platforms have no SCHED_FIFO equivalent wired up here; only
// best-effort CPU affinity is applied.

package driver

import "github.com/momentics/hioload-rtstate/affinity"

// RealtimeSetup pins the calling OS thread to cpuID. priority is ignored
// on platforms without a SCHED_FIFO-style realtime scheduling class.
func RealtimeSetup(cpuID int, priority int) error {
	return affinity.SetAffinity(cpuID)
}
