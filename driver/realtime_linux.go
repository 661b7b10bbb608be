//go:build linux
// +build linux

// File: driver/realtime_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific realtime scheduling setup for the goroutine that will
// drive Runner.Cycle, mirroring the SCHED_FIFO + CPU pinning combination
// JACK's own realtime thread setup uses before entering its process loop.

package driver

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rtstate/affinity"
)

// RealtimeSetup pins the calling OS thread to cpuID and raises its
// scheduling policy to SCHED_FIFO at the given priority. Must be called
// from the goroutine that will call Runner.Cycle, after locking that
// goroutine to its OS thread with runtime.LockOSThread.
func RealtimeSetup(cpuID int, priority int) error {
	if err := affinity.SetAffinity(cpuID); err != nil {
		return fmt.Errorf("driver: affinity setup failed: %w", err)
	}
	param := &unix.SchedParam{Priority: int32(priority)}
	if err := unix.SchedSetscheduler(0, unix.SCHED_FIFO, param); err != nil {
		return fmt.Errorf("driver: SchedSetscheduler failed: %w", err)
	}
	return nil
}
