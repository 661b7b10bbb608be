// File: driver/driver.go
// Package driver
// Author: momentics <momentics@gmail.com>
//
// driver is illustrative only: it shows the per-cycle shape a realtime
// audio callback would drive through graph, enginecontrol and
// clienttable, modeled on JackAudioDriver::Process/ProcessSync's
// read-graph-write cycle. It performs no actual I/O — no device, no
// socket, no disk — and is not a port of JACK or a port-audio backend.
package driver

import (
	"time"

	"github.com/momentics/hioload-rtstate/clienttable"
	"github.com/momentics/hioload-rtstate/control"
	"github.com/momentics/hioload-rtstate/enginecontrol"
	"github.com/momentics/hioload-rtstate/graph"
)

// Runner ties together the three exchangers a realtime cycle observes.
type Runner struct {
	Graph    *graph.Graph
	Control  *enginecontrol.Control
	Clients  *clienttable.Table
	Metrics  *control.MetricsRegistry
	deadline time.Duration
}

// NewRunner constructs a Runner. deadline is the cycle's soft realtime
// budget: a Cycle call that exceeds it counts as an xrun, mirroring
// JackAudioDriver's NotifyXRun on a missed period.
func NewRunner(g *graph.Graph, c *enginecontrol.Control, ct *clienttable.Table, m *control.MetricsRegistry, deadline time.Duration) *Runner {
	return &Runner{Graph: g, Control: c, Clients: ct, Metrics: m, deadline: deadline}
}

// Cycle runs one realtime cycle: it promotes any pending graph and
// engine-control state (never blocking, never allocating on the switch
// path), reads the resulting coherent snapshot, and records the cycle's
// wall-clock latency. The client roster is only read here: clienttable
// switches in its own roster from ApplyPending, which is driven
// separately, off the realtime goroutine.
func (r *Runner) Cycle() graph.Snapshot {
	start := time.Now()

	snap := r.Graph.Cycle()
	block := r.Control.Cycle()
	_ = r.Clients.Snapshot() // realtime-safe read of the current roster

	elapsed := time.Since(start)
	if r.Metrics != nil {
		r.Metrics.RecordCycleLatency(elapsed)
	}
	if r.deadline > 0 && elapsed > r.deadline {
		r.Control.NoteXRun()
	}
	_ = block
	return snap
}
