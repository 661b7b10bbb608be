// File: cmd/rtstate-demo/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Demonstrates wiring graph, enginecontrol, clienttable and driver
// together: a simulated realtime cycle goroutine reads published state
// at a fixed rate while control-plane goroutines mutate it concurrently,
// with a metrics reporter and clean signal-driven shutdown.

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/momentics/hioload-rtstate/clienttable"
	"github.com/momentics/hioload-rtstate/control"
	"github.com/momentics/hioload-rtstate/driver"
	"github.com/momentics/hioload-rtstate/enginecontrol"
	"github.com/momentics/hioload-rtstate/graph"
)

func main() {
	cyclePeriod := flag.Duration("cycle", 5*time.Millisecond, "realtime cycle period")
	cpuID := flag.Int("cpu", 0, "CPU to pin the realtime cycle goroutine to")
	reloadBufferSize := flag.Uint("reload-buffer-size", 512, "buffer size applied when SIGHUP triggers a config reload")
	reloadSampleRate := flag.Uint("reload-sample-rate", 96000, "sample rate applied when SIGHUP triggers a config reload")
	flag.Parse()

	g := graph.New()
	eng := enginecontrol.New(enginecontrol.Block{SampleRate: 48000, BufferSize: 256})
	clients := clienttable.NewTable()
	metrics := control.NewMetricsRegistry()
	debug := control.NewDebugProbes()
	requests := control.NewPendingRequests()
	configStore := control.NewConfigStore(enginecontrol.ReloadConfig{
		SampleRate: eng.Current().SampleRate,
		BufferSize: eng.Current().BufferSize,
		Sync:       eng.Current().Sync,
	})

	// RecentCycleLatencies, not DrainCycleLatencies: a debug probe must not
	// destructively steal samples the metrics reporter goroutine is also
	// draining below.
	debug.RegisterProbe("recent_cycle_latencies", func() any { return metrics.RecentCycleLatencies(5) })
	debug.RegisterProbe("pending_requests", func() any { return requests.Len() })
	debug.RegisterProbe("clients", func() any { return clients.Snapshot().Count })
	control.RegisterPlatformProbes(debug)

	runner := driver.NewRunner(g, eng, clients, metrics, *cyclePeriod)

	// Non-RT inspectors: diagnostics goroutines sample published state
	// through a ticket-retry loop rather than the RT reader's plain
	// ReadCurrent, since a background goroutine's copy can otherwise be
	// torn by a concurrent write recycling the slot mid-copy.
	engineInspector := control.NewInspector(eng.Ticket, func() enginecontrol.Block { return *eng.Current() })
	topologyInspector := control.NewInspector(g.TopologyTicket, func() graph.Topology { return *g.CurrentTopology() })
	metaInspector := control.NewInspector(g.MetaTicket, func() graph.Meta { return *g.CurrentMeta() })

	shutdownCh := make(chan struct{})
	cycleDone := make(chan struct{})

	// Realtime cycle goroutine: pins itself and runs Runner.Cycle on a
	// fixed period, exactly mirroring the shape a real audio callback loop
	// would have, minus any actual device I/O.
	go func() {
		defer close(cycleDone)
		runtime.LockOSThread()
		if err := driver.RealtimeSetup(*cpuID, 50); err != nil {
			log.Printf("realtime setup skipped: %v", err)
		}
		ticker := time.NewTicker(*cyclePeriod)
		defer ticker.Stop()
		for {
			select {
			case <-shutdownCh:
				return
			case <-ticker.C:
				runner.Cycle()
			}
		}
	}()

	// Client table applier: the single goroutine permitted to write
	// through clienttable's exchange.Single.
	applierDone := make(chan struct{})
	go func() {
		defer close(applierDone)
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-shutdownCh:
				return
			case <-ticker.C:
				clients.ApplyPending()
			}
		}
	}()

	// Config-reload applier: drains queued reload requests into the
	// typed config store, which in turn dispatches this hook to
	// actually reconfigure the running engine block.
	configStore.OnReload(func(cfg enginecontrol.ReloadConfig) {
		eng.Reconfigure(cfg.SampleRate, cfg.BufferSize, cfg.Sync)
		log.Printf("config reloaded: sample_rate=%d buffer_size=%d sync_mode=%v", cfg.SampleRate, cfg.BufferSize, cfg.Sync)
	})
	applyReload := func(cur *enginecontrol.ReloadConfig, r control.ReloadRequest) {
		switch r.Key {
		case "sample_rate":
			if v, ok := r.Value.(uint32); ok {
				cur.SampleRate = v
			}
		case "buffer_size":
			if v, ok := r.Value.(uint32); ok {
				cur.BufferSize = v
			}
		case "sync_mode":
			if v, ok := r.Value.(enginecontrol.SyncMode); ok {
				cur.Sync = v
			}
		}
	}
	reloadDone := make(chan struct{})
	go func() {
		defer close(reloadDone)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-shutdownCh:
				return
			case <-ticker.C:
				control.ApplyAll(requests, configStore, applyReload)
			}
		}
	}()

	// SIGHUP queues a real config-reload request through PendingRequests,
	// exercising the eapache/queue-backed FIFO end to end: the reload
	// applier goroutine above drains it into configStore, whose OnReload
	// hook then republishes the engine block.
	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	hupDone := make(chan struct{})
	go func() {
		defer close(hupDone)
		for {
			select {
			case <-shutdownCh:
				return
			case <-hupCh:
				requests.Push(control.ReloadRequest{Key: "sample_rate", Value: uint32(*reloadSampleRate)})
				requests.Push(control.ReloadRequest{Key: "buffer_size", Value: uint32(*reloadBufferSize)})
				log.Println("SIGHUP received: queued config reload requests")
			}
		}
	}()

	// Metrics reporter.
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-shutdownCh:
				return
			case <-ticker.C:
				samples := metrics.DrainCycleLatencies()
				log.Printf("cycles observed=%d clients=%d xruns=%d",
					len(samples), clients.Snapshot().Count, eng.Current().XRunCount)

				control.SampleInto(metrics, "engine_block", engineInspector)
				control.SampleInto(metrics, "graph_topology", topologyInspector)
				control.SampleInto(metrics, "graph_meta", metaInspector)
				log.Printf("metrics: %+v", metrics.GetSnapshot())

				log.Printf("debug: %+v", debug.DumpState())
			}
		}
	}()

	signalCh := make(chan os.Signal, 2)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	<-signalCh
	log.Println("shutdown signal received")

	close(shutdownCh)

	const shutdownTimeout = 5 * time.Second
	done := make(chan struct{})
	go func() {
		<-cycleDone
		<-applierDone
		<-reloadDone
		<-hupDone
		<-reporterDone
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown warning: forced exit after %v", shutdownTimeout)
	}
	log.Println("shutdown complete")
}
