// File: graph/graph.go
// Package graph
// Author: momentics <momentics@gmail.com>
//
// A realtime-readable connection graph, modeled on JackAudioDriver's
// separation between the engine's port/connection topology and its
// lighter-weight metadata. Topology and metadata are two independent
// control-plane writer streams, each with exactly one writer goroutine,
// so each gets its own exchange.Single rather than sharing one payload
// behind two pending ids on an exchange.Array: an Array's copy-on-first-
// write only ever seeds a pending slot from the last *switched-in*
// value, never from a sibling writer's still-pending one, so two
// disjoint streams cannot safely share a payload type there. The
// realtime reader observes both together as one Snapshot value per
// driver cycle.
package graph

import (
	"time"

	"github.com/momentics/hioload-rtstate/api"
	"github.com/momentics/hioload-rtstate/exchange"
)

// MaxPorts and MaxConnections bound Topology's fixed-capacity tables so
// it stays a plain, trivially-copyable value suitable for exchange.Single.
const (
	MaxPorts       = 256
	MaxConnections = 512
)

// Port describes a single graph endpoint.
type Port struct {
	ID      uint32
	Name    string
	IsInput bool
}

// Connection links two ports by id.
type Connection struct {
	From uint32
	To   uint32
}

// Topology is the port/connection table, written by the topology writer.
type Topology struct {
	Ports           [MaxPorts]Port
	PortCount       int
	Connections     [MaxConnections]Connection
	ConnectionCount int
}

// Meta is lightweight descriptive state, written by the meta writer.
type Meta struct {
	Name    string
	Version uint64
	Updated time.Time
}

// Snapshot is the full published state: the graph topology plus its
// metadata, observed together by the realtime reader.
type Snapshot struct {
	Topology Topology
	Meta     Meta
}

// Graph is a lock-free, dual-writer connection graph: topology and meta
// are independently published so a pending write on one stream never
// disturbs the other's already-switched-in state.
type Graph struct {
	topology *exchange.Single[Topology]
	meta     *exchange.Single[Meta]
}

// New constructs an empty graph.
func New() *Graph {
	return &Graph{
		topology: exchange.NewSingle(Topology{}),
		meta:     exchange.NewSingle(Meta{}),
	}
}

// Current returns the snapshot the realtime reader currently observes.
func (g *Graph) Current() Snapshot {
	return Snapshot{
		Topology: *g.CurrentTopology(),
		Meta:     *g.CurrentMeta(),
	}
}

// CurrentTopology and CurrentMeta return pointers to each stream's
// currently published slot. Exposed independently of Current so a
// control.Inspector can pair either one with its matching ticket method
// below for a torn-free non-RT read.
func (g *Graph) CurrentTopology() *Topology { return g.topology.ReadCurrent() }
func (g *Graph) CurrentMeta() *Meta         { return g.meta.ReadCurrent() }

// TopologyTicket and MetaTicket return coherency tickets for non-RT
// readers, one per independently-published stream.
func (g *Graph) TopologyTicket() uint64 { return uint64(g.topology.CurrentIndex()) }
func (g *Graph) MetaTicket() uint64     { return uint64(g.meta.CurrentIndex()) }

// Cycle promotes any pending topology and meta updates and returns the
// resulting current snapshot. Intended to be called once per driver
// cycle, from the realtime reader's own goroutine.
func (g *Graph) Cycle() Snapshot {
	topo := g.topology.TrySwitch()
	meta := g.meta.TrySwitch()
	return Snapshot{Topology: *topo, Meta: *meta}
}

// MutateTopology opens a topology write region, applies fn, and closes
// it. Must only be called from the topology writer's own goroutine.
func (g *Graph) MutateTopology(fn func(*Topology)) {
	w := g.topology.BeginWrite()
	fn(w)
	g.topology.EndWrite()
}

// MutateMeta opens a meta write region, applies fn, and closes it. Must
// only be called from the meta writer's own goroutine.
func (g *Graph) MutateMeta(fn func(*Meta)) {
	w := g.meta.BeginWrite()
	fn(w)
	g.meta.EndWrite()
}

// AddPort appends a port to the pending topology. Returns an error if
// the fixed-capacity port table is full.
func (t *Topology) AddPort(p Port) error {
	if t.PortCount >= MaxPorts {
		return api.ErrGraphFull
	}
	t.Ports[t.PortCount] = p
	t.PortCount++
	return nil
}

// Connect appends a connection to the pending topology. Returns an
// error if the fixed-capacity connection table is full, or if either
// endpoint does not name a known port.
func (t *Topology) Connect(from, to uint32) error {
	if t.ConnectionCount >= MaxConnections {
		return api.ErrGraphFull
	}
	if !t.hasPort(from) || !t.hasPort(to) {
		return api.ErrPortNotFound
	}
	t.Connections[t.ConnectionCount] = Connection{From: from, To: to}
	t.ConnectionCount++
	return nil
}

func (t *Topology) hasPort(id uint32) bool {
	for i := 0; i < t.PortCount; i++ {
		if t.Ports[i].ID == id {
			return true
		}
	}
	return false
}
