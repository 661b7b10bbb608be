// control/inspector.go
// Author: momentics <momentics@gmail.com>
//
// Non-realtime state inspection: the ticket -> read -> ticket retry
// loop a diagnostics goroutine uses to obtain a torn-free copy of state
// published through an exchange.Single or exchange.Array, without ever
// contending with the realtime writer or reader. A realtime reader
// never needs this — it dereferences ReadCurrent's result immediately
// on its own goroutine, the same discipline exchange itself relies on —
// but a background metrics or debug goroutine reading a multi-field
// struct risks the writer recycling the slot mid-copy.

package control

// Inspector pairs a ticket accessor with a read accessor sourced from
// the same exchanger (e.g. exchange.Single.CurrentIndex with
// exchange.Single.ReadCurrent, or exchange.Array.CurrentTicket with
// exchange.Array.ReadCurrent) and retries the read until the ticket
// observed before and after agrees.
type Inspector[T any] struct {
	ticket func() uint64
	read   func() T
}

// NewInspector builds an Inspector from raw ticket/read accessors.
func NewInspector[T any](ticket func() uint64, read func() T) *Inspector[T] {
	return &Inspector[T]{ticket: ticket, read: read}
}

// Sample retries the read until no switch was observed to have
// happened in between, guaranteeing the returned value was not torn by
// a concurrent write reusing the slot mid-copy.
func (in *Inspector[T]) Sample() T {
	for {
		before := in.ticket()
		v := in.read()
		after := in.ticket()
		if before == after {
			return v
		}
	}
}

// SampleInto runs insp and stores its result in mr under key, for a
// metrics exporter goroutine to read back later via GetSnapshot. A free
// function rather than a method: Go methods cannot carry their own type
// parameters, and insp's element type varies per call site.
func SampleInto[T any](mr *MetricsRegistry, key string, insp *Inspector[T]) {
	mr.Set(key, insp.Sample())
}
