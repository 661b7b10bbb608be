// File: clienttable/table.go
// Package clienttable
// Author: momentics <momentics@gmail.com>
//
// A realtime-readable roster of connected clients, published through a
// two-slot exchange.Single. Adapted from internal/session's sharded
// SessionManager: this package keeps its Create/Get/Delete/Range shape
// but drops the sharded map storage, because the roster here must be a
// small, fixed-capacity, trivially-copyable value (Roster) suitable as
// an exchange.Single payload — a map is neither fixed-size nor
// cheaply copyable.
//
// Mutations arrive from any number of control-plane goroutines through
// a lock-free MPMC queue (internal/lockfree.Queue) and are applied one
// at a time by a single applier goroutine, which is the only goroutine
// permitted to call the underlying exchange.Single's BeginWrite/EndWrite
// — preserving the exchanger's single-writer contract while still
// letting many callers request changes concurrently.
package clienttable

import (
	"time"

	"github.com/momentics/hioload-rtstate/api"
	"github.com/momentics/hioload-rtstate/exchange"
	"github.com/momentics/hioload-rtstate/internal/lockfree"
)

// MaxClients bounds the roster's fixed capacity. Chosen so Roster stays
// a small, stack-friendly value type; raise it if a deployment needs
// more concurrently tracked clients.
const MaxClients = 256

// Client is a single roster entry.
type Client struct {
	ID        string
	Connected time.Time
	Active    bool
}

// Roster is the trivially-copyable payload exchanged with the realtime
// reader: a fixed-capacity array plus a live count, never a map.
type Roster struct {
	Clients [MaxClients]Client
	Count   int
}

type requestOp int

const (
	opCreate requestOp = iota
	opDelete
)

type request struct {
	op   requestOp
	id   string
	done chan error
}

// Table is a lock-free-published client roster with a queued,
// single-applier mutation path.
type Table struct {
	single   *exchange.Single[Roster]
	requests *lockfree.Queue[request]
}

// NewTable constructs an empty client table.
func NewTable() *Table {
	return &Table{
		single:   exchange.NewSingle(Roster{}),
		requests: lockfree.NewQueue[request](1024),
	}
}

// Snapshot returns the roster the realtime reader currently observes.
func (t *Table) Snapshot() Roster {
	return *t.single.ReadCurrent()
}

// Get looks up a client by id in the currently published roster.
func (t *Table) Get(id string) (Client, bool) {
	r := t.single.ReadCurrent()
	for i := 0; i < r.Count; i++ {
		if r.Clients[i].ID == id {
			return r.Clients[i], true
		}
	}
	return Client{}, false
}

// Range applies fn to every client in the currently published roster.
func (t *Table) Range(fn func(Client)) {
	r := t.single.ReadCurrent()
	for i := 0; i < r.Count; i++ {
		fn(r.Clients[i])
	}
}

// Create enqueues a request to add id to the roster and blocks until the
// applier goroutine has processed it. Safe to call from any number of
// concurrent goroutines.
func (t *Table) Create(id string) error {
	return t.submit(request{op: opCreate, id: id})
}

// Delete enqueues a request to remove id from the roster and blocks
// until the applier goroutine has processed it.
func (t *Table) Delete(id string) error {
	return t.submit(request{op: opDelete, id: id})
}

func (t *Table) submit(req request) error {
	req.done = make(chan error, 1)
	for !t.requests.Enqueue(req) {
		// queue transiently full; yield to the applier goroutine and retry
		time.Sleep(time.Microsecond)
	}
	return <-req.done
}

// ApplyPending drains and applies every request currently queued,
// publishing at most one new roster via a single BeginWrite/EndWrite
// region and switching it in. Intended to be called by exactly one
// goroutine — typically once per driver cycle or on its own idle timer —
// which then owns the single exchanger's write-region contract.
func (t *Table) ApplyPending() {
	applied := false
	var w *Roster
	// Replies are held back until the roster is switched in, so a
	// Create or Delete returns only once its change is visible.
	type reply struct {
		done chan error
		err  error
	}
	var replies []reply
	for {
		req, ok := t.requests.Dequeue()
		if !ok {
			break
		}
		if !applied {
			w = t.single.BeginWrite()
			applied = true
		}
		replies = append(replies, reply{done: req.done, err: applyRequest(w, req)})
	}
	if applied {
		t.single.EndWrite()
		t.single.TrySwitch()
	}
	for _, r := range replies {
		r.done <- r.err
	}
}

func applyRequest(r *Roster, req request) error {
	switch req.op {
	case opCreate:
		for i := 0; i < r.Count; i++ {
			if r.Clients[i].ID == req.id {
				return api.NewError(api.ErrCodeAlreadyExists, "client already exists").WithContext("id", req.id)
			}
		}
		if r.Count >= MaxClients {
			return api.ErrClientTableFull
		}
		r.Clients[r.Count] = Client{ID: req.id, Connected: time.Now(), Active: true}
		r.Count++
		return nil
	case opDelete:
		for i := 0; i < r.Count; i++ {
			if r.Clients[i].ID == req.id {
				r.Clients[i] = r.Clients[r.Count-1]
				r.Clients[r.Count-1] = Client{}
				r.Count--
				return nil
			}
		}
		return api.ErrNotFound
	default:
		return api.ErrInvalidArgument
	}
}
