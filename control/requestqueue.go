// control/requestqueue.go
// Author: momentics <momentics@gmail.com>
//
// PendingRequests is a plain, mutex-guarded FIFO for config-reload
// requests raised from HTTP handlers, signal handlers or CLI commands.
// Unlike internal/lockfree.Queue (used on the client-table's request
// fan-in path), nothing here runs anywhere near the audio callback, so a
// conventional ring-backed queue is the right tool rather than a
// lock-free one.

package control

import (
	"sync"

	"github.com/eapache/queue"
)

// ReloadRequest describes a single requested configuration change.
type ReloadRequest struct {
	Key   string
	Value any
}

// PendingRequests is a thread-safe FIFO of reload requests awaiting
// application by the owner of a ConfigStore.
type PendingRequests struct {
	mu sync.Mutex
	q  *queue.Queue
}

// NewPendingRequests constructs an empty request queue.
func NewPendingRequests() *PendingRequests {
	return &PendingRequests{q: queue.New()}
}

// Push enqueues a reload request.
func (p *PendingRequests) Push(r ReloadRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.q.Add(r)
}

// Pop removes and returns the oldest request; ok is false if empty.
func (p *PendingRequests) Pop() (r ReloadRequest, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.q.Length() == 0 {
		return ReloadRequest{}, false
	}
	v := p.q.Peek()
	p.q.Remove()
	return v.(ReloadRequest), true
}

// Len returns the number of requests currently queued.
func (p *PendingRequests) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.q.Length()
}

// ApplyAll drains p, applying each request to store's typed config in
// order via apply. A free function rather than a PendingRequests
// method: Go methods cannot carry their own type parameters, and the
// target store's payload type varies per call site.
func ApplyAll[T any](p *PendingRequests, store *ConfigStore[T], apply func(cur *T, r ReloadRequest)) {
	for {
		r, ok := p.Pop()
		if !ok {
			return
		}
		store.SetConfig(func(cur *T) { apply(cur, r) })
	}
}
