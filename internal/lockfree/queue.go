// File: internal/lockfree/queue.go
// Package lockfree provides bounded, allocation-free data structures for
// handing work between the control plane and the realtime path.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Queue is a Vyukov-style MPMC bounded queue using per-cell sequence
// numbers to avoid a single shared lock. clienttable.Table uses it as the
// fan-in path for roster-mutation requests: any number of control-plane
// goroutines may Enqueue a request, and the table's single applier
// goroutine Dequeues and applies them one at a time before republishing
// the roster through its exchange.Single.

package lockfree

import "sync/atomic"

const cacheLinePad = 64

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
	_        [cacheLinePad]byte
}

// Queue is a fixed-capacity, lock-free multi-producer/multi-consumer queue.
type Queue[T any] struct {
	head  uint64
	_     [cacheLinePad]byte
	tail  uint64
	_     [cacheLinePad]byte
	mask  uint64
	cells []cell[T]
}

// NewQueue creates a queue with capacity rounded up to the next power of two.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}

	q := &Queue[T]{
		mask:  uint64(size - 1),
		cells: make([]cell[T], size),
	}
	for i := range q.cells {
		q.cells[i].sequence.Store(uint64(i))
	}
	return q
}

// Enqueue adds val; returns false if the queue is full.
func (q *Queue[T]) Enqueue(val T) bool {
	for {
		tail := atomic.LoadUint64(&q.tail)
		index := tail & q.mask
		c := &q.cells[index]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(tail)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				c.data = val
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false
		default:
			// tail moved under us, retry
		}
	}
}

// Dequeue removes and returns the oldest item; ok is false if the queue is empty.
func (q *Queue[T]) Dequeue() (item T, ok bool) {
	for {
		head := atomic.LoadUint64(&q.head)
		index := head & q.mask
		c := &q.cells[index]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(head+1)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
				item = c.data
				c.sequence.Store(head + q.mask + 1)
				return item, true
			}
		case dif < 0:
			var zero T
			return zero, false
		default:
			// head moved under us, retry
		}
	}
}
