// Package exchange
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lock-free state-exchange primitives that publish mutable state from
// non-realtime control-plane goroutines to a single realtime reader
// without locks, without allocation on the hot path, and without torn
// reads.
//
// Single is a two-slot double buffer for one writer (with reentrant
// nested writes) and one reader. Array is a three-slot exchanger for two
// independent writer streams and one reader. Both are built around a
// single packed atomic word manipulated by compare-and-swap; all mutating
// operations are lock-free CAS-retry loops, and every read is wait-free.
//
// T must be a plain value type: the "need copy" step in both exchangers
// reseeds a pending slot from the current one with a Go value assignment,
// which is this module's rendering of a bytewise copy and therefore
// requires T to contain no state that a member-wise copy would corrupt
// (no unexported synchronization primitives, no self-referential
// pointers).
package exchange
