// File: enginecontrol/enginecontrol.go
// Package enginecontrol
// Author: momentics <momentics@gmail.com>
//
// Publishes the engine's realtime-relevant operating parameters — sample
// rate, buffer size, sync mode, transport state and xrun accounting — to
// a single realtime reader through a two-slot exchange.Single, mirroring
// how JackEngineControl exposes its buffer/rate settings to
// JackAudioDriver::Process without locking.
package enginecontrol

import "github.com/momentics/hioload-rtstate/exchange"

// SyncMode mirrors JACK's synchronous/asynchronous driver processing modes.
type SyncMode int

const (
	// Async lets the driver's cycle proceed without waiting on client
	// graph completion.
	Async SyncMode = iota
	// Sync makes the driver's cycle block until the graph finishes.
	Sync
)

// TransportState is a coarse playback/record state, published alongside
// the buffer parameters so RT clients can react to transport changes
// without a separate exchanger.
type TransportState int

const (
	TransportStopped TransportState = iota
	TransportRolling
)

// Block is the full set of engine parameters observed by the realtime reader.
type Block struct {
	SampleRate uint32
	BufferSize uint32
	XRunCount  uint64
	Sync       SyncMode
	Transport  TransportState
}

// ReloadConfig is the hot-reloadable subset of Block: the parameters an
// external config store (control.ConfigStore[ReloadConfig]) can stage
// before a single Reconfigure call republishes them together.
type ReloadConfig struct {
	SampleRate uint32
	BufferSize uint32
	Sync       SyncMode
}

// Control is a lock-free-published engine parameter block, with one
// control-plane writer (possibly reentrant, e.g. Reconfigure calling
// SetSampleRate and SetBufferSize within a single publish) and one
// realtime reader.
type Control struct {
	state *exchange.Single[Block]
}

// New constructs a Control seeded with the given initial parameters.
func New(initial Block) *Control {
	return &Control{state: exchange.NewSingle(initial)}
}

// Current returns the parameter block the realtime reader currently observes.
func (c *Control) Current() *Block {
	return c.state.ReadCurrent()
}

// Ticket returns a coherency ticket for non-realtime readers: pair it
// with Current in a control.Inspector (read ticket, read state, re-read
// ticket, retry until equal) to obtain a torn-free copy of Block
// without contending with the realtime path.
func (c *Control) Ticket() uint64 {
	return uint64(c.state.CurrentIndex())
}

// Cycle promotes any pending parameter update. Intended to be called
// once per driver cycle from the realtime reader's own goroutine.
func (c *Control) Cycle() *Block {
	return c.state.TrySwitch()
}

// SetSampleRate publishes a new sample rate.
func (c *Control) SetSampleRate(hz uint32) {
	w := c.state.BeginWrite()
	w.SampleRate = hz
	c.state.EndWrite()
}

// SetBufferSize publishes a new buffer size, in frames.
func (c *Control) SetBufferSize(frames uint32) {
	w := c.state.BeginWrite()
	w.BufferSize = frames
	c.state.EndWrite()
}

// SetTransport publishes a new transport state.
func (c *Control) SetTransport(t TransportState) {
	w := c.state.BeginWrite()
	w.Transport = t
	c.state.EndWrite()
}

// NoteXRun increments the published xrun counter. Called by driver.Cycle
// when a realtime deadline is missed.
func (c *Control) NoteXRun() {
	w := c.state.BeginWrite()
	w.XRunCount++
	c.state.EndWrite()
}

// Reconfigure atomically publishes a new sample rate, buffer size and
// sync mode together as a single write region, demonstrating the
// exchanger's reentrant BeginWrite/EndWrite nesting: each setter below
// opens its own region, which folds into this call's outer region rather
// than publishing prematurely.
func (c *Control) Reconfigure(hz, frames uint32, mode SyncMode) {
	w := c.state.BeginWrite()
	w.Sync = mode
	c.SetSampleRate(hz) // nested BeginWrite/EndWrite; does not publish yet
	c.SetBufferSize(frames)
	c.state.EndWrite() // outermost EndWrite: publishes all three changes together
}
