// This file contains the structured events the engine emits (spec.md §6),
// grouped as a small closed interface the way the teacher groups the
// several repcmd.Cmd implementations under one interface.

package tradeengine

import "github.com/gbxlink/tradecenter/tradeblock"

// Event is implemented by every event kind the engine can publish.
type Event interface {
	isEvent()
}

// StateChange fires whenever Step moves the session to a new state.
type StateChange struct {
	From *State
	To   *State
}

func (StateChange) isEvent() {}

// ByteExchanged fires on every Step call, recording what was sent and
// received and where in the current phase it happened: Index is the byte's
// offset in the block during BLOCK_SWAP, and the session's sub-phase
// counter (after the byte was processed) in every other phase.
type ByteExchanged struct {
	RX, TX byte
	Phase  *State
	Index  int
}

func (ByteExchanged) isEvent() {}

// BlockReceived fires once BLOCK_SWAP (and any patch restoration) has
// produced a validated incoming block.
type BlockReceived struct {
	Block *tradeblock.Block
}

func (BlockReceived) isEvent() {}

// Committed fires when a trade completes successfully.
type Committed struct {
	Received *tradeblock.Block
	Sent     *tradeblock.Block
}

func (Committed) isEvent() {}

// Aborted fires when a trade ends without committing.
type Aborted struct {
	Cause error
}

func (Aborted) isEvent() {}

// EventSink receives events published by a Session. Publish must not block
// and must not panic; a sink that needs to do slow work should buffer
// internally and drop on overflow.
type EventSink interface {
	Publish(Event)
}

// NopSink discards every event. Useful as a default when nobody is
// listening.
type NopSink struct{}

func (NopSink) Publish(Event) {}
