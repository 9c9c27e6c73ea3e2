// This file contains Session, the per-trade-attempt context the state
// machine mutates (spec.md §3 "Session state", §4.4). A Session is created
// once with NewSession, owned exclusively by the engine, and reused across
// trade attempts; Reset clears its per-trade fields on return to IDLE.

package tradeengine

import (
	"time"

	"github.com/gbxlink/tradecenter/tradeblock"
	"github.com/gbxlink/tradecenter/tradecore"
)

// patchList pairs up wire positions within a 415-byte block (tradecore.
// TradeBlockSize exceeds 255, so a position needs two bytes on the wire)
// with the value that was substituted out at that position, used for both
// the outgoing list we build as BLOCK_SWAP begins and the incoming list we
// receive during PATCH_SWAP.
type patchList struct {
	positions []uint16
	values    []byte
}

func (p *patchList) reset() {
	p.positions = p.positions[:0]
	p.values = p.values[:0]
}

// patchExchange tracks progress sending/receiving one terminated patch list
// of single-byte elements (the values list) within PATCH_SWAP.
type patchExchange struct {
	sendIdx  int
	sendDone bool
	recvDone bool
}

func (p *patchExchange) reset() {
	p.sendIdx = 0
	p.sendDone = false
	p.recvDone = false
}

// positionExchange tracks progress sending/receiving the positions list,
// whose elements are 2-byte big-endian values (see patchList). sendHighSent
// / recvHaveHigh track which half of the current pair is in flight, so
// PATCH_TERM is only ever interpreted at a pair boundary and never mistaken
// for the low byte of a position such as 255 (0x00FF).
type positionExchange struct {
	sendIdx      int
	sendHighSent bool
	recvHigh     byte
	recvHaveHigh bool
	sendDone     bool
	recvDone     bool
}

func (p *positionExchange) reset() {
	*p = positionExchange{}
}

// Session holds everything one trade attempt needs. The zero value is not
// ready to use; call NewSession.
type Session struct {
	Clock Clock
	Sink  EventSink

	state       *State
	subCounter  int

	incoming      [tradecore.TradeBlockSize]byte
	incomingIndex int

	outgoingBlock *tradeblock.Block
	outgoingWire  [tradecore.TradeBlockSize]byte
	ownPatch      patchList

	patchPositions positionExchange
	patchValues    patchExchange
	peerPatch      patchList

	receivedBlock *tradeblock.Block

	localTrainerID   uint16
	localTrainerName string

	errorCount int
	lastError  error

	lastStateChange time.Time

	// pendingEvents accumulates events raised during the Step call in
	// progress; Step drains and returns it.
	pendingEvents []Event
}

// NewSession constructs a Session in the IDLE state.
func NewSession(clock Clock, sink EventSink) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	if sink == nil {
		sink = NopSink{}
	}
	s := &Session{Clock: clock, Sink: sink}
	s.state = StateIdle
	return s
}

// State reports the current protocol state.
func (s *Session) State() *State { return s.state }

// SetLocalTrainer sets the identity used when preparing an outgoing block.
func (s *Session) SetLocalTrainer(id uint16, name string) {
	s.localTrainerID = id
	s.localTrainerName = name
}

// SetOutgoingBlock sets the block this session will offer. The block is
// serialised when RANDOMS completes and BLOCK_SWAP begins, so a call made
// any time before that applies to the current trade. Reset clears it; if no
// block is set when BLOCK_SWAP begins, an all-zero block is sent.
func (s *Session) SetOutgoingBlock(b *tradeblock.Block) {
	s.outgoingBlock = b
}

// Reset returns the session to IDLE, clearing all per-trade fields but
// preserving local trainer identity and the lifetime error counter
// (spec.md §4.4).
func (s *Session) Reset() {
	s.state = StateIdle
	s.subCounter = 0
	s.incomingIndex = 0
	s.incoming = [tradecore.TradeBlockSize]byte{}
	s.outgoingWire = [tradecore.TradeBlockSize]byte{}
	s.outgoingBlock = nil
	s.ownPatch.reset()
	s.patchPositions.reset()
	s.patchValues.reset()
	s.peerPatch.reset()
	s.receivedBlock = nil
}

// WatchdogReset implements spec.md §5's external watchdog: if the session
// isn't already IDLE, it counts as an error and the session is reset to
// IDLE directly, without going through ABORT or publishing an Aborted
// event (unlike abort(), which does both). Callers drive this from outside
// Step — e.g. driver.Run calling it when its context is cancelled mid-trade.
func (s *Session) WatchdogReset() {
	if s.state == StateIdle {
		return
	}
	s.errorCount++
	s.lastError = tradecore.ErrWatchdogReset
	s.Reset()
}

func (s *Session) emit(ev Event) {
	s.pendingEvents = append(s.pendingEvents, ev)
	s.Sink.Publish(ev)
}

func (s *Session) transition(to *State) {
	from := s.state
	s.state = to
	s.lastStateChange = s.Clock.Now()
	if from != to {
		s.emit(StateChange{From: from, To: to})
	}
}

// abort moves the session to ABORT, recording cause and publishing Aborted.
func (s *Session) abort(cause error) {
	s.errorCount++
	s.lastError = cause
	s.transition(StateAbort)
	s.emit(Aborted{Cause: cause})
}

// Snapshot is a read-only view of session state for diagnostics (storage
// adapter REPL, telemetry /snapshot route).
type Snapshot struct {
	State            string
	SubCounter       int
	IncomingIndex    int
	ErrorCount       int
	LastError        string
	LocalTrainerID   uint16
	LocalTrainerName string
}

// Snapshot returns a copy of the session's externally-visible state.
func (s *Session) Snapshot() Snapshot {
	last := ""
	if s.lastError != nil {
		last = s.lastError.Error()
	}
	return Snapshot{
		State:            s.state.Name,
		SubCounter:       s.subCounter,
		IncomingIndex:    s.incomingIndex,
		ErrorCount:       s.errorCount,
		LastError:        last,
		LocalTrainerID:   s.localTrainerID,
		LocalTrainerName: s.localTrainerName,
	}
}
