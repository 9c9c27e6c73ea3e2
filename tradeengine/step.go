// This file contains Step, the protocol state machine's sole entry point
// (spec.md §4.3). Step is total: every state handles every byte value,
// panics never happen, and exactly one tx byte comes back per rx byte.

package tradeengine

import (
	"github.com/gbxlink/tradecenter/tradeblock"
	"github.com/gbxlink/tradecenter/tradecore"
)

// Step feeds one byte from the peer into the session and returns the byte
// to send back, plus any events raised while processing it.
func (s *Session) Step(rx byte) (tx byte, events []Event) {
	s.pendingEvents = s.pendingEvents[:0]
	phase := s.state
	blockIndex := s.incomingIndex

	switch s.state {
	case StateIdle:
		tx = s.stepIdle(rx)
	case StateNegotiating:
		tx = s.stepNegotiating(rx)
	case StateMenu:
		tx = s.stepMenu(rx)
	case StateReady:
		tx = s.stepReady(rx)
	case StatePreambleIn:
		tx = s.stepPreambleIn(rx)
	case StateRandoms:
		tx = s.stepRandoms(rx)
	case StateBlockSwap:
		tx = s.stepBlockSwap(rx)
	case StatePatchSwap:
		tx = s.stepPatchSwap(rx)
	case StateSelect:
		tx = s.stepSelect(rx)
	case StateConfirm:
		tx = s.stepConfirm(rx)
	case StateCommit:
		s.Reset()
		tx = tradecore.Blank
	case StateAbort:
		s.Reset()
		tx = tradecore.Blank
	default:
		tx = tradecore.Blank
	}

	index := s.subCounter
	if phase == StateBlockSwap {
		index = blockIndex
	}
	s.emit(ByteExchanged{RX: rx, TX: tx, Phase: phase, Index: index})
	return tx, s.drainEvents()
}

func (s *Session) drainEvents() []Event {
	out := s.pendingEvents
	s.pendingEvents = nil
	return out
}

func (s *Session) stepIdle(rx byte) byte {
	switch {
	case rx == tradecore.Master:
		s.transition(StateNegotiating)
		return tradecore.Slave
	case rx == tradecore.Connected:
		s.transition(StateMenu)
		return tradecore.Connected
	case rx == tradecore.Preamble:
		s.subCounter = 1
		s.transition(StatePreambleIn)
		return tradecore.Preamble
	case tradecore.IsMenuHighlight(rx):
		s.transition(StateMenu)
		return rx
	default:
		return tradecore.Blank
	}
}

func (s *Session) stepNegotiating(rx byte) byte {
	switch rx {
	case tradecore.Master:
		s.transition(StateIdle)
		return rx
	case tradecore.Connected:
		s.transition(StateMenu)
		return rx
	default:
		return rx
	}
}

func (s *Session) stepMenu(rx byte) byte {
	switch rx {
	case tradecore.MenuTradeCenterSelected:
		s.transition(StateReady)
		return tradecore.Blank
	case tradecore.MenuCancelSelected:
		s.abort(tradecore.ErrPeerCancelled)
		return rx
	case tradecore.TableLeave:
		s.transition(StateIdle)
		return rx
	default:
		return rx
	}
}

func (s *Session) stepReady(rx byte) byte {
	if rx == tradecore.Preamble {
		s.subCounter = 1
		s.transition(StatePreambleIn)
		return tradecore.Preamble
	}
	return rx
}

func (s *Session) stepPreambleIn(rx byte) byte {
	if rx != tradecore.Preamble {
		s.abort(tradecore.ErrUnexpectedInPreamble)
		return rx
	}
	s.subCounter++
	if s.subCounter >= tradecore.SerialRNSLength {
		s.subCounter = 0
		s.transition(StateRandoms)
	}
	return tradecore.Preamble
}

func (s *Session) stepRandoms(rx byte) byte {
	if rx == tradecore.MenuCancelSelected {
		s.abort(tradecore.ErrPeerCancelled)
		return rx
	}

	s.subCounter++
	total := tradecore.SerialRNSLength + tradecore.SerialTradeBlockPreambleLength
	if s.subCounter >= total {
		s.subCounter = 0
		s.incomingIndex = 0
		s.incoming = [tradecore.TradeBlockSize]byte{}
		s.beginBlockSwap()
		s.transition(StateBlockSwap)
	}
	return rx
}

// beginBlockSwap serialises and NO_DATA-patches the outgoing block, ready
// to be streamed out byte-for-byte in stepBlockSwap.
func (s *Session) beginBlockSwap() {
	var wire [tradecore.TradeBlockSize]byte
	if s.outgoingBlock != nil {
		wire = tradeblock.Serialise(s.outgoingBlock)
	}
	s.prepareOutgoingWire(wire)
}

func (s *Session) stepBlockSwap(rx byte) byte {
	i := s.incomingIndex
	s.incoming[i] = rx
	tx := s.outgoingWire[i]
	s.incomingIndex++

	if s.incomingIndex == tradecore.TradeBlockSize {
		block, err := tradeblock.Parse(s.incoming)
		if err != nil {
			s.abort(tradecore.ErrBlockInvalid)
			return tx
		}
		s.receivedBlock = block
		s.patchPositions.reset()
		s.patchValues.reset()
		s.peerPatch.reset()
		s.subCounter = 0
		s.transition(StatePatchSwap)
	}
	return tx
}

func (s *Session) stepPatchSwap(rx byte) byte {
	if rx == tradecore.MenuCancelSelected || rx == tradecore.TableLeave {
		s.abort(tradecore.ErrPeerCancelled)
		return rx
	}

	var tx byte
	switch {
	case !s.patchPositionsComplete():
		tx = s.stepPatchPositions(rx)
	case !s.patchValuesComplete():
		tx = s.stepPatchValues(rx)
	default:
		tx = tradecore.PatchTerm
	}

	if s.patchPositionsComplete() && s.patchValuesComplete() {
		if s.receivedBlock != nil {
			wire := s.incoming
			s.applyPeerPatch(&wire)
			if block, err := tradeblock.Parse(wire); err == nil {
				s.receivedBlock = block
			}
		}
		s.emit(BlockReceived{Block: s.receivedBlock})
		s.transition(StateSelect)
	}
	return tx
}

func (s *Session) stepSelect(rx byte) byte {
	switch {
	case rx == tradecore.TradeReject:
		return rx
	case rx == tradecore.TableLeave:
		s.abort(tradecore.ErrPeerCancelled)
		return rx
	default:
		if _, ok := tradecore.IsSelectMon(rx); ok {
			s.transition(StateConfirm)
			return tradecore.SelMonBase
		}
		return rx
	}
}

func (s *Session) stepConfirm(rx byte) byte {
	switch rx {
	case tradecore.TradeAccept:
		s.emit(Committed{Received: s.receivedBlock, Sent: s.outgoingBlock})
		s.transition(StateCommit)
		return tradecore.TradeAccept
	case tradecore.TradeReject:
		s.transition(StateSelect)
		return rx
	case tradecore.TableLeave:
		s.abort(tradecore.ErrPeerCancelled)
		return rx
	default:
		return rx
	}
}
