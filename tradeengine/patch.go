// This file contains the PATCH_SWAP supplement (spec.md §4.3, §9 Open
// Question 1): NO_DATA placeholder substitution on the outgoing side, and
// restoration of the peer's substituted bytes once their patch list
// arrives. Grounded in the positions+values pairing implied by the
// glossary's "Patch list" entry: a list of positions plus the data needed
// to restore them.

package tradeengine

import "github.com/gbxlink/tradecenter/tradecore"

// prepareOutgoingWire takes the serialised outgoing block, substitutes every
// NO_DATA (0xFE) byte with BLANK, records the substitution in s.ownPatch so
// it can be handed to the peer during PATCH_SWAP, and stores the result in
// s.outgoingWire.
func (s *Session) prepareOutgoingWire(wire [tradecore.TradeBlockSize]byte) {
	s.ownPatch.reset()
	for i, b := range wire {
		if b == tradecore.NoData {
			s.ownPatch.positions = append(s.ownPatch.positions, uint16(i))
			s.ownPatch.values = append(s.ownPatch.values, b)
			wire[i] = tradecore.Blank
		}
	}
	s.outgoingWire = wire
}

// stepPatchPositions advances the positions-list exchange: our own position
// list goes out as tx two bytes per position (big-endian, high byte first),
// the peer's incoming stream is reassembled the same way into
// peerPatch.positions until PATCH_TERM is seen from them at a pair boundary.
// TradeBlockSize (415) never lets a position's high byte reach 0xFF, so
// PATCH_TERM is unambiguous as long as it is only checked there — never
// mid-pair, where a legitimate low byte (e.g. position 255's 0x00FF) could
// equal 0xFF too.
func (s *Session) stepPatchPositions(rx byte) (tx byte) {
	pe := &s.patchPositions
	if !pe.recvDone {
		if !pe.recvHaveHigh {
			if rx == tradecore.PatchTerm {
				pe.recvDone = true
			} else {
				pe.recvHigh = rx
				pe.recvHaveHigh = true
			}
		} else {
			pos := uint16(pe.recvHigh)<<8 | uint16(rx)
			s.peerPatch.positions = append(s.peerPatch.positions, pos)
			pe.recvHaveHigh = false
		}
	}

	if pe.sendIdx < len(s.ownPatch.positions) {
		pos := s.ownPatch.positions[pe.sendIdx]
		if !pe.sendHighSent {
			tx = byte(pos >> 8)
			pe.sendHighSent = true
		} else {
			tx = byte(pos)
			pe.sendHighSent = false
			pe.sendIdx++
		}
	} else {
		tx = tradecore.PatchTerm
		pe.sendDone = true
	}
	return
}

// stepPatchValues mirrors stepPatchPositions for the restoration values.
func (s *Session) stepPatchValues(rx byte) (tx byte) {
	if rx == tradecore.PatchTerm {
		s.patchValues.recvDone = true
	} else if !s.patchValues.recvDone {
		s.peerPatch.values = append(s.peerPatch.values, rx)
	}

	if s.patchValues.sendIdx < len(s.ownPatch.values) {
		tx = s.ownPatch.values[s.patchValues.sendIdx]
		s.patchValues.sendIdx++
	} else {
		tx = tradecore.PatchTerm
		s.patchValues.sendDone = true
	}
	return
}

// patchPositionsComplete reports whether both sides have finished
// exchanging the positions list.
func (s *Session) patchPositionsComplete() bool {
	return s.patchPositions.sendDone && s.patchPositions.recvDone
}

// patchValuesComplete reports whether both sides have finished exchanging
// the values list.
func (s *Session) patchValuesComplete() bool {
	return s.patchValues.sendDone && s.patchValues.recvDone
}

// applyPeerPatch restores the peer's substituted bytes into buf using the
// received positions/values lists. Mismatched list lengths restore as many
// pairs as both lists agree on; the remainder is left untouched, and
// positions outside the block are skipped (a malformed patch list cannot
// corrupt data outside its own entries).
func (s *Session) applyPeerPatch(buf *[tradecore.TradeBlockSize]byte) {
	n := len(s.peerPatch.positions)
	if len(s.peerPatch.values) < n {
		n = len(s.peerPatch.values)
	}
	for i := 0; i < n; i++ {
		pos := s.peerPatch.positions[i]
		if int(pos) >= len(buf) {
			continue
		}
		buf[pos] = s.peerPatch.values[i]
	}
}
