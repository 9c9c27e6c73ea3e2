// This file contains the well-known link-cable protocol bytes (spec.md §4.3)
// modeled the way the teacher models StarCraft command type IDs: a byte
// constant per value, a named table of them, and a ByID lookup that falls
// back to an "Unknown" entry instead of failing.
//
// ControlByte values exist for event readability and logging only. Step's
// control flow always switches on the raw byte, never on a *ControlByte -
// unrecognized bytes must still be handled (echoed) without a registered
// entry to look up.

package tradecore

// Well-known link-cable protocol byte values.
const (
	Blank       byte = 0x00 // Idle / ack / padding
	Master      byte = 0x01 // Peer claims master
	Slave       byte = 0x02 // Peer acknowledges as slave
	Connected   byte = 0x60 // Cable Club greeting
	TradeReject byte = 0x61 // Reject / reselect
	TradeAccept byte = 0x62 // Accept offered Pokémon
	TableLeave  byte = 0x6F // Leave the trade table

	SelMonBase byte = 0x60 // Bitmask base for "select party index N", N = byte & 0x0F
	SelMonMask byte = 0x0F

	MenuTradeCenterHighlighted byte = 0xD0
	MenuColosseumHighlighted   byte = 0xD1
	MenuCancelHighlighted      byte = 0xD2
	MenuTradeCenterSelected    byte = 0xD4
	MenuColosseumSelected      byte = 0xD5
	MenuCancelSelected         byte = 0xD6

	Preamble  byte = 0xFD // Frame delimiter
	PatchTerm byte = 0xFF // Patch-list terminator
	NoData    byte = 0xFE // Reserved placeholder byte in patched data
)

// Protocol-wide byte counts (spec.md §6).
const (
	// SerialRNSLength is the number of PREAMBLE bytes that open PREAMBLE_IN,
	// and the number of random bytes exchanged at the start of RANDOMS.
	SerialRNSLength = 10

	// SerialTradeBlockPreambleLength is the number of PREAMBLE bytes that
	// close out RANDOMS, immediately before BLOCK_SWAP.
	SerialTradeBlockPreambleLength = 9

	// TradeBlockSize is the size in bytes of the serialised trade block.
	TradeBlockSize = 415
)

// ControlByte names a well-known protocol byte for logging and events.
type ControlByte struct {
	Enum

	// ID as it appears on the wire
	ID byte
}

// e creates a new Enum value.
func e(name string) Enum {
	return Enum{Name: name}
}

// ControlBytes is an enumeration of the named protocol bytes.
var ControlBytes = []*ControlByte{
	{e("Blank"), Blank},
	{e("Master"), Master},
	{e("Slave"), Slave},
	{e("Connected"), Connected},
	{e("Trade Reject"), TradeReject},
	{e("Trade Accept"), TradeAccept},
	{e("Table Leave"), TableLeave},
	{e("Menu Trade Center Highlighted"), MenuTradeCenterHighlighted},
	{e("Menu Colosseum Highlighted"), MenuColosseumHighlighted},
	{e("Menu Cancel Highlighted"), MenuCancelHighlighted},
	{e("Menu Trade Center Selected"), MenuTradeCenterSelected},
	{e("Menu Colosseum Selected"), MenuColosseumSelected},
	{e("Menu Cancel Selected"), MenuCancelSelected},
	{e("Preamble"), Preamble},
	{e("Patch Terminator"), PatchTerm},
	{e("No Data"), NoData},
}

// controlByteByID maps from byte value to its ControlByte.
var controlByteByID = map[byte]*ControlByte{}

func init() {
	for _, cb := range ControlBytes {
		controlByteByID[cb.ID] = cb
	}
}

// ControlByteByID returns the ControlByte for a given wire value.
// A new ControlByte with an "Unknown" name is returned if the value isn't
// one of the named protocol bytes (preserving the value).
func ControlByteByID(id byte) *ControlByte {
	if cb := controlByteByID[id]; cb != nil {
		return cb
	}
	return &ControlByte{UnknownEnum(id), id}
}

// IsSelectMon tells if b selects a party index (spec.md §4.3 SELECT).
func IsSelectMon(b byte) (index byte, ok bool) {
	if b&0xF0 == SelMonBase {
		return b & SelMonMask, true
	}
	return 0, false
}

// IsMenuHighlight tells if b is one of the 0xD0-0xD2 menu highlight bytes.
func IsMenuHighlight(b byte) bool {
	return b == MenuTradeCenterHighlighted || b == MenuColosseumHighlighted || b == MenuCancelHighlighted
}
