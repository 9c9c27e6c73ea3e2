// This file contains the protocol state enumeration, modeled on the same
// Enum-table idiom as tradecore.ControlByte, since states too are worth
// logging by name.

package tradeengine

import "github.com/gbxlink/tradecenter/tradecore"

// State identifies a phase of the link-cable trade protocol.
type State struct {
	tradecore.Enum

	// ID is a small ordinal, stable within this package, used as a map key
	// and for quick equality checks. Never serialised across versions.
	ID int
}

// States is the full ordered state table (spec.md §4.3).
var States = []*State{
	{tradecore.Enum{Name: "Idle"}, 0},
	{tradecore.Enum{Name: "Negotiating"}, 1},
	{tradecore.Enum{Name: "Menu"}, 2},
	{tradecore.Enum{Name: "Ready"}, 3},
	{tradecore.Enum{Name: "Preamble In"}, 4},
	{tradecore.Enum{Name: "Randoms"}, 5},
	{tradecore.Enum{Name: "Block Swap"}, 6},
	{tradecore.Enum{Name: "Patch Swap"}, 7},
	{tradecore.Enum{Name: "Select"}, 8},
	{tradecore.Enum{Name: "Confirm"}, 9},
	{tradecore.Enum{Name: "Commit"}, 10},
	{tradecore.Enum{Name: "Abort"}, 11},
}

// Named states, for readable control flow in step.go.
var (
	StateIdle        = States[0]
	StateNegotiating = States[1]
	StateMenu        = States[2]
	StateReady       = States[3]
	StatePreambleIn  = States[4]
	StateRandoms     = States[5]
	StateBlockSwap   = States[6]
	StatePatchSwap   = States[7]
	StateSelect      = States[8]
	StateConfirm     = States[9]
	StateCommit      = States[10]
	StateAbort       = States[11]
)
