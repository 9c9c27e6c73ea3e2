package driver

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gbxlink/tradecenter/link"
	"github.com/gbxlink/tradecenter/tradeblock"
	"github.com/gbxlink/tradecenter/tradecore"
	"github.com/gbxlink/tradecenter/tradeengine"
)

func block(trainer string) *tradeblock.Block {
	b := &tradeblock.Block{
		TrainerName:  trainer,
		PartyCount:   1,
		PartySpecies: [7]byte{25, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	}
	b.Pokemon[0] = tradeblock.PokemonCore{Species: 25, CurrentHP: 35, Level: 10, LevelCopy: 10, Stats: [5]uint16{35, 20, 18, 25, 20}}
	for i := 1; i < len(b.Pokemon); i++ {
		b.Pokemon[i] = tradeblock.PokemonCore{Species: 1, Level: 1, LevelCopy: 1, Stats: [5]uint16{1, 1, 1, 1, 1}}
	}
	for i := range b.OTNames {
		b.OTNames[i] = trainer
		b.Nicknames[i] = "BUDDY"
	}
	return b
}

// TestRunEndToEndS4AndCommit scripts a full handshake through to COMMIT
// (the driver.Run side of the S4 scenario) over a link.Scripted transport.
func TestRunEndToEndS4AndCommit(t *testing.T) {
	sess := tradeengine.NewSession(nil, tradeengine.NopSink{})
	sess.SetOutgoingBlock(block("RED"))

	var script []byte
	script = append(script, tradecore.Master, tradecore.Connected, tradecore.MenuTradeCenterSelected)
	for i := 0; i < tradecore.SerialRNSLength; i++ {
		script = append(script, tradecore.Preamble)
	}
	for i := 0; i < 10; i++ {
		script = append(script, byte(i))
	}
	for i := 0; i < tradecore.SerialTradeBlockPreambleLength; i++ {
		script = append(script, tradecore.Preamble)
	}
	incoming := tradeblock.Serialise(block("BLUE"))
	script = append(script, incoming[:]...)
	// PATCH_SWAP: both sides have empty patch lists, so a single PATCH_TERM
	// each closes positions and values.
	script = append(script, tradecore.PatchTerm, tradecore.PatchTerm)
	script = append(script, tradecore.SelMonBase, tradecore.TradeAccept, tradecore.Blank)

	transport := link.NewScripted(script)

	var committed int
	err := Run(context.Background(), transport, sess, zerolog.Nop(), func(tradeengine.Committed) {
		committed++
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if committed != 1 {
		t.Fatalf("committed = %d, want 1", committed)
	}
	if sess.State() != tradeengine.StateIdle {
		t.Errorf("final state = %s, want Idle (reset after commit, no further bytes)", sess.State())
	}
}

// TestRunWatchdogResetsOnCancelMidTrade checks that cancelling ctx while the
// session is mid-trade resets it to IDLE via Session.WatchdogReset rather
// than leaving it stuck in whatever state it was in.
func TestRunWatchdogResetsOnCancelMidTrade(t *testing.T) {
	sess := tradeengine.NewSession(nil, tradeengine.NopSink{})
	sess.SetOutgoingBlock(block("RED"))
	sess.Step(tradecore.Master) // advance out of Idle

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transport := link.NewScripted(nil)
	err := Run(ctx, transport, sess, zerolog.Nop(), nil)
	if err == nil {
		t.Fatalf("Run: want a non-nil error from the cancelled context")
	}
	if sess.State() != tradeengine.StateIdle {
		t.Errorf("state after cancelled Run = %s, want Idle (watchdog reset)", sess.State())
	}
}
