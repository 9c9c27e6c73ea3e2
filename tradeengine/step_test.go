package tradeengine

import (
	"errors"
	"testing"
	"time"

	"github.com/gbxlink/tradecenter/tradeblock"
	"github.com/gbxlink/tradecenter/tradecore"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Publish(ev Event) {
	r.events = append(r.events, ev)
}

func newTestSession() (*Session, *recordingSink) {
	sink := &recordingSink{}
	s := NewSession(fixedClock{}, sink)
	return s, sink
}

func sampleBlock() *tradeblock.Block {
	b := &tradeblock.Block{
		TrainerName:  "RED",
		PartyCount:   1,
		PartySpecies: [7]byte{25, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	}
	b.Pokemon[0] = tradeblock.PokemonCore{
		Species: 25, CurrentHP: 35, Level: 10, LevelCopy: 10,
		Stats: [5]uint16{35, 20, 18, 25, 20},
	}
	for i := 1; i < len(b.Pokemon); i++ {
		b.Pokemon[i] = tradeblock.PokemonCore{Species: 1, Level: 1, LevelCopy: 1, Stats: [5]uint16{1, 1, 1, 1, 1}}
	}
	for i := range b.OTNames {
		b.OTNames[i] = "RED"
		b.Nicknames[i] = "PIKA"
	}
	return b
}

// TestTotality checks Step never panics and always returns a byte for
// every state and every possible rx value.
func TestTotality(t *testing.T) {
	states := []*State{
		StateIdle, StateNegotiating, StateMenu, StateReady, StatePreambleIn,
		StateRandoms, StateBlockSwap, StatePatchSwap, StateSelect, StateConfirm,
		StateCommit, StateAbort,
	}

	for _, st := range states {
		s, _ := newTestSession()
		s.SetOutgoingBlock(sampleBlock())
		s.state = st
		for b := 0; b < 256; b++ {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("Step panicked in state %s with rx %#x: %v", st.Name, b, r)
					}
				}()
				s.Step(byte(b))
			}()
		}
	}
}

func TestS1Handshake(t *testing.T) {
	s, _ := newTestSession()
	tx, _ := s.Step(tradecore.Master)
	if tx != tradecore.Slave {
		t.Errorf("tx = %#x, want Slave", tx)
	}
	if s.State() != StateNegotiating {
		t.Errorf("state = %s, want Negotiating", s.State())
	}
}

func TestS2MenuSelect(t *testing.T) {
	s, _ := newTestSession()
	seq := []byte{tradecore.Master, tradecore.Connected, tradecore.MenuTradeCenterHighlighted, tradecore.MenuTradeCenterSelected}
	want := []byte{tradecore.Slave, tradecore.Connected, tradecore.MenuTradeCenterHighlighted, tradecore.Blank}

	for i, rx := range seq {
		tx, _ := s.Step(rx)
		if tx != want[i] {
			t.Errorf("step %d: tx = %#x, want %#x", i, tx, want[i])
		}
	}
	if s.State() != StateReady {
		t.Errorf("state = %s, want Ready", s.State())
	}
}

func TestS3Preamble(t *testing.T) {
	s, _ := newTestSession()
	s.state = StateReady

	for i := 0; i < tradecore.SerialRNSLength; i++ {
		tx, _ := s.Step(tradecore.Preamble)
		if tx != tradecore.Preamble {
			t.Fatalf("step %d: tx = %#x, want Preamble", i, tx)
		}
	}
	if s.State() != StateRandoms {
		t.Errorf("state = %s, want Randoms", s.State())
	}
	if s.subCounter != 0 {
		t.Errorf("subCounter = %d, want 0", s.subCounter)
	}
}

func TestS4FullBlockSwap(t *testing.T) {
	s, _ := newTestSession()
	s.SetOutgoingBlock(sampleBlock())
	s.state = StateReady

	for i := 0; i < tradecore.SerialRNSLength; i++ {
		s.Step(tradecore.Preamble)
	}
	if s.State() != StateRandoms {
		t.Fatalf("state = %s, want Randoms", s.State())
	}

	for i := 0; i < 10; i++ {
		s.Step(byte(i))
	}
	for i := 0; i < tradecore.SerialTradeBlockPreambleLength; i++ {
		s.Step(tradecore.Preamble)
	}
	if s.State() != StateBlockSwap {
		t.Fatalf("state = %s, want BlockSwap", s.State())
	}

	wantTx := s.outgoingWire

	incomingBlock := sampleBlock()
	incomingBlock.TrainerName = "BLUE"
	incomingWire := tradeblock.Serialise(incomingBlock)

	var gotTx []byte
	for _, b := range incomingWire {
		tx, _ := s.Step(b)
		gotTx = append(gotTx, tx)
	}

	for i := range wantTx {
		if gotTx[i] != wantTx[i] {
			t.Fatalf("tx[%d] = %#x, want %#x (outgoing wire)", i, gotTx[i], wantTx[i])
		}
	}

	if s.State() != StatePatchSwap {
		t.Fatalf("state = %s, want PatchSwap", s.State())
	}
	if s.receivedBlock == nil {
		t.Fatalf("receivedBlock is nil")
	}
	if s.receivedBlock.TrainerName != "BLUE" {
		t.Errorf("receivedBlock.TrainerName = %q, want %q", s.receivedBlock.TrainerName, "BLUE")
	}
}

func TestS5CancelMidMenu(t *testing.T) {
	s, sink := newTestSession()
	s.state = StateMenu

	tx, events := s.Step(tradecore.MenuCancelSelected)
	if tx != tradecore.MenuCancelSelected {
		t.Errorf("tx = %#x, want MenuCancelSelected echo", tx)
	}

	foundAborted := false
	for _, ev := range events {
		if a, ok := ev.(Aborted); ok {
			foundAborted = true
			if !errors.Is(a.Cause, tradecore.ErrPeerCancelled) {
				t.Errorf("Aborted.Cause = %v, want ErrPeerCancelled", a.Cause)
			}
		}
	}
	if !foundAborted {
		t.Errorf("no Aborted event published")
	}
	if len(sink.events) == 0 {
		t.Errorf("sink received no events")
	}

	// next RX resets to idle
	s.Step(0x00)
	if s.State() != StateIdle {
		t.Errorf("state after abort+1 = %s, want Idle", s.State())
	}
}

func TestS6Accept(t *testing.T) {
	s, _ := newTestSession()
	s.state = StateConfirm
	s.receivedBlock = sampleBlock()
	s.outgoingBlock = sampleBlock()

	tx, events := s.Step(tradecore.TradeAccept)
	if tx != tradecore.TradeAccept {
		t.Errorf("tx = %#x, want TradeAccept", tx)
	}

	found := false
	for _, ev := range events {
		if _, ok := ev.(Committed); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("no Committed event published")
	}
	if s.State() != StateCommit {
		t.Errorf("state = %s, want Commit", s.State())
	}

	s.Step(0x00)
	if s.State() != StateIdle {
		t.Errorf("state after commit+1 = %s, want Idle", s.State())
	}
}

func TestCancelIdempotence(t *testing.T) {
	states := []*State{StateMenu, StateSelect, StateConfirm}
	cancelBytes := map[*State]byte{
		StateMenu:    tradecore.MenuCancelSelected,
		StateSelect:  tradecore.TableLeave,
		StateConfirm: tradecore.TableLeave,
	}

	for _, st := range states {
		s, _ := newTestSession()
		s.state = st
		s.Step(cancelBytes[st])
		if s.State() != StateAbort {
			t.Fatalf("state after cancel in %s = %s, want Abort", st.Name, s.State())
		}
		s.Step(0x00)
		if s.State() != StateIdle {
			t.Fatalf("state two steps after cancel in %s = %s, want Idle", st.Name, s.State())
		}
	}
}

func TestCommitAtomicity(t *testing.T) {
	s, _ := newTestSession()
	s.state = StateConfirm
	s.receivedBlock = sampleBlock()
	s.outgoingBlock = sampleBlock()

	commits := 0
	_, events := s.Step(tradecore.TradeAccept)
	for _, ev := range events {
		if _, ok := ev.(Committed); ok {
			commits++
		}
	}
	if commits != 1 {
		t.Fatalf("commits = %d, want 1", commits)
	}

	// further steps (post-reset) must not re-fire Committed
	_, events = s.Step(0x00) // reset to idle
	for _, ev := range events {
		if _, ok := ev.(Committed); ok {
			t.Fatalf("Committed fired again after reset")
		}
	}
}

func TestWatchdogReset(t *testing.T) {
	s, _ := newTestSession()
	s.state = StateBlockSwap
	s.incomingIndex = 12
	before := s.errorCount

	s.WatchdogReset()

	if s.State() != StateIdle {
		t.Errorf("state = %s, want Idle", s.State())
	}
	if s.errorCount != before+1 {
		t.Errorf("errorCount = %d, want %d", s.errorCount, before+1)
	}
	if !errors.Is(s.lastError, tradecore.ErrWatchdogReset) {
		t.Errorf("lastError = %v, want ErrWatchdogReset", s.lastError)
	}

	// already idle: no-op, no extra error counted
	s.WatchdogReset()
	if s.errorCount != before+1 {
		t.Errorf("errorCount after idle WatchdogReset = %d, want %d (no-op)", s.errorCount, before+1)
	}
}

func TestBlockInvalidAborts(t *testing.T) {
	s, _ := newTestSession()
	s.SetOutgoingBlock(sampleBlock())
	s.state = StateBlockSwap
	s.incomingIndex = 0
	s.beginBlockSwap()

	bad := sampleBlock()
	bad.PartyCount = 0 // invalid
	badWire := tradeblock.Serialise(bad)

	var gotAbort bool
	for _, b := range badWire {
		_, events := s.Step(b)
		for _, ev := range events {
			if a, ok := ev.(Aborted); ok {
				gotAbort = true
				if !errors.Is(a.Cause, tradecore.ErrBlockInvalid) {
					t.Errorf("Aborted.Cause = %v, want ErrBlockInvalid", a.Cause)
				}
			}
		}
	}
	if !gotAbort {
		t.Fatalf("no Aborted event for invalid block")
	}
	if s.State() != StateAbort {
		t.Errorf("state = %s, want Abort", s.State())
	}
}
