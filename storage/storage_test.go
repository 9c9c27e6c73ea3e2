package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/gbxlink/tradecenter/tradeblock"
	"github.com/gbxlink/tradecenter/tradecore"
)

func TestStoreAndList(t *testing.T) {
	tbl := NewTable(2, false)
	ctx := context.Background()

	id1, err := tbl.Store(ctx, tradeblock.PokemonCore{Species: 25}, "RED")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	id2, err := tbl.Store(ctx, tradeblock.PokemonCore{Species: 6}, "BLUE")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct slot ids")
	}

	entries := tbl.List()
	if len(entries) != 2 {
		t.Fatalf("List len = %d, want 2", len(entries))
	}
}

func TestStoreFullWithoutEviction(t *testing.T) {
	tbl := NewTable(1, false)
	ctx := context.Background()

	if _, err := tbl.Store(ctx, tradeblock.PokemonCore{Species: 25}, "RED"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := tbl.Store(ctx, tradeblock.PokemonCore{Species: 6}, "BLUE"); !errors.Is(err, tradecore.ErrStorageFull) {
		t.Fatalf("Store err = %v, want ErrStorageFull", err)
	}
}

func TestStoreEvictsOldestWhenEnabled(t *testing.T) {
	tbl := NewTable(1, true)
	ctx := context.Background()

	first, _ := tbl.Store(ctx, tradeblock.PokemonCore{Species: 25}, "RED")
	second, err := tbl.Store(ctx, tradeblock.PokemonCore{Species: 6}, "BLUE")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	entries := tbl.List()
	if len(entries) != 1 || entries[0].Slot != second {
		t.Fatalf("expected only %d to remain, got %v", second, entries)
	}
	for _, e := range entries {
		if e.Slot == first {
			t.Fatalf("oldest entry was not evicted")
		}
	}
}

func TestTakeOutgoing(t *testing.T) {
	tbl := NewTable(1, false)
	b := &tradeblock.Block{TrainerName: "RED"}
	tbl.SetOutgoing(b)

	got, err := tbl.TakeOutgoing(context.Background())
	if err != nil {
		t.Fatalf("TakeOutgoing: %v", err)
	}
	if got != b {
		t.Fatalf("TakeOutgoing returned a different block")
	}
}

func TestClear(t *testing.T) {
	tbl := NewTable(2, false)
	ctx := context.Background()
	tbl.Store(ctx, tradeblock.PokemonCore{Species: 25}, "RED")
	tbl.Clear()
	if len(tbl.List()) != 0 {
		t.Fatalf("List after Clear is non-empty")
	}
}
