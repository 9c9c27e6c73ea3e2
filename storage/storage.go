// This file contains the bounded Pokémon slot table adapter (spec.md §5,
// §6 "shared resources... storage slot table"), grounded in the original
// pico_pokemon_storage.c bounded array of pokemon_slot_t with an occupied
// flag and timestamp. Reworked here as a map keyed by monotonically
// increasing Slot IDs with an insertion-ordered eviction list, since Go
// gives us a real map instead of a fixed C array.

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/gbxlink/tradecenter/tradeblock"
	"github.com/gbxlink/tradecenter/tradecore"
)

// Slot identifies one stored Pokémon.
type Slot uint32

// Entry is one occupied slot.
type Entry struct {
	Slot      Slot
	Pokemon   tradeblock.PokemonCore
	Source    string
	StoredAt  time.Time
}

// Adapter persists received Pokémon and hands back the next outgoing
// block. It is the only component outside the engine that touches trade
// data after COMMIT.
type Adapter interface {
	// Store persists p, tagging it with a free-form source description
	// (e.g. a trainer name), and returns the slot it landed in.
	Store(ctx context.Context, p tradeblock.PokemonCore, source string) (Slot, error)

	// TakeOutgoing returns the block that should be offered in the next
	// trade attempt.
	TakeOutgoing(ctx context.Context) (*tradeblock.Block, error)
}

// Table is a bounded in-memory Adapter. The zero value is not usable; use
// NewTable. Table is safe for concurrent use.
type Table struct {
	mu       sync.Mutex
	capacity int
	evict    bool

	entries map[Slot]*Entry
	order   []Slot
	nextID  Slot

	outgoing *tradeblock.Block
}

// NewTable constructs a Table with room for capacity entries. If evict is
// true, Store silently drops the oldest entry to make room once full,
// matching the original firmware's always-evict behaviour; if false
// (the default posture this module recommends), Store returns
// tradecore.ErrStorageFull once full instead.
func NewTable(capacity int, evict bool) *Table {
	return &Table{
		capacity: capacity,
		evict:    evict,
		entries:  make(map[Slot]*Entry, capacity),
	}
}

func (t *Table) Store(ctx context.Context, p tradeblock.PokemonCore, source string) (Slot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) >= t.capacity {
		if !t.evict {
			return 0, tradecore.ErrStorageFull
		}
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.entries, oldest)
	}

	t.nextID++
	id := t.nextID
	t.entries[id] = &Entry{Slot: id, Pokemon: p, Source: source, StoredAt: time.Now()}
	t.order = append(t.order, id)
	return id, nil
}

// SetOutgoing sets the block TakeOutgoing will return. Typically called
// once at startup and again whenever the operator wants to offer a
// different Pokémon.
func (t *Table) SetOutgoing(b *tradeblock.Block) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outgoing = b
}

func (t *Table) TakeOutgoing(ctx context.Context) (*tradeblock.Block, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outgoing, nil
}

// List returns a snapshot of every occupied slot, oldest first.
func (t *Table) List() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.entries[id])
	}
	return out
}

// Clear empties the table.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[Slot]*Entry, t.capacity)
	t.order = nil
}
