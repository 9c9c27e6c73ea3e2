package shellcmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gbxlink/tradecenter/storage"
	"github.com/gbxlink/tradecenter/tradeblock"
	"github.com/gbxlink/tradecenter/tradeengine"
)

func TestListAndDump(t *testing.T) {
	tbl := storage.NewTable(4, false)
	id, _ := tbl.Store(context.Background(), tradeblock.PokemonCore{Species: 25, Level: 12}, "RED")

	var out bytes.Buffer
	in := strings.NewReader(fmt.Sprintf("list\ndump %d\nquit\n", id))
	sh := New(in, &out, tbl, func() tradeengine.Snapshot { return tradeengine.Snapshot{State: "Idle"} })

	if err := sh.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "species=25") {
		t.Errorf("list output missing entry: %q", got)
	}
	if !strings.Contains(got, "Species:25") {
		t.Errorf("dump output missing pokemon: %q", got)
	}
}

func TestStatusAndClear(t *testing.T) {
	tbl := storage.NewTable(4, false)
	tbl.Store(context.Background(), tradeblock.PokemonCore{Species: 1}, "RED")

	var out bytes.Buffer
	in := strings.NewReader("status\nclear\nlist\nquit\n")
	sh := New(in, &out, tbl, func() tradeengine.Snapshot {
		return tradeengine.Snapshot{State: "Menu", ErrorCount: 2}
	})

	if err := sh.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "state=Menu") {
		t.Errorf("status output missing state: %q", got)
	}
	if !strings.Contains(got, "(empty)") {
		t.Errorf("expected empty list after clear: %q", got)
	}
}
