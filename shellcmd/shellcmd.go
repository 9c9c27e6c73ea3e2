// This file contains the interactive command shell adapter, grounded in
// the original pico_pokemon_storage_usb.c USB-serial command console
// ("list", "dump <slot>", "clear"), reimplemented as a bufio.Scanner REPL
// over storage.Table and a session snapshot function.

package shellcmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gbxlink/tradecenter/storage"
	"github.com/gbxlink/tradecenter/tradeengine"
)

// Shell reads commands from r and writes responses to w until r hits EOF
// or a "quit" command.
type Shell struct {
	table    *storage.Table
	snapshot func() tradeengine.Snapshot
	in       *bufio.Scanner
	out      io.Writer
}

// New builds a Shell reading from r, writing to w, inspecting table and
// snapshot on demand.
func New(r io.Reader, w io.Writer, table *storage.Table, snapshot func() tradeengine.Snapshot) *Shell {
	return &Shell{
		table:    table,
		snapshot: snapshot,
		in:       bufio.NewScanner(r),
		out:      w,
	}
}

// Run processes commands until EOF or "quit". It blocks the calling
// goroutine.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "tradecenterd shell; commands: list, dump <slot>, clear, status, quit")
	for s.in.Scan() {
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return nil
		}
		s.dispatch(line)
	}
	return s.in.Err()
}

func (s *Shell) dispatch(line string) {
	fields := strings.Fields(line)
	cmd := fields[0]

	switch cmd {
	case "list":
		s.cmdList()
	case "dump":
		s.cmdDump(fields[1:])
	case "clear":
		s.table.Clear()
		fmt.Fprintln(s.out, "storage cleared")
	case "status":
		s.cmdStatus()
	default:
		fmt.Fprintf(s.out, "unknown command: %s\n", cmd)
	}
}

func (s *Shell) cmdList() {
	entries := s.table.List()
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "(empty)")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "slot %d: species=%d level=%d source=%q\n", e.Slot, e.Pokemon.Species, e.Pokemon.Level, e.Source)
	}
}

func (s *Shell) cmdDump(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: dump <slot>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(s.out, "bad slot: %v\n", err)
		return
	}
	for _, e := range s.table.List() {
		if uint64(e.Slot) == id {
			fmt.Fprintf(s.out, "%+v\n", e.Pokemon)
			return
		}
	}
	fmt.Fprintf(s.out, "no such slot: %d\n", id)
}

func (s *Shell) cmdStatus() {
	snap := s.snapshot()
	fmt.Fprintf(s.out, "state=%s errors=%d last_error=%q trainer=%d/%q\n",
		snap.State, snap.ErrorCount, snap.LastError, snap.LocalTrainerID, snap.LocalTrainerName)
}
