// This file contains the Trade-Block Codec: Serialise/Parse between the
// host-order Block representation and the 415-byte wire format, plus a
// Validate helper (called by Parse) and a Checksum helper.
//
// Field layout and endianness are grounded in the original pokemon_data.h
// struct; the reader/writer pair is modeled directly on the teacher's
// repparser.sliceReader, with one deliberate inversion: every multi-byte
// field here is big-endian, the opposite of the teacher's replay format.
// Experience is the one exception, a 3-byte little-endian field embedded
// in the otherwise big-endian stream, matching the original layout exactly.

package tradeblock

import (
	"encoding/binary"
	"fmt"

	"github.com/gbxlink/tradecenter/charmap"
	"github.com/gbxlink/tradecenter/tradecore"
)

const nameFieldSize = 11

// sliceWriter aids writing data into a fixed 415-byte wire buffer.
type sliceWriter struct {
	b   []byte
	pos uint32
}

func (sw *sliceWriter) putByte(v byte) {
	sw.b[sw.pos] = v
	sw.pos++
}

func (sw *sliceWriter) putUint16BE(v uint16) {
	binary.BigEndian.PutUint16(sw.b[sw.pos:], v)
	sw.pos += 2
}

// putUint24LE writes the low 24 bits of v as three little-endian bytes,
// the one field in the block that breaks from big-endian (spec.md §3).
func (sw *sliceWriter) putUint24LE(v uint32) {
	sw.b[sw.pos] = byte(v)
	sw.b[sw.pos+1] = byte(v >> 8)
	sw.b[sw.pos+2] = byte(v >> 16)
	sw.pos += 3
}

func (sw *sliceWriter) putFixedName(s string) {
	charmap.EncodeFixed(sw.b[sw.pos:sw.pos+nameFieldSize], s)
	sw.pos += nameFieldSize
}

func (sw *sliceWriter) putSlice(v []byte) {
	sw.pos += uint32(copy(sw.b[sw.pos:], v))
}

// sliceReader aids reading data from the 415-byte wire buffer, modeled on
// repparser.sliceReader.
type sliceReader struct {
	b   []byte
	pos uint32
}

func (sr *sliceReader) getByte() (r byte) {
	r, sr.pos = sr.b[sr.pos], sr.pos+1
	return
}

func (sr *sliceReader) getUint16BE() (r uint16) {
	r, sr.pos = binary.BigEndian.Uint16(sr.b[sr.pos:]), sr.pos+2
	return
}

func (sr *sliceReader) getUint24LE() (r uint32) {
	b := sr.b[sr.pos:]
	r = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	sr.pos += 3
	return
}

func (sr *sliceReader) getFixedName() string {
	s := charmap.DecodeUntilTerminator(sr.b[sr.pos : sr.pos+nameFieldSize])
	sr.pos += nameFieldSize
	return s
}

func (sr *sliceReader) readSlice(size uint32) (r []byte) {
	r = make([]byte, size)
	sr.pos += uint32(copy(r, sr.b[sr.pos:]))
	return
}

func writeCore(sw *sliceWriter, p *PokemonCore) {
	sw.putByte(p.Species)
	sw.putUint16BE(p.CurrentHP)
	sw.putByte(p.Level)
	sw.putByte(p.Status)
	sw.putByte(p.Type1)
	sw.putByte(p.Type2)
	sw.putByte(p.CatchRate)
	sw.putSlice(p.Moves[:])
	sw.putUint16BE(p.OTID)
	sw.putUint24LE(p.Experience)
	for _, se := range p.StatExp {
		sw.putUint16BE(se)
	}
	sw.putSlice(p.IV[:])
	sw.putSlice(p.PP[:])
	sw.putByte(p.LevelCopy)
	for _, st := range p.Stats {
		sw.putUint16BE(st)
	}
}

func readCore(sr *sliceReader) PokemonCore {
	var p PokemonCore
	p.Species = sr.getByte()
	p.CurrentHP = sr.getUint16BE()
	p.Level = sr.getByte()
	p.Status = sr.getByte()
	p.Type1 = sr.getByte()
	p.Type2 = sr.getByte()
	p.CatchRate = sr.getByte()
	copy(p.Moves[:], sr.readSlice(4))
	p.OTID = sr.getUint16BE()
	p.Experience = sr.getUint24LE()
	for i := range p.StatExp {
		p.StatExp[i] = sr.getUint16BE()
	}
	copy(p.IV[:], sr.readSlice(2))
	copy(p.PP[:], sr.readSlice(4))
	p.LevelCopy = sr.getByte()
	for i := range p.Stats {
		p.Stats[i] = sr.getUint16BE()
	}
	return p
}

// Serialise writes b's wire representation. It does not validate b; callers
// that need a guaranteed-valid wire form should Validate first.
func Serialise(b *Block) [tradecore.TradeBlockSize]byte {
	var wire [tradecore.TradeBlockSize]byte
	sw := &sliceWriter{b: wire[:]}

	sw.putFixedName(b.TrainerName)
	sw.putByte(b.PartyCount)
	sw.putSlice(b.PartySpecies[:])
	for i := range b.Pokemon {
		writeCore(sw, &b.Pokemon[i])
	}
	for i := range b.OTNames {
		sw.putFixedName(b.OTNames[i])
	}
	for i := range b.Nicknames {
		sw.putFixedName(b.Nicknames[i])
	}

	return wire
}

// Parse reads a Block out of wire and checks it with Validate. A non-nil
// error is always tradecore.ErrBlockInvalid, wrapped with the specific
// failing check.
func Parse(wire [tradecore.TradeBlockSize]byte) (*Block, error) {
	sr := &sliceReader{b: wire[:]}
	b := &Block{}

	b.TrainerName = sr.getFixedName()
	b.PartyCount = sr.getByte()
	copy(b.PartySpecies[:], sr.readSlice(7))
	for i := range b.Pokemon {
		b.Pokemon[i] = readCore(sr)
	}
	for i := range b.OTNames {
		b.OTNames[i] = sr.getFixedName()
	}
	for i := range b.Nicknames {
		b.Nicknames[i] = sr.getFixedName()
	}

	if err := Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the party count is in [1,6], party_species[0] matches
// pokemon[0].species, the species list is 0xFF-filled past the party count,
// and, for each party member, level == level_copy, species is in [1,151]
// and current HP does not exceed max HP. Name fields are not checked: a
// Block holds names as decoded strings, so their wire terminators are not
// visible here. Parse calls it on every parsed block.
func Validate(b *Block) error {
	if b.PartyCount < 1 || b.PartyCount > PartySize {
		return fmt.Errorf("%w: party count %d out of range [1,6]", tradecore.ErrBlockInvalid, b.PartyCount)
	}
	if b.PartySpecies[0] != b.Pokemon[0].Species {
		return fmt.Errorf("%w: party_species[0]=%d != pokemon[0].species=%d",
			tradecore.ErrBlockInvalid, b.PartySpecies[0], b.Pokemon[0].Species)
	}
	for i := int(b.PartyCount); i < len(b.PartySpecies); i++ {
		if b.PartySpecies[i] != 0xFF {
			return fmt.Errorf("%w: party_species[%d]=%#x, want 0xff tail fill", tradecore.ErrBlockInvalid, i, b.PartySpecies[i])
		}
	}
	for i := 0; i < int(b.PartyCount); i++ {
		p := &b.Pokemon[i]
		if p.Level != p.LevelCopy {
			return fmt.Errorf("%w: pokemon[%d] level=%d != level_copy=%d", tradecore.ErrBlockInvalid, i, p.Level, p.LevelCopy)
		}
		if p.Species < 1 || p.Species > 151 {
			return fmt.Errorf("%w: pokemon[%d] species %d out of range [1,151]", tradecore.ErrBlockInvalid, i, p.Species)
		}
		maxHP := p.Stats[0]
		if p.CurrentHP > maxHP {
			return fmt.Errorf("%w: pokemon[%d] current_hp %d > max_hp %d", tradecore.ErrBlockInvalid, i, p.CurrentHP, maxHP)
		}
	}
	return nil
}

// Checksum returns a simple additive checksum over the wire form of b,
// grounded in pokemon_calculate_checksum. It is not a protocol integrity
// field (the link-cable protocol carries none).
func Checksum(b *Block) byte {
	wire := Serialise(b)
	var sum byte
	for _, v := range wire {
		sum += v
	}
	return sum
}
