// This file contains the Trade-Block data types: the in-memory,
// host-order representation of a trade block and its six Pokémon core
// records. The wire format only exists at the codec boundary (codec.go) —
// nothing outside this package should ever see a packed byte layout.

package tradeblock

// PartySize is the number of party slots a trade block always reserves,
// whether or not they're all occupied.
const PartySize = 6

// PokemonCore is the 44-byte-on-wire per-Pokémon record.
type PokemonCore struct {
	Species    byte
	CurrentHP  uint16
	Level      byte
	Status     byte
	Type1      byte
	Type2      byte
	CatchRate  byte
	Moves      [4]byte
	OTID       uint16
	Experience uint32 // low 24 bits significant; 3-byte LE field on the wire
	StatExp    [5]uint16
	IV         [2]byte
	PP         [4]byte
	LevelCopy  byte
	Stats      [5]uint16 // max HP, attack, defense, speed, special
}

// Block is the in-memory, host-order representation of a 415-byte trade
// block: one trainer's party plus the names that go with it.
type Block struct {
	TrainerName  string
	PartyCount   byte
	PartySpecies [7]byte // index >= PartyCount is 0xFF
	Pokemon      [PartySize]PokemonCore
	OTNames      [PartySize]string
	Nicknames    [PartySize]string
}
