// This file contains the Gen-I "charmap" codec: the bidirectional mapping
// between ASCII and the in-game character bytes used by Red/Blue/Yellow,
// and the fixed-width name field helpers built on top of it.
//
// Grounded on the original src/char_encode.c switch-based encoder/decoder,
// reworked as a table + lookup-function pair the way the rest of this
// module's enums are modeled (tradecore.ControlByteByID and friends).

package charmap

// Terminator is the Gen-I string terminator / pad byte. Every fixed-width
// name field ends in this byte within its width.
const Terminator byte = 0x50

// asciiToGB maps known ASCII runes to their Gen-I encoded byte.
var asciiToGB = map[rune]byte{
	' ': 0x7F,

	'A': 0x80, 'B': 0x81, 'C': 0x82, 'D': 0x83, 'E': 0x84, 'F': 0x85, 'G': 0x86,
	'H': 0x87, 'I': 0x88, 'J': 0x89, 'K': 0x8A, 'L': 0x8B, 'M': 0x8C, 'N': 0x8D,
	'O': 0x8E, 'P': 0x8F, 'Q': 0x90, 'R': 0x91, 'S': 0x92, 'T': 0x93, 'U': 0x94,
	'V': 0x95, 'W': 0x96, 'X': 0x97, 'Y': 0x98, 'Z': 0x99,

	'(': 0x9A, ')': 0x9B, ':': 0x9C, ';': 0x9D, '[': 0x9E, ']': 0x9F,

	'a': 0xA0, 'b': 0xA1, 'c': 0xA2, 'd': 0xA3, 'e': 0xA4, 'f': 0xA5, 'g': 0xA6,
	'h': 0xA7, 'i': 0xA8, 'j': 0xA9, 'k': 0xAA, 'l': 0xAB, 'm': 0xAC, 'n': 0xAD,
	'o': 0xAE, 'p': 0xAF, 'q': 0xB0, 'r': 0xB1, 's': 0xB2, 't': 0xB3, 'u': 0xB4,
	'v': 0xB5, 'w': 0xB6, 'x': 0xB7, 'y': 0xB8, 'z': 0xB9,

	'\'': 0xE0, '-': 0xE3, '?': 0xE6, '!': 0xE7, '.': 0xE8,

	'0': 0xF6, '1': 0xF7, '2': 0xF8, '3': 0xF9, '4': 0xFA,
	'5': 0xFB, '6': 0xFC, '7': 0xFD, '8': 0xFE, '9': 0xFF,
}

// gbToASCII is the inverse of asciiToGB, built once at init.
var gbToASCII = map[byte]rune{}

func init() {
	for r, b := range asciiToGB {
		gbToASCII[b] = r
	}
}

// EncodeFixed writes the Gen-I encoding of src into dst. Runes with no
// Gen-I mapping are encoded as '?'. At most len(dst)-1 characters are
// written, so the field always ends in Terminator; every remaining byte of
// dst is filled with Terminator. If len(dst) == 0 this is a no-op.
func EncodeFixed(dst []byte, src string) {
	i := 0
	for _, r := range src {
		if i >= len(dst)-1 {
			break
		}
		b, ok := asciiToGB[r]
		if !ok {
			b = asciiToGB['?']
		}
		dst[i] = b
		i++
	}
	for ; i < len(dst); i++ {
		dst[i] = Terminator
	}
}

// DecodeUntilTerminator decodes src up to the first Terminator byte (or the
// end of src, whichever comes first). Bytes with no known ASCII mapping
// decode to '?'.
func DecodeUntilTerminator(src []byte) string {
	out := make([]rune, 0, len(src))
	for _, b := range src {
		if b == Terminator {
			break
		}
		r, ok := gbToASCII[b]
		if !ok {
			r = '?'
		}
		out = append(out, r)
	}
	return string(out)
}
