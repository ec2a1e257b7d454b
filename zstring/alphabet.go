// Package zstring implements the Z-machine ZSCII text codec: decoding a
// stream of 16-bit z-words into text, abbreviation expansion, and encoding
// ASCII into the fixed-width form used for dictionary lookups.
package zstring

var a0Default = [26]byte{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z'}
var a1Default = [26]byte{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z'}
var a2Default = [26]byte{' ' /* unused, slot 0 is the escape-to-ZSCII marker */, '\n', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', ',', '!', '?', '_', '#', '\'', '"', '/', '\\', '-', ':', '(', ')'}

// Alphabets holds the three 26-entry alphabet tables in effect for a
// story: the defaults, or a custom table loaded from the header's
// alphabet-table address (v5+ only).
type Alphabets struct {
	A0, A1, A2 [26]byte
}

// DefaultAlphabets returns the version-1/2/3+ standard tables.
func DefaultAlphabets() *Alphabets {
	return &Alphabets{A0: a0Default, A1: a1Default, A2: a2Default}
}

// Reader abstracts story-image byte access so zstring has no dependency on
// zcore (the core packages are siblings, not a hierarchy).
type Reader interface {
	ReadByte(address uint32) (uint8, error)
	ReadWord(address uint32) (uint16, error)
}

// LoadAlphabets reads a custom alphabet table from alphabetTableBase if
// non-zero (v5+ header field), else returns the defaults.
func LoadAlphabets(mem Reader, alphabetTableBase uint32) *Alphabets {
	if alphabetTableBase == 0 {
		return DefaultAlphabets()
	}

	alphabets := DefaultAlphabets()
	for i := 0; i < 26; i++ {
		if b, err := mem.ReadByte(alphabetTableBase + uint32(i)); err == nil {
			alphabets.A0[i] = b
		}
	}
	for i := 0; i < 26; i++ {
		if b, err := mem.ReadByte(alphabetTableBase + 26 + uint32(i)); err == nil {
			alphabets.A1[i] = b
		}
	}
	for i := 0; i < 26; i++ {
		if b, err := mem.ReadByte(alphabetTableBase + 52 + uint32(i)); err == nil {
			alphabets.A2[i] = b
		}
	}
	return alphabets
}
