// Package zdict implements dictionary parsing and lexical tokenisation
// for the `read`/`tokenise` opcodes.
package zdict

import (
	"bytes"
	"sort"

	"github.com/kestrelif/ifzm/zstring"
)

// Memory abstracts story-image byte access.
type Memory interface {
	ReadByte(address uint32) (uint8, error)
	ReadWord(address uint32) (uint16, error)
}

// Entry is one dictionary word: its encoded (fixed-width) form, address,
// and trailing game-specific data bytes.
type Entry struct {
	Address uint32
	Encoded []byte
	Data    []byte
}

// Dictionary holds the parsed word-separator set and entry table.
type Dictionary struct {
	Separators []uint8
	EntryLen   uint8
	Sorted     bool
	Entries    []Entry
	encodedLen int
}

// Parse reads a dictionary table at base, using the standard's
// header-then-entries layout. version selects 6-char (v3) vs 9-char (v4+)
// encoded words.
func Parse(mem Memory, base uint32, version uint8, alphabets *zstring.Alphabets) (*Dictionary, error) {
	numSeparators, err := mem.ReadByte(base)
	if err != nil {
		return nil, err
	}

	separators := make([]uint8, numSeparators)
	for i := uint32(0); i < uint32(numSeparators); i++ {
		b, err := mem.ReadByte(base + 1 + i)
		if err != nil {
			return nil, err
		}
		separators[i] = b
	}

	ptr := base + 1 + uint32(numSeparators)
	entryLen, err := mem.ReadByte(ptr)
	if err != nil {
		return nil, err
	}
	ptr++

	countWord, err := mem.ReadWord(ptr)
	if err != nil {
		return nil, err
	}
	ptr += 2
	count := int16(countWord)
	sorted := count >= 0
	if count < 0 {
		count = -count
	}

	encodedLen := 4
	if version > 3 {
		encodedLen = 6
	}

	entries := make([]Entry, 0, count)
	for i := int16(0); i < count; i++ {
		entryAddr := ptr + uint32(i)*uint32(entryLen)
		encoded := make([]byte, encodedLen)
		for j := 0; j < encodedLen; j++ {
			b, err := mem.ReadByte(entryAddr + uint32(j))
			if err != nil {
				return nil, err
			}
			encoded[j] = b
		}

		dataLen := int(entryLen) - encodedLen
		data := make([]byte, dataLen)
		for j := 0; j < dataLen; j++ {
			b, err := mem.ReadByte(entryAddr + uint32(encodedLen+j))
			if err != nil {
				return nil, err
			}
			data[j] = b
		}

		entries = append(entries, Entry{Address: entryAddr, Encoded: encoded, Data: data})
	}

	return &Dictionary{
		Separators: separators,
		EntryLen:   entryLen,
		Sorted:     sorted,
		Entries:    entries,
		encodedLen: encodedLen,
	}, nil
}

// Lookup encodes word against the dictionary's word-chars and searches:
// binary search when sorted, linear otherwise. Returns 0 if not found.
func (d *Dictionary) Lookup(word string, alphabets *zstring.Alphabets) uint32 {
	wordChars := d.encodedLen / 2 * 3
	words := zstring.EncodeDictionaryWord(word, alphabets, wordChars)
	encoded := make([]byte, d.encodedLen)
	for i, w := range words {
		encoded[i*2] = byte(w >> 8)
		encoded[i*2+1] = byte(w)
	}

	if d.Sorted {
		ix := sort.Search(len(d.Entries), func(i int) bool {
			return bytes.Compare(d.Entries[i].Encoded, encoded) >= 0
		})
		if ix < len(d.Entries) && bytes.Equal(d.Entries[ix].Encoded, encoded) {
			return d.Entries[ix].Address
		}
		return 0
	}

	for _, e := range d.Entries {
		if bytes.Equal(e.Encoded, encoded) {
			return e.Address
		}
	}
	return 0
}

// IsSeparator reports whether b is a word separator or a space (space is
// always a separator regardless of the header list).
func (d *Dictionary) IsSeparator(b uint8) bool {
	if b == ' ' {
		return true
	}
	for _, s := range d.Separators {
		if s == b {
			return true
		}
	}
	return false
}
