package zdict_test

import (
	"encoding/binary"
	"testing"

	"github.com/kestrelif/ifzm/zdict"
	"github.com/kestrelif/ifzm/zstring"
)

type fakeMemory []uint8

func (m fakeMemory) ReadByte(address uint32) (uint8, error) { return m[address], nil }
func (m fakeMemory) ReadWord(address uint32) (uint16, error) {
	return binary.BigEndian.Uint16(m[address : address+2]), nil
}

// buildDictionary lays out a v3 dictionary table (4-byte encoded entries,
// 2 bytes of game data each) for the given words, already in sorted order.
func buildDictionary(t *testing.T, alphabets *zstring.Alphabets, words []string) fakeMemory {
	t.Helper()
	const entryLen = 6
	separators := []uint8{'.', ','}

	buf := make(fakeMemory, 4+len(separators)+len(words)*entryLen)
	buf[0] = uint8(len(separators))
	copy(buf[1:], separators)

	ptr := 1 + len(separators)
	buf[ptr] = entryLen
	ptr++
	binary.BigEndian.PutUint16(buf[ptr:], uint16(len(words)))
	ptr += 2

	for _, w := range words {
		enc := zstring.EncodeDictionaryWord(w, alphabets, 6)
		for i, word := range enc {
			binary.BigEndian.PutUint16(buf[ptr+i*2:], word)
		}
		ptr += entryLen
	}
	return buf
}

func TestParseAndLookupSortedDictionary(t *testing.T) {
	alphabets := zstring.DefaultAlphabets()
	mem := buildDictionary(t, alphabets, []string{"cat", "dog"}) // must stay in encoded-byte sort order

	dict, err := zdict.Parse(mem, 0, 3, alphabets)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !dict.Sorted {
		t.Fatalf("dictionary with positive entry count should be marked sorted")
	}
	if len(dict.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(dict.Entries))
	}

	addr := dict.Lookup("dog", alphabets)
	if addr == 0 {
		t.Fatalf("Lookup(dog) should find an entry")
	}
	if addr != dict.Entries[1].Address {
		t.Errorf("Lookup(dog) = %d, want %d", addr, dict.Entries[1].Address)
	}

	if got := dict.Lookup("ferret", alphabets); got != 0 {
		t.Errorf("Lookup(ferret) = %d, want 0 for an absent word", got)
	}
}

func TestIsSeparator(t *testing.T) {
	alphabets := zstring.DefaultAlphabets()
	mem := buildDictionary(t, alphabets, []string{"cat", "dog"})

	dict, err := zdict.Parse(mem, 0, 3, alphabets)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !dict.IsSeparator(' ') {
		t.Errorf("space must always be a separator")
	}
	if !dict.IsSeparator('.') {
		t.Errorf("'.' was declared a separator in the header")
	}
	if dict.IsSeparator('x') {
		t.Errorf("'x' was not declared a separator")
	}
}
