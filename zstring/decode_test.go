package zstring_test

import (
	"encoding/binary"
	"testing"

	"github.com/kestrelif/ifzm/zstring"
)

// memReader is a minimal zstring.Reader backed by a flat byte slice, used
// to exercise Decode/Encode without pulling in zcore.
type memReader []uint8

func (m memReader) ReadByte(address uint32) (uint8, error) {
	return m[address], nil
}

func (m memReader) ReadWord(address uint32) (uint16, error) {
	return binary.BigEndian.Uint16(m[address : address+2]), nil
}

func words(ws ...uint16) memReader {
	buf := make(memReader, len(ws)*2)
	for i, w := range ws {
		binary.BigEndian.PutUint16(buf[i*2:i*2+2], w)
	}
	return buf
}

func TestDecodeSimpleLowercase(t *testing.T) {
	alphabets := zstring.DefaultAlphabets()

	// z-chars 8,6,13 -> 'c','a','h' packed into one word with top bit set.
	word := uint16(1)<<15 | uint16(8)<<10 | uint16(6)<<5 | uint16(13)
	mem := words(word)

	out, n, err := zstring.Decode(mem, 0, alphabets, 0, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != "cah" {
		t.Errorf("Decode got %q, want %q", out, "cah")
	}
	if n != 2 {
		t.Errorf("Decode consumed %d bytes, want 2", n)
	}
}

func TestDecodeSpaceZChar(t *testing.T) {
	alphabets := zstring.DefaultAlphabets()
	word := uint16(1)<<15 | uint16(0)<<10 | uint16(0)<<5 | uint16(0)
	mem := words(word)

	out, _, err := zstring.Decode(mem, 0, alphabets, 0, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != "   " {
		t.Errorf("Decode got %q, want three spaces", out)
	}
}

func TestDecodeMultiWord(t *testing.T) {
	alphabets := zstring.DefaultAlphabets()
	// First word has no terminator bit; second word does.
	first := uint16(8)<<10 | uint16(6)<<5 | uint16(13) // "cah"
	second := uint16(1)<<15 | uint16(8)<<10 | uint16(6)<<5 | uint16(13)
	mem := words(first, second)

	out, n, err := zstring.Decode(mem, 0, alphabets, 0, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != "cahcah" {
		t.Errorf("Decode got %q, want %q", out, "cahcah")
	}
	if n != 4 {
		t.Errorf("Decode consumed %d bytes, want 4", n)
	}
}

func TestDecodeShiftToAlphabetTwo(t *testing.T) {
	alphabets := zstring.DefaultAlphabets()
	// z-char 5 shifts once to A2, then z-char 9 reads A2[3] == '1'.
	word := uint16(1)<<15 | uint16(5)<<10 | uint16(9)<<5 | uint16(0)
	mem := words(word)

	out, _, err := zstring.Decode(mem, 0, alphabets, 0, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != "1 " {
		t.Errorf("Decode got %q, want %q", out, "1 ")
	}
}

func TestEncodeDictionaryWordPadsWithFive(t *testing.T) {
	alphabets := zstring.DefaultAlphabets()
	words := zstring.EncodeDictionaryWord("go", alphabets, 6)

	if len(words) != 2 {
		t.Fatalf("EncodeDictionaryWord returned %d words, want 2", len(words))
	}
	if words[1]&0x8000 == 0 {
		t.Errorf("final dictionary word must have the top bit set")
	}
	if words[0]&0x1f != 5 || words[1] != 0x8000|5<<10|5<<5|5 {
		t.Errorf("words = %04x %04x, want z-char 5 in every slot after \"go\"", words[0], words[1])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	alphabets := zstring.DefaultAlphabets()
	enc := zstring.EncodeDictionaryWord("cat", alphabets, 6)

	buf := make(memReader, len(enc)*2)
	for i, w := range enc {
		binary.BigEndian.PutUint16(buf[i*2:i*2+2], w)
	}

	out, _, err := zstring.Decode(buf, 0, alphabets, 0, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != "cat" {
		t.Errorf("round trip got %q, want %q", out, "cat")
	}
}
