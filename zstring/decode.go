package zstring

import "fmt"

// shiftA0/A1/A2 index which alphabet a z-char resolves against.
const (
	shiftA0 = 0
	shiftA1 = 1
	shiftA2 = 2
)

// Decode reads z-words starting at address until one has bit 15 set,
// expanding abbreviations (one level deep only) and ZSCII escapes, and
// returns the decoded text plus the number of bytes consumed.
//
// allowAbbrev is false when decoding an abbreviation's own referenced
// string, since abbreviations may not nest.
func Decode(mem Reader, address uint32, alphabets *Alphabets, abbrevTableBase uint32, allowAbbrev bool) (string, uint32, error) {
	var zchars []uint8
	bytesRead := uint32(0)

	for {
		word, err := mem.ReadWord(address + bytesRead)
		if err != nil {
			return "", bytesRead, err
		}
		bytesRead += 2

		zchars = append(zchars, uint8((word>>10)&0x1f), uint8((word>>5)&0x1f), uint8(word&0x1f))

		if word&0x8000 != 0 {
			break
		}
	}

	out, err := decodeZChars(mem, zchars, alphabets, abbrevTableBase, allowAbbrev)
	if err != nil {
		return "", bytesRead, err
	}
	return out, bytesRead, nil
}

func decodeZChars(mem Reader, zchars []uint8, alphabets *Alphabets, abbrevTableBase uint32, allowAbbrev bool) (string, error) {
	var out []rune
	alphabet := shiftA0
	shiftOnce := -1 // -1 means no pending one-shot shift

	i := 0
	for i < len(zchars) {
		zc := zchars[i]
		effectiveAlphabet := alphabet
		if shiftOnce >= 0 {
			effectiveAlphabet = shiftOnce
			shiftOnce = -1
		}

		switch {
		case zc == 0:
			out = append(out, ' ')
		case zc >= 1 && zc <= 3:
			if !allowAbbrev {
				// Malformed nested abbreviation reference; treat as space.
				out = append(out, ' ')
				i++
				continue
			}
			if i+1 >= len(zchars) {
				return string(out), fmt.Errorf("truncated abbreviation escape")
			}
			index := zchars[i+1]
			i++
			expansion, err := expandAbbreviation(mem, alphabets, abbrevTableBase, zc, index)
			if err != nil {
				return string(out), err
			}
			out = append(out, []rune(expansion)...)
		case zc == 4:
			shiftOnce = shiftA1
		case zc == 5:
			shiftOnce = shiftA2
		case effectiveAlphabet == shiftA2 && zc == 6:
			if i+2 >= len(zchars) {
				return string(out), fmt.Errorf("truncated ZSCII escape")
			}
			hi := zchars[i+1]
			lo := zchars[i+2]
			i += 2
			code := (uint16(hi) << 5) | uint16(lo)
			out = append(out, zsciiOutputRune(uint8(code)))
		default:
			out = append(out, alphabetRune(alphabets, effectiveAlphabet, zc))
		}
		i++
	}

	return string(out), nil
}

func alphabetRune(alphabets *Alphabets, alphabet int, zc uint8) rune {
	if zc < 6 || zc > 31 {
		return ' '
	}
	idx := zc - 6
	switch alphabet {
	case shiftA0:
		return rune(alphabets.A0[idx])
	case shiftA1:
		return rune(alphabets.A1[idx])
	default:
		return rune(alphabets.A2[idx])
	}
}

func expandAbbreviation(mem Reader, alphabets *Alphabets, abbrevTableBase uint32, set uint8, index uint8) (string, error) {
	if abbrevTableBase == 0 {
		return "", nil
	}
	entryAddr := abbrevTableBase + 64*uint32(set-1) + 2*uint32(index)
	word, err := mem.ReadWord(entryAddr)
	if err != nil {
		return "", err
	}
	str, _, err := Decode(mem, uint32(word)*2, alphabets, abbrevTableBase, false)
	return str, err
}

// zsciiOutputRune maps a ZSCII output code to its display rune: codes
// 155-251 are Latin-1 accented letters via the unicode translation
// table; everything else maps through ASCII/control identity.
func zsciiOutputRune(code uint8) rune {
	if code >= 155 && code <= 251 {
		if r, ok := DefaultUnicodeTranslationTable[code]; ok {
			return r
		}
	}
	return rune(code)
}
