package zstring

// EncodeDictionaryWord encodes up to wordChars characters of s into the
// fixed-width dictionary entry form: one z-word per 3 characters, padded
// with z-char 5, the final word's top bit set. wordChars is 6 for v3 (2
// words), 9 for v4+ (3 words). No abbreviations are considered here -
// dictionary words and the `encode_text` opcode never use them.
func EncodeDictionaryWord(s string, alphabets *Alphabets, wordChars int) []uint16 {
	zchars := encodeToZChars(s, alphabets, wordChars)

	numWords := wordChars / 3
	words := make([]uint16, numWords)
	for w := 0; w < numWords; w++ {
		word := (uint16(zchars[w*3]) << 10) | (uint16(zchars[w*3+1]) << 5) | uint16(zchars[w*3+2])
		if w == numWords-1 {
			word |= 0x8000
		}
		words[w] = word
	}
	return words
}

func encodeToZChars(s string, alphabets *Alphabets, wordChars int) []uint8 {
	runes := []rune(s)
	var zchars []uint8

	for _, r := range runes {
		if len(zchars) >= wordChars {
			break
		}
		zchars = append(zchars, encodeRune(r, alphabets)...)
	}

	for len(zchars) < wordChars {
		zchars = append(zchars, 5)
	}
	if len(zchars) > wordChars {
		zchars = zchars[:wordChars]
	}
	return zchars
}

func encodeRune(r rune, alphabets *Alphabets) []uint8 {
	if idx := indexOf(alphabets.A0, byte(r)); r < 128 && idx >= 0 {
		return []uint8{uint8(idx + 6)}
	}
	if idx := indexOf(alphabets.A2, byte(r)); r < 128 && idx >= 0 {
		return []uint8{5, uint8(idx + 6)}
	}

	code, ok := ZSCIIFromRune(r)
	if !ok {
		code = '?'
	}
	return []uint8{5, 6, uint8(code >> 5), uint8(code & 0x1f)}
}

func indexOf(table [26]byte, b byte) int {
	for i, c := range table {
		if c == b {
			return i
		}
	}
	return -1
}
