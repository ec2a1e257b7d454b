package zdict

import (
	"github.com/kestrelif/ifzm/zstring"
)

// Token is one lexed word from an input line: its text, its offset (byte
// count from the start of the typed text), and the dictionary address it
// resolved to (0 if unmatched).
type Token struct {
	Text              string
	Offset            int
	DictionaryAddress uint32
}

// Tokenise splits text into words on spaces and the dictionary's
// separator set (separators are themselves emitted as one-character
// words during the lexical scan), then looks each word up. Words with no
// dictionary entry are reported with DictionaryAddress 0 but are
// otherwise identical - callers implement `tokenise`'s "don't overwrite
// unmatched slots" flag by skipping those tokens at the write-back stage.
func Tokenise(text string, dict *Dictionary, alphabets *zstring.Alphabets) []Token {
	var tokens []Token
	start := 0

	flush := func(end int) {
		if end > start {
			word := text[start:end]
			tokens = append(tokens, Token{
				Text:              word,
				Offset:            start,
				DictionaryAddress: dict.Lookup(word, alphabets),
			})
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ' ' {
			flush(i)
			start = i + 1
			continue
		}
		if dict.IsSeparator(c) {
			flush(i)
			tokens = append(tokens, Token{
				Text:              string(c),
				Offset:            i,
				DictionaryAddress: dict.Lookup(string(c), alphabets),
			})
			start = i + 1
		}
	}
	flush(len(text))

	return tokens
}

// Normalise lowercases ASCII letters, the only case-folding `read`
// performs on raw input before tokenising/echoing.
func Normalise(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
