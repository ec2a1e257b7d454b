package zmachine

import (
	"encoding/binary"

	"github.com/kestrelif/ifzm/zstring"
)

// writeText routes output text through the active output streams. Stream
// 3 (memory redirection) intercepts text entirely - nothing reaches the
// screen while it is active, per the output_stream contract.
func (e *Engine) writeText(s string) {
	if n := len(e.stream3); n > 0 {
		e.stream3[n-1].buf = append(e.stream3[n-1].buf, s)
		return
	}
	if e.outStream1 {
		e.emit(Directive{Kind: DirectivePrint, Text: s, Transcript: e.outStream2})
	}
}

// closeStream3 pops the innermost output-stream-3 redirection and flushes
// its buffered text as a length-prefixed ZSCII table, per the
// memory-output-stream encoding (word count, then one ZSCII byte per
// character). Text resumes reaching whatever stream was active beneath
// it - the screen, or the next frame down the nesting stack.
func (e *Engine) closeStream3() *Error {
	n := len(e.stream3)
	if n == 0 {
		return nil
	}
	frame := e.stream3[n-1]
	e.stream3 = e.stream3[:n-1]

	text := ""
	for _, s := range frame.buf {
		text += s
	}

	data := []byte(text)
	if err := e.core.WriteWord(frame.table, uint16(len(data))); err != nil {
		return newErr(IllegalAccess, false, "writing stream-3 length word: %v", err)
	}
	for i, b := range data {
		if err := e.core.WriteByte(frame.table+2+uint32(i), b); err != nil {
			return newErr(IllegalAccess, false, "writing stream-3 body: %v", err)
		}
	}
	return nil
}

// decodeStringAt decodes a z-string starting at a byte address (not
// packed), returning just the text.
func (e *Engine) decodeStringAt(address uint32) (string, *Error) {
	text, _, err := zstring.Decode(e.core, address, e.alphabets, uint32(e.header.AbbrevTableBase()), true)
	if err != nil {
		return "", newErr(InvalidAddress, false, "decoding string at %06x: %v", address, err)
	}
	return text, nil
}

// decodePackedStringAt decodes a z-string at a packed address (print_paddr;
// object short names use a byte address and go through decodeStringAt).
func (e *Engine) decodePackedStringAt(packed uint16) (string, *Error) {
	return e.decodeStringAt(packedAddress(e.header, e.version, packed, false))
}

// encodeText implements the `encode_text` opcode: ZSCII-encodes up to
// length characters of the text at source (zero-terminated convention is
// not used; length/from are explicit) into the fixed dictionary word form
// at dest.
func (e *Engine) encodeText(source uint32, length, from uint16, dest uint32) *Error {
	raw := make([]byte, length)
	for i := uint16(0); i < length; i++ {
		b, err := e.core.ReadByte(source + uint32(from) + uint32(i))
		if err != nil {
			return newErr(InvalidAddress, false, "reading encode_text source: %v", err)
		}
		raw[i] = b
	}

	wordChars := 6
	if e.version > 3 {
		wordChars = 9
	}
	words := zstring.EncodeDictionaryWord(string(raw), e.alphabets, wordChars)

	buf := make([]byte, len(words)*2)
	for i, w := range words {
		binary.BigEndian.PutUint16(buf[i*2:i*2+2], w)
	}
	for i, b := range buf {
		if err := e.core.WriteByte(dest+uint32(i), b); err != nil {
			return newErr(IllegalAccess, false, "writing encode_text destination: %v", err)
		}
	}
	return nil
}
