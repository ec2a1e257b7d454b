package zmachine

import (
	"github.com/kestrelif/ifzm/zdict"
	"github.com/kestrelif/ifzm/ztable"
)

// doRead implements sread/aread: prompts the host for a line, stores it
// into the text buffer (version-dependent layout), and optionally
// tokenises it into the parse buffer via the loaded dictionary.
func (e *Engine) doRead(inst *Instruction, textBuffer, parseBuffer uint32, timedTenths, timedRoutine uint16) *Error {
	maxLen, err := e.core.ReadByte(textBuffer)
	if err != nil {
		return newErr(InvalidAddress, true, "read: %v", err)
	}

	resp := e.emit(Directive{
		Kind:          DirectiveRead,
		TextBufferLen: int(maxLen),
		TimedInputMS:  int(timedTenths) * 100,
		InitialText:   e.readPreloadedInput(textBuffer),
		Terminators:   e.terminators(),
	})

	if resp.Interrupted {
		return e.raiseReadInterrupt(inst, timedRoutine, interruptRead, textBuffer, parseBuffer, timedTenths)
	}

	text := zdict.Normalise(resp.Text)
	if len(text) > int(maxLen) {
		text = text[:maxLen]
	}

	if e.version <= 4 {
		for i := 0; i < len(text); i++ {
			if werr := e.core.WriteByte(textBuffer+1+uint32(i), text[i]); werr != nil {
				return newErr(IllegalAccess, true, "read: %v", werr)
			}
		}
		if werr := e.core.WriteByte(textBuffer+1+uint32(len(text)), 0); werr != nil {
			return newErr(IllegalAccess, true, "read: %v", werr)
		}
	} else {
		if werr := e.core.WriteByte(textBuffer+1, uint8(len(text))); werr != nil {
			return newErr(IllegalAccess, true, "read: %v", werr)
		}
		for i := 0; i < len(text); i++ {
			if werr := e.core.WriteByte(textBuffer+2+uint32(i), text[i]); werr != nil {
				return newErr(IllegalAccess, true, "read: %v", werr)
			}
		}
	}

	if parseBuffer != 0 && e.dict != nil {
		if err := e.writeParseBuffer(parseBuffer, text, e.dict, false); err != nil {
			return err
		}
	}

	if e.version >= 5 {
		terminator := resp.Terminator
		if terminator == 0 {
			terminator = 13
		}
		return e.storeResult(inst, uint16(terminator))
	}
	return nil
}

// readPreloadedInput returns any text the game already placed in the read
// buffer for v5+'s pre-filled-input feature; v1-4 buffers carry no such
// byte and never preload.
func (e *Engine) readPreloadedInput(textBuffer uint32) string {
	if e.version <= 4 {
		return ""
	}
	n, err := e.core.ReadByte(textBuffer + 1)
	if err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	for i := uint8(0); i < n; i++ {
		b, rerr := e.core.ReadByte(textBuffer + 2 + uint32(i))
		if rerr != nil {
			return string(buf[:i])
		}
		buf[i] = b
	}
	return string(buf)
}

// terminators returns the ZSCII codes that should end a read: newline
// always terminates, plus whatever the story's terminator table (v5+)
// lists - individual function/arrow-key codes, or 255 to mean all of them.
func (e *Engine) terminators() []uint8 {
	codes := []uint8{13}
	if e.version < 5 {
		return codes
	}
	base := uint32(e.header.TerminatorTableBase())
	if base == 0 {
		return codes
	}
	for i := uint32(0); ; i++ {
		b, err := e.core.ReadByte(base + i)
		if err != nil || b == 0 {
			break
		}
		if b == 255 {
			for c := uint8(129); c <= 154; c++ {
				codes = append(codes, c)
			}
			codes = append(codes, 252, 253, 254)
			continue
		}
		codes = append(codes, b)
	}
	return codes
}

// writeParseBuffer lexes text against dict and writes the resulting tokens
// into parseBuffer. When skipUnmatched is true, a word with no dictionary
// entry leaves its parse-buffer slot as-is instead of being zeroed, per
// tokenise's clear-suppression flag.
func (e *Engine) writeParseBuffer(parseBuffer uint32, text string, dict *zdict.Dictionary, skipUnmatched bool) *Error {
	maxTokens, err := e.core.ReadByte(parseBuffer)
	if err != nil {
		return newErr(InvalidAddress, true, "tokenise: %v", err)
	}

	tokens := zdict.Tokenise(text, dict, e.alphabets)
	if len(tokens) > int(maxTokens) {
		tokens = tokens[:maxTokens]
	}

	if werr := e.core.WriteByte(parseBuffer+1, uint8(len(tokens))); werr != nil {
		return newErr(IllegalAccess, true, "tokenise: %v", werr)
	}

	textBase := uint32(1)
	if e.version > 4 {
		textBase = 2
	}

	for i, tok := range tokens {
		if skipUnmatched && tok.DictionaryAddress == 0 {
			continue
		}
		entry := parseBuffer + 2 + uint32(i)*4
		if werr := e.core.WriteWord(entry, uint16(tok.DictionaryAddress)); werr != nil {
			return newErr(IllegalAccess, true, "tokenise: %v", werr)
		}
		if werr := e.core.WriteByte(entry+2, uint8(len(tok.Text))); werr != nil {
			return newErr(IllegalAccess, true, "tokenise: %v", werr)
		}
		if werr := e.core.WriteByte(entry+3, uint8(textBase+uint32(tok.Offset))); werr != nil {
			return newErr(IllegalAccess, true, "tokenise: %v", werr)
		}
	}
	return nil
}

// doReadChar implements read_char: a single-character analogue of doRead.
func (e *Engine) doReadChar(inst *Instruction, timedTenths, timedRoutine uint16) *Error {
	resp := e.emit(Directive{Kind: DirectiveReadChar, TimedInputMS: int(timedTenths) * 100})
	if resp.Interrupted {
		return e.raiseReadInterrupt(inst, timedRoutine, interruptReadChar, 0, 0, timedTenths)
	}
	return e.storeResult(inst, uint16(zsciiFromResponseChar(resp)))
}

// raiseReadInterrupt fires the user-supplied routine after a timed-out
// read/read_char: a fresh frame is pushed calling timedRoutine,
// returning to inst.Address so the blocking opcode naturally reruns from
// scratch if the routine declines to abort the read (returns 0). If no
// routine was supplied, the read simply aborts with a null result, per
// the standard's "nothing was typed" fallback.
func (e *Engine) raiseReadInterrupt(inst *Instruction, timedRoutine uint16, kind interruptKind, textBuffer, parseBuffer uint32, timedTenths uint16) *Error {
	if timedRoutine == 0 {
		return e.finishInterruptedRead(kind, inst, textBuffer)
	}

	if err := e.doCall(timedRoutine, nil, inst.Address, nil); err != nil {
		return err
	}
	e.pendingInterrupt = &interruptCall{
		depth:      len(e.stack.Frames),
		kind:       kind,
		inst:       inst,
		textBuffer: textBuffer,
	}
	return nil
}

// resolveInterruptReturn is called by doReturn once the synthesised
// interrupt routine itself returns. A non-zero result aborts the blocking
// read with a null reply; zero lets the engine retry it, since e.pc was
// already rewound to the read instruction's own address.
func (e *Engine) resolveInterruptReturn(pi *interruptCall, result uint16) *Error {
	if result == 0 {
		return nil // pc already points back at the read/read_char instruction: retry.
	}
	return e.finishInterruptedRead(pi.kind, pi.inst, pi.textBuffer)
}

// finishInterruptedRead aborts a blocking read/read_char with the "timed
// out, nothing typed" result and advances past the instruction.
func (e *Engine) finishInterruptedRead(kind interruptKind, inst *Instruction, textBuffer uint32) *Error {
	e.pc = inst.NextAddress
	if kind == interruptReadChar {
		return e.storeResult(inst, 0)
	}
	if textBuffer != 0 {
		// v3/4: zero-length is an immediate null terminator; v5+: a
		// zero length byte. Both land at the same offset.
		_ = e.core.WriteByte(textBuffer+1, 0)
	}
	if e.version >= 5 {
		return e.storeResult(inst, 0)
	}
	return nil
}

// doSoundEffect implements sound_effect: either a built-in beep (effects
// 1/2, no resource file needed) or a resource lookup via the loaded Blorb
// file.
func (e *Engine) doSoundEffect(effect, operation, volume, repeats uint16, endRoutine uint16, hasEndRoutine bool) *Error {
	switch operation {
	case 1: // prepare - no-op, resources already resolved eagerly
		return nil
	case 2: // start
		if err := e.sound.Play(uint32(effect), uint8(volume), uint32(repeats), uint32(endRoutine), hasEndRoutine); err != nil {
			return newErr(SoundPlayback, true, "sound_effect: %v", err)
		}
		e.emit(Directive{Kind: DirectiveSoundEffect, Effect: int(effect), Volume: int(volume), Repeats: int(repeats)})
		return nil
	case 3: // stop
		e.sound.Stop()
		e.emit(Directive{Kind: DirectiveSoundEffect, Effect: 0})
		return nil
	case 4: // finish with
		return nil
	}
	return nil
}

// doScanTable implements scan_table via ztable.Scan, translating the
// optional 4th operand's field-size/byte-comparison flags.
func (e *Engine) doScanTable(inst *Instruction, value, table, length, form uint16) *Error {
	fieldSize := uint8(2)
	checkByte := false
	if form != 0 {
		fieldSize = uint8(form & 0x7f)
		checkByte = form&0x80 == 0
	}

	addr, err := ztable.Scan(e.core, value, uint32(table), length, fieldSize, checkByte)
	if err != nil {
		return newErr(InvalidAddress, true, "scan_table: %v", err)
	}
	if serr := e.storeResult(inst, uint16(addr)); serr != nil {
		return serr
	}
	return e.applyBranch(inst, addr != 0)
}

func zsciiFromResponseChar(resp Response) uint8 {
	if resp.Char != 0 {
		if resp.Char < 256 {
			return uint8(resp.Char)
		}
		return '?'
	}
	return resp.Terminator
}
