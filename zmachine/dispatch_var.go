package zmachine

import (
	"github.com/kestrelif/ifzm/zdict"
	"github.com/kestrelif/ifzm/ztable"
)

func (e *Engine) execVAR(inst *Instruction) *Error {
	args, zerr := e.operandValues(inst)
	if zerr != nil {
		return zerr
	}
	arg := func(i int) uint16 {
		if i < len(args) {
			return args[i]
		}
		return 0
	}

	switch inst.Opcode {
	case 0: // call / call_vs
		sv := inst.StoreVar
		var callArgs []uint16
		if len(args) > 1 {
			callArgs = args[1:]
		}
		return e.doCall(arg(0), callArgs, inst.NextAddress, &sv)

	case 1: // storew array word-index value
		addr := uint32(arg(0)) + 2*uint32(arg(1))
		if err := e.core.WriteWord(addr, arg(2)); err != nil {
			return newErr(IllegalAccess, true, "storew: %v", err)
		}
		return nil

	case 2: // storeb array byte-index value
		addr := uint32(arg(0)) + uint32(arg(1))
		if err := e.core.WriteByte(addr, uint8(arg(2))); err != nil {
			return newErr(IllegalAccess, true, "storeb: %v", err)
		}
		return nil

	case 3: // put_prop object property value
		obj, err := e.objects.Get(arg(0))
		if err != nil {
			return newErr(InvalidObjectProperty, true, "put_prop: %v", err)
		}
		prop, ok, perr := e.objects.GetProperty(obj, uint8(arg(1)))
		if perr != nil {
			return newErr(InvalidObjectProperty, true, "put_prop: %v", perr)
		}
		if !ok {
			return newErr(InvalidObjectProperty, true, "put_prop: object %d has no property %d", arg(0), arg(1))
		}
		if perr := e.objects.PutProperty(prop, arg(2)); perr != nil {
			return newErr(InvalidObjectPropertySize, true, "put_prop: %v", perr)
		}
		return nil

	case 4: // sread / aread
		return e.doRead(inst, uint32(arg(0)), uint32(arg(1)), arg(2), arg(3))

	case 5: // print_char
		e.writeText(string(rune(arg(0))))
		return nil

	case 6: // print_num
		e.writeText(formatSignedDecimal(asSigned(arg(0))))
		return nil

	case 7: // random
		return e.storeResult(inst, e.doRandom(asSigned(arg(0))))

	case 8: // push value
		return e.writeVariable(0, arg(0))

	case 9: // pull (variable)
		v, err := e.readVariable(0, false)
		if err != nil {
			return err
		}
		return e.writeVariableIndirect(uint8(arg(0)), v)

	case 10: // split_window lines
		return e.splitWindow(arg(0))

	case 11: // set_window window
		return e.setWindow(arg(0))

	case 12: // call_vs2
		sv := inst.StoreVar
		var callArgs []uint16
		if len(args) > 1 {
			callArgs = args[1:]
		}
		return e.doCall(arg(0), callArgs, inst.NextAddress, &sv)

	case 13: // erase_window
		return e.eraseWindow(arg(0))

	case 14: // erase_line
		return e.eraseLine(arg(0))

	case 15: // set_cursor
		return e.setCursor(arg(0), arg(1))

	case 16: // get_cursor
		return e.getCursor(arg(0))

	case 17: // set_text_style
		return e.setTextStyle(arg(0))

	case 18: // buffer_mode
		return e.setBufferMode(arg(0))

	case 19: // output_stream
		return e.setOutputStream(asSigned(arg(0)), uint32(arg(1)))

	case 20: // input_stream
		// Reading from a recorded command file is out of scope; treat as
		// a no-op so stories that probe it don't fail outright.
		return nil

	case 21: // sound_effect
		return e.doSoundEffect(arg(0), arg(1), arg(2)&0xff, uint16(arg(2)>>8), arg(3), len(args) > 3)

	case 22: // read_char
		return e.doReadChar(inst, arg(1), arg(2))

	case 23: // scan_table
		return e.doScanTable(inst, arg(0), arg(1), arg(2), arg(3))

	case 24: // not (v5+)
		return e.storeResult(inst, ^arg(0))

	case 25: // call_vn
		var callArgs []uint16
		if len(args) > 1 {
			callArgs = args[1:]
		}
		return e.doCall(arg(0), callArgs, inst.NextAddress, nil)

	case 26: // call_vn2
		var callArgs []uint16
		if len(args) > 1 {
			callArgs = args[1:]
		}
		return e.doCall(arg(0), callArgs, inst.NextAddress, nil)

	case 27: // tokenise text-buffer [parse-buffer] [dictionary] [flag]
		return e.doTokenise(arg(0), arg(1), arg(2), arg(3) != 0)

	case 28: // encode_text
		return e.encodeText(uint32(arg(0)), arg(1), arg(2), uint32(arg(3)))

	case 29: // copy_table
		if err := ztable.Copy(e.core, uint32(arg(0)), uint32(arg(1)), int16(arg(2))); err != nil {
			return newErr(IllegalAccess, true, "copy_table: %v", err)
		}
		return nil

	case 30: // print_table
		text, err := ztable.Print(e.core, uint32(arg(0)), arg(1), arg(2), arg(3))
		if err != nil {
			return newErr(InvalidAddress, true, "print_table: %v", err)
		}
		e.writeText(text)
		return nil

	case 31: // check_arg_count
		return e.applyBranch(inst, e.checkArgCount(arg(0)))
	}

	return invalidOpcode(inst)
}

func (e *Engine) doRandom(n int16) uint16 {
	switch {
	case n > 0:
		return e.rng.Next(n)
	case n == 0:
		e.rng.SeedFromEntropy()
		return 0
	default:
		if -n >= 1000 {
			e.rng.SeedDeterministic(int64(n))
		} else {
			e.rng.SetPredictable(uint16(-n))
		}
		return 0
	}
}

func (e *Engine) setOutputStream(stream int16, table uint32) *Error {
	switch stream {
	case 1:
		e.outStream1 = true
	case -1:
		e.outStream1 = false
	case 2:
		e.outStream2 = true
		e.emit(Directive{Kind: DirectiveSetOutputStream, Stream: 2, StreamActive: true})
	case -2:
		e.outStream2 = false
		e.emit(Directive{Kind: DirectiveSetOutputStream, Stream: 2, StreamActive: false})
	case 3:
		if len(e.stream3) >= 16 {
			return newErr(SystemError, true, "output_stream: stream-3 nesting depth exceeds 16")
		}
		e.stream3 = append(e.stream3, stream3Frame{table: table})
	case -3:
		if err := e.closeStream3(); err != nil {
			return err
		}
	case 4, -4:
		// input-transcript echoing stream: acknowledged, not separately
		// modelled.
	}
	return nil
}

// doTokenise implements the `tokenise` opcode: lex the text already sitting
// in textBuffer and write the results into parseBuffer. dictionaryAddr, when
// non-zero, names a dictionary table other than the story's own (games ship
// alternate dictionaries for menus and the like); skipUnmatched mirrors the
// opcode's fourth operand, which leaves a parse-buffer slot untouched rather
// than zeroing it when the corresponding word isn't found.
func (e *Engine) doTokenise(textBuffer, parseBuffer, dictionaryAddr uint16, skipUnmatched bool) *Error {
	dict := e.dict
	if dictionaryAddr != 0 {
		d, err := zdict.Parse(e.core, uint32(dictionaryAddr), e.version, e.alphabets)
		if err != nil {
			return newErr(InvalidAddress, true, "tokenise: reading dictionary at %06x: %v", dictionaryAddr, err)
		}
		dict = d
	}
	if dict == nil {
		return nil
	}

	if e.version <= 4 {
		n, err := e.core.ReadByte(uint32(textBuffer))
		if err != nil {
			return newErr(InvalidAddress, true, "tokenise: %v", err)
		}
		text := make([]byte, 0, n)
		for i := uint32(1); ; i++ {
			b, err := e.core.ReadByte(uint32(textBuffer) + i)
			if err != nil || b == 0 {
				break
			}
			text = append(text, b)
		}
		return e.writeParseBuffer(uint32(parseBuffer), string(text), dict, skipUnmatched)
	}

	n, err := e.core.ReadByte(uint32(textBuffer) + 1)
	if err != nil {
		return newErr(InvalidAddress, true, "tokenise: %v", err)
	}
	text := make([]byte, n)
	for i := uint8(0); i < n; i++ {
		b, err := e.core.ReadByte(uint32(textBuffer) + 2 + uint32(i))
		if err != nil {
			return newErr(InvalidAddress, true, "tokenise: %v", err)
		}
		text[i] = b
	}
	return e.writeParseBuffer(uint32(parseBuffer), string(text), dict, skipUnmatched)
}

func formatSignedDecimal(v int16) string {
	neg := v < 0
	u := uint32(v)
	if neg {
		u = uint32(-int32(v))
	}
	digits := []byte{}
	if u == 0 {
		digits = append(digits, '0')
	}
	for u > 0 {
		digits = append([]byte{byte('0' + u%10)}, digits...)
		u /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
