package zmachine

// globalVar reads global variable n (0-indexed within the global table,
// i.e. Z-machine variable number n+16), the numbering used by the status
// line's three well-known globals (location, score/hours, turns/minutes).
func (e *Engine) globalVar(n uint8) (uint16, *Error) {
	return e.readVariable(16+n, true)
}

// showStatus implements the v3-only `show_status` opcode: render the
// current location and score/turns (or time) globals.
func (e *Engine) showStatus() *Error {
	locationObj, err := e.globalVar(0)
	if err != nil {
		return err
	}
	score, err := e.globalVar(1)
	if err != nil {
		return err
	}
	turns, err := e.globalVar(2)
	if err != nil {
		return err
	}

	locationText := ""
	if locationObj != 0 {
		obj, oerr := e.objects.Get(locationObj)
		if oerr == nil {
			if text, derr := e.decodeStringAt(e.objects.ShortNameAddress(obj)); derr == nil {
				locationText = text
			}
		}
	}

	e.emit(Directive{
		Kind:         DirectiveShowStatus,
		LocationText: locationText,
		ScoreOrHours: int(asSigned(score)),
		TurnsOrMins:  int(asSigned(turns)),
		TimeBased:    e.header.StatusBarTimeBased(),
	})
	return nil
}

func (e *Engine) setColour(fg, bg uint16) *Error {
	e.emit(Directive{Kind: DirectiveSetColour, Foreground: int16(fg), Background: int16(bg)})
	return nil
}

func (e *Engine) setTextStyle(styleMask uint16) *Error {
	d := Directive{Kind: DirectiveSetTextStyle}
	if styleMask == 0 {
		e.emit(d)
		return nil
	}
	d.Reverse = styleMask&0x01 != 0
	d.Bold = styleMask&0x02 != 0
	d.Italic = styleMask&0x04 != 0
	d.FixedPitch = styleMask&0x08 != 0
	e.emit(d)
	return nil
}

func (e *Engine) splitWindow(lines uint16) *Error {
	e.emit(Directive{Kind: DirectiveSplitWindow, Lines: int(lines)})
	return nil
}

func (e *Engine) setWindow(window uint16) *Error {
	e.emit(Directive{Kind: DirectiveSetWindow, Window: int(window)})
	return nil
}

func (e *Engine) eraseWindow(window uint16) *Error {
	e.emit(Directive{Kind: DirectiveEraseWindow, Window: int(asSigned(window))})
	return nil
}

func (e *Engine) eraseLine(value uint16) *Error {
	e.emit(Directive{Kind: DirectiveEraseLine, Flag: value == 1})
	return nil
}

func (e *Engine) setCursor(line, column uint16) *Error {
	e.emit(Directive{Kind: DirectiveSetCursor, Line: int(line), Column: int(column)})
	return nil
}

func (e *Engine) getCursor(array uint16) *Error {
	resp := e.emit(Directive{Kind: DirectiveGetCursor})
	if err := e.core.WriteWord(uint32(array), uint16(resp.Line)); err != nil {
		return newErr(IllegalAccess, true, "get_cursor: %v", err)
	}
	if err := e.core.WriteWord(uint32(array)+2, uint16(resp.Column)); err != nil {
		return newErr(IllegalAccess, true, "get_cursor: %v", err)
	}
	return nil
}

func (e *Engine) setFont(font uint16) uint16 {
	resp := e.emit(Directive{Kind: DirectiveSetFont, Font: int(font)})
	return uint16(resp.IntResult)
}

func (e *Engine) setBufferMode(flag uint16) *Error {
	e.emit(Directive{Kind: DirectiveSetBufferMode, Flag: flag != 0})
	return nil
}
