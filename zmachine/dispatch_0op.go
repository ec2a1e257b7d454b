package zmachine

// errOrNil converts a possibly-nil *Error into a true nil zerror
// interface value; returning a *Error-typed nil directly as zerror would
// otherwise produce a non-nil interface wrapping a nil pointer.
func errOrNil(err *Error) zerror {
	if err == nil {
		return nil
	}
	return err
}

func (e *Engine) exec0OP(inst *Instruction) zerror {
	switch inst.Opcode {
	case 0: // rtrue
		return errOrNil(e.doReturn(1))

	case 1: // rfalse
		return errOrNil(e.doReturn(0))

	case 2: // print
		e.writeText(inst.Text)
		return nil

	case 3: // print_ret
		e.writeText(inst.Text)
		e.writeText("\n")
		return errOrNil(e.doReturn(1))

	case 4: // nop
		return nil

	case 5: // save
		if e.version >= 5 {
			return invalidOpcode(inst) // moved to EXT:0
		}
		ok := e.doSave(inst.NextAddress, "")
		if e.version == 4 {
			var result uint16
			if ok {
				result = 1
			}
			return errOrNil(e.storeResult(inst, result))
		}
		return errOrNil(e.applyBranch(inst, ok))

	case 6: // restore
		if e.version >= 5 {
			return invalidOpcode(inst) // moved to EXT:1
		}
		ok, err := e.doRestore("")
		if err != nil {
			return err
		}
		if ok {
			// pc and the resumed save instruction's result variable were
			// already updated inside doRestore; nothing left to do here.
			return nil
		}
		if e.version == 4 {
			return errOrNil(e.storeResult(inst, 0))
		}
		return errOrNil(e.applyBranch(inst, false))

	case 7: // restart
		e.core.Reset()
		e.stack = *newStackWithFrame()
		e.pc = uint32(e.header.InitialPC())
		e.undo = nil
		e.sound.Stop()
		return nil

	case 8: // ret_popped
		v, err := e.readVariable(0, false)
		if err != nil {
			return err
		}
		return errOrNil(e.doReturn(v))

	case 9: // pop (v1-4) / catch (v5+)
		if e.version >= 5 {
			return errOrNil(e.storeResult(inst, uint16(e.stack.Depth())))
		}
		_, err := e.readVariable(0, false)
		return errOrNil(err)

	case 10: // quit
		return haltSignal{}

	case 11: // new_line
		e.writeText("\n")
		return nil

	case 12: // show_status (v3 only)
		return errOrNil(e.showStatus())

	case 13: // verify
		return errOrNil(e.applyBranch(inst, e.core.Checksum(e.header.FileLength()) == e.header.Checksum()))

	case 15: // piracy
		return errOrNil(e.applyBranch(inst, true))
	}

	return invalidOpcode(inst)
}
