package zmachine

func (e *Engine) execEXT(inst *Instruction) *Error {
	args, err := e.operandValues(inst)
	if err != nil {
		return err
	}
	arg := func(i int) uint16 {
		if i < len(args) {
			return args[i]
		}
		return 0
	}

	switch inst.Opcode {
	case 0: // save [table bytes name] (v5+)
		name := ""
		if len(args) >= 3 {
			if text, derr := e.decodeStringAt(uint32(arg(2))); derr == nil {
				name = text
			}
		}
		ok := e.doSave(inst.NextAddress, name)
		var result uint16
		if ok {
			result = 1
		}
		return e.storeResult(inst, result)

	case 1: // restore [table bytes name] (v5+)
		name := ""
		if len(args) >= 3 {
			if text, derr := e.decodeStringAt(uint32(arg(2))); derr == nil {
				name = text
			}
		}
		ok, rerr := e.doRestore(name)
		if rerr != nil {
			return rerr
		}
		if ok {
			return nil
		}
		return e.storeResult(inst, 0)

	case 2: // log_shift number places
		return e.storeResult(inst, logicalShift(arg(0), asSigned(arg(1))))

	case 3: // art_shift number places
		return e.storeResult(inst, arithmeticShift(arg(0), asSigned(arg(1))))

	case 4: // set_font font
		return e.storeResult(inst, e.setFont(arg(0)))

	case 9: // save_undo
		e.doSaveUndo(inst.NextAddress)
		return e.storeResult(inst, 1)

	case 10: // restore_undo
		ok, rerr := e.doRestoreUndo()
		if rerr != nil {
			return rerr
		}
		if ok {
			return nil
		}
		return e.storeResult(inst, 0)

	case 11: // print_unicode
		e.writeText(string(rune(arg(0))))
		return nil

	case 12: // check_unicode
		return e.storeResult(inst, 3) // report both input and output capable
	}

	return invalidOpcode(inst)
}

func logicalShift(v uint16, places int16) uint16 {
	if places >= 0 {
		return v << uint(places)
	}
	return v >> uint(-places)
}

func arithmeticShift(v uint16, places int16) uint16 {
	sv := int16(v)
	if places >= 0 {
		return uint16(sv << uint(places))
	}
	return uint16(sv >> uint(-places))
}
