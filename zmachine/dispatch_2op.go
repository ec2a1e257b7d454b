package zmachine

func (e *Engine) exec2OP(inst *Instruction) *Error {
	args, zerr := e.operandValues(inst)
	if zerr != nil {
		return zerr
	}

	switch inst.Opcode {
	case 1: // je a b [c d]: branch if a equals any other operand
		if len(args) < 2 {
			return invalidOpcode(inst)
		}
		match := false
		for _, b := range args[1:] {
			if args[0] == b {
				match = true
				break
			}
		}
		return e.applyBranch(inst, match)

	case 2: // jl
		return e.applyBranch(inst, asSigned(args[0]) < asSigned(args[1]))

	case 3: // jg
		return e.applyBranch(inst, asSigned(args[0]) > asSigned(args[1]))

	case 4: // dec_chk (variable) value
		v := uint8(args[0])
		cur, err := e.readVariable(v, true)
		if err != nil {
			return err
		}
		newVal := asSigned(cur) - 1
		if err := e.writeVariableIndirect(v, asUnsigned(newVal)); err != nil {
			return err
		}
		return e.applyBranch(inst, newVal < asSigned(args[1]))

	case 5: // inc_chk (variable) value
		v := uint8(args[0])
		cur, err := e.readVariable(v, true)
		if err != nil {
			return err
		}
		newVal := asSigned(cur) + 1
		if err := e.writeVariableIndirect(v, asUnsigned(newVal)); err != nil {
			return err
		}
		return e.applyBranch(inst, newVal > asSigned(args[1]))

	case 6: // jin obj1 obj2
		obj, err := e.objects.Get(args[0])
		if err != nil {
			return newErr(InvalidObjectProperty, true, "jin: %v", err)
		}
		return e.applyBranch(inst, uint16(obj.Parent) == args[1])

	case 7: // test bitmap flags
		return e.applyBranch(inst, args[0]&args[1] == args[1])

	case 8: // or
		return e.storeResult(inst, args[0]|args[1])

	case 9: // and
		return e.storeResult(inst, args[0]&args[1])

	case 10: // test_attr
		obj, err := e.objects.Get(args[0])
		if err != nil {
			return newErr(InvalidObjectProperty, true, "test_attr: %v", err)
		}
		return e.applyBranch(inst, obj.TestAttribute(args[1]))

	case 11: // set_attr
		obj, err := e.objects.Get(args[0])
		if err != nil {
			return newErr(InvalidObjectProperty, true, "set_attr: %v", err)
		}
		if err := e.objects.SetAttribute(obj, args[1]); err != nil {
			return newErr(IllegalAccess, true, "set_attr: %v", err)
		}
		return nil

	case 12: // clear_attr
		obj, err := e.objects.Get(args[0])
		if err != nil {
			return newErr(InvalidObjectProperty, true, "clear_attr: %v", err)
		}
		if err := e.objects.ClearAttribute(obj, args[1]); err != nil {
			return newErr(IllegalAccess, true, "clear_attr: %v", err)
		}
		return nil

	case 13: // store (variable) value
		return e.writeVariableIndirect(uint8(args[0]), args[1])

	case 14: // insert_obj object destination
		if err := e.objects.Insert(args[0], args[1]); err != nil {
			return newErr(ObjectTreeState, true, "insert_obj: %v", err)
		}
		return nil

	case 15: // loadw array word-index
		addr := uint32(args[0]) + 2*uint32(args[1])
		v, rerr := e.core.ReadWord(addr)
		if rerr != nil {
			return newErr(InvalidAddress, true, "loadw: %v", rerr)
		}
		return e.storeResult(inst, v)

	case 16: // loadb array byte-index
		addr := uint32(args[0]) + uint32(args[1])
		v, rerr := e.core.ReadByte(addr)
		if rerr != nil {
			return newErr(InvalidAddress, true, "loadb: %v", rerr)
		}
		return e.storeResult(inst, uint16(v))

	case 17: // get_prop object property
		return e.getProp(inst, args[0], uint8(args[1]))

	case 18: // get_prop_addr object property
		obj, err := e.objects.Get(args[0])
		if err != nil {
			return newErr(InvalidObjectProperty, true, "get_prop_addr: %v", err)
		}
		prop, ok, perr := e.objects.GetProperty(obj, uint8(args[1]))
		if perr != nil {
			return newErr(InvalidObjectProperty, true, "get_prop_addr: %v", perr)
		}
		if !ok {
			return e.storeResult(inst, 0)
		}
		return e.storeResult(inst, uint16(prop.DataAddress))

	case 19: // get_next_prop object property
		obj, err := e.objects.Get(args[0])
		if err != nil {
			return newErr(InvalidObjectProperty, true, "get_next_prop: %v", err)
		}
		next, perr := e.objects.NextProperty(obj, uint8(args[1]))
		if perr != nil {
			return newErr(InvalidObjectProperty, true, "get_next_prop: %v", perr)
		}
		return e.storeResult(inst, uint16(next))

	case 20: // add
		return e.storeResult(inst, asUnsigned(asSigned(args[0])+asSigned(args[1])))

	case 21: // sub
		return e.storeResult(inst, asUnsigned(asSigned(args[0])-asSigned(args[1])))

	case 22: // mul
		return e.storeResult(inst, asUnsigned(asSigned(args[0])*asSigned(args[1])))

	case 23: // div
		if asSigned(args[1]) == 0 {
			return newErr(SystemError, false, "division by zero at %06x", inst.Address)
		}
		return e.storeResult(inst, asUnsigned(asSigned(args[0])/asSigned(args[1])))

	case 24: // mod
		if asSigned(args[1]) == 0 {
			return newErr(SystemError, false, "division by zero at %06x", inst.Address)
		}
		return e.storeResult(inst, asUnsigned(asSigned(args[0])%asSigned(args[1])))

	case 25: // call_2s routine arg1
		if e.version < 4 {
			return invalidOpcode(inst)
		}
		sv := inst.StoreVar
		return e.doCall(args[0], args[1:], inst.NextAddress, &sv)

	case 26: // call_2n routine arg1
		if e.version < 5 {
			return invalidOpcode(inst)
		}
		return e.doCall(args[0], args[1:], inst.NextAddress, nil)

	case 27: // set_colour foreground background
		return e.setColour(args[0], args[1])

	case 28: // throw value stack-frame
		depth := int(args[1])
		if err := e.stack.Truncate(depth); err != nil {
			return newErr(StackUnderflow, false, "throw: %v", err)
		}
		return e.doReturn(args[0])
	}

	return invalidOpcode(inst)
}

// getProp implements get_prop, shared with the VAR-form encodings some
// tools emit for it.
func (e *Engine) getProp(inst *Instruction, objectID uint16, propNum uint8) *Error {
	obj, err := e.objects.Get(objectID)
	if err != nil {
		return newErr(InvalidObjectProperty, true, "get_prop: %v", err)
	}
	prop, ok, perr := e.objects.GetProperty(obj, propNum)
	if perr != nil {
		return newErr(InvalidObjectProperty, true, "get_prop: %v", perr)
	}
	if !ok {
		def, derr := e.objects.DefaultPropertyWord(propNum)
		if derr != nil {
			return newErr(InvalidObjectProperty, true, "get_prop default: %v", derr)
		}
		return e.storeResult(inst, def)
	}
	val, verr := e.objects.ReadPropertyValue(prop)
	if verr != nil {
		return newErr(InvalidObjectPropertySize, true, "get_prop: %v", verr)
	}
	return e.storeResult(inst, val)
}

// writeVariableIndirect writes to variable v as an indirect reference
// (store/inc_chk/dec_chk target variable 0 in place rather than pushing a
// new value).
func (e *Engine) writeVariableIndirect(v uint8, value uint16) *Error {
	if v == 0 {
		if err := e.stack.Top().SetTop(value); err != nil {
			return newErr(StackUnderflow, false, "%v", err)
		}
		return nil
	}
	return e.writeVariable(v, value)
}
