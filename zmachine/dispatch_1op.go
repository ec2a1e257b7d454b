package zmachine

func (e *Engine) exec1OP(inst *Instruction) *Error {
	args, zerr := e.operandValues(inst)
	if zerr != nil {
		return zerr
	}
	a := args[0]

	switch inst.Opcode {
	case 0: // jz
		return e.applyBranch(inst, a == 0)

	case 1: // get_sibling
		obj, err := e.objects.Get(a)
		if err != nil {
			return newErr(InvalidObjectProperty, true, "get_sibling: %v", err)
		}
		if serr := e.storeResult(inst, uint16(obj.Sibling)); serr != nil {
			return serr
		}
		return e.applyBranch(inst, obj.Sibling != 0)

	case 2: // get_child
		obj, err := e.objects.Get(a)
		if err != nil {
			return newErr(InvalidObjectProperty, true, "get_child: %v", err)
		}
		if serr := e.storeResult(inst, uint16(obj.Child)); serr != nil {
			return serr
		}
		return e.applyBranch(inst, obj.Child != 0)

	case 3: // get_parent
		obj, err := e.objects.Get(a)
		if err != nil {
			return newErr(InvalidObjectProperty, true, "get_parent: %v", err)
		}
		return e.storeResult(inst, uint16(obj.Parent))

	case 4: // get_prop_len property-address
		length, err := e.objects.PropertyLength(uint32(a))
		if err != nil {
			return newErr(InvalidObjectPropertySize, true, "get_prop_len: %v", err)
		}
		return e.storeResult(inst, uint16(length))

	case 5: // inc (variable)
		cur, err := e.readVariable(uint8(a), true)
		if err != nil {
			return err
		}
		return e.writeVariableIndirect(uint8(a), asUnsigned(asSigned(cur)+1))

	case 6: // dec (variable)
		cur, err := e.readVariable(uint8(a), true)
		if err != nil {
			return err
		}
		return e.writeVariableIndirect(uint8(a), asUnsigned(asSigned(cur)-1))

	case 7: // print_addr byte-address-of-string
		text, err := e.decodeStringAt(uint32(a))
		if err != nil {
			return err
		}
		e.writeText(text)
		return nil

	case 8: // call_1s routine
		if e.version < 4 {
			return invalidOpcode(inst)
		}
		sv := inst.StoreVar
		return e.doCall(a, nil, inst.NextAddress, &sv)

	case 9: // remove_obj
		if err := e.objects.Remove(a); err != nil {
			return newErr(ObjectTreeState, true, "remove_obj: %v", err)
		}
		return nil

	case 10: // print_obj
		obj, err := e.objects.Get(a)
		if err != nil {
			return newErr(InvalidObjectProperty, true, "print_obj: %v", err)
		}
		text, derr := e.decodeStringAt(e.objects.ShortNameAddress(obj))
		if derr != nil {
			return derr
		}
		e.writeText(text)
		return nil

	case 11: // ret value
		return e.doReturn(a)

	case 12: // jump ?(label)
		e.pc = uint32(int64(inst.NextAddress) + int64(asSigned(a)) - 2)
		return nil

	case 13: // print_paddr
		text, err := e.decodePackedStringAt(a)
		if err != nil {
			return err
		}
		e.writeText(text)
		return nil

	case 14: // load (variable)
		v, err := e.readVariable(uint8(a), true)
		if err != nil {
			return err
		}
		return e.storeResult(inst, v)

	case 15: // not (v1-4, store) / call_1n (v5+)
		if e.version < 5 {
			return e.storeResult(inst, ^a)
		}
		return e.doCall(a, nil, inst.NextAddress, nil)
	}

	return invalidOpcode(inst)
}
