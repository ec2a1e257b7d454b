package zmachine

// globalBase returns the byte address of the global held in variable
// number n (16..255, i.e. global 0..239).
func (e *Engine) globalBase(n uint8) uint32 {
	return uint32(e.header.GlobalTableBase()) + 2*uint32(n-16)
}

// readVariable resolves variable number v (0 = top of stack, 1-15 =
// current frame's locals, 16-255 = globals). peek leaves the stack top in
// place instead of popping it, used by indirect references that must not
// consume the value (e.g. inc, dec, load); ordinary operands pop.
func (e *Engine) readVariable(v uint8, peek bool) (uint16, *Error) {
	frame := e.stack.Top()

	switch {
	case v == 0:
		var val uint16
		var err error
		if peek {
			val, err = frame.Peek()
		} else {
			val, err = frame.Pop()
		}
		if err != nil {
			return 0, newErr(StackUnderflow, false, "%v", err)
		}
		return val, nil
	case v <= 15:
		val, err := frame.Local(v)
		if err != nil {
			return 0, newErr(InvalidInstruction, false, "%v", err)
		}
		return val, nil
	default:
		val, err := e.core.ReadWord(e.globalBase(v))
		if err != nil {
			return 0, newErr(InvalidAddress, false, "reading global variable %d: %v", v, err)
		}
		return val, nil
	}
}

// writeVariable writes value to variable v, pushing for v==0.
func (e *Engine) writeVariable(v uint8, value uint16) *Error {
	frame := e.stack.Top()

	switch {
	case v == 0:
		frame.Push(value)
		return nil
	case v <= 15:
		if err := frame.SetLocal(v, value); err != nil {
			return newErr(InvalidInstruction, false, "%v", err)
		}
		return nil
	default:
		if err := e.core.WriteWord(e.globalBase(v), value); err != nil {
			return newErr(IllegalAccess, false, "writing global variable %d: %v", v, err)
		}
		return nil
	}
}

// operandValue resolves an operand to its runtime value, reading through
// variable references (without consuming stack-top twice within a single
// instruction's operand list - each distinct stack-variable operand still
// pops once per Z-machine semantics).
func (e *Engine) operandValue(op Operand) (uint16, *Error) {
	if op.Type == OperandVariable {
		return e.readVariable(uint8(op.Value), false)
	}
	return op.Value, nil
}

// operandValues resolves every operand of inst in order.
func (e *Engine) operandValues(inst *Instruction) ([]uint16, *Error) {
	values := make([]uint16, len(inst.Operands))
	for i, op := range inst.Operands {
		v, err := e.operandValue(op)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func asSigned(v uint16) int16 { return int16(v) }
func asUnsigned(v int16) uint16 { return uint16(v) }
