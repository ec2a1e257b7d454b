package zmachine

// execute runs one decoded instruction against the engine's state,
// returning nil on success, a *Error on failure, or haltSignal after
// `quit`.
func (e *Engine) execute(inst *Instruction) zerror {
	switch inst.Count {
	case Count2OP:
		if err := e.exec2OP(inst); err != nil {
			return err
		}
		return nil
	case Count1OP:
		if err := e.exec1OP(inst); err != nil {
			return err
		}
		return nil
	case Count0OP:
		return e.exec0OP(inst)
	case CountVAR:
		if err := e.execVAR(inst); err != nil {
			return err
		}
		return nil
	case CountEXT:
		if err := e.execEXT(inst); err != nil {
			return err
		}
		return nil
	default:
		return newErr(InvalidInstruction, false, "unrecognised operand count class at %06x", inst.Address)
	}
}

// applyBranch resolves inst's branch trailer against condition: taking
// the branch either returns from the current routine (offset 0/1) or
// jumps to NextAddress+offset-2.
func (e *Engine) applyBranch(inst *Instruction, condition bool) *Error {
	if !inst.HasBranch {
		return nil
	}
	if condition != inst.BranchOnTrue {
		return nil
	}
	switch inst.BranchOffset {
	case 0:
		return e.doReturn(0)
	case 1:
		return e.doReturn(1)
	default:
		e.pc = uint32(int64(inst.NextAddress) + int64(inst.BranchOffset) - 2)
		return nil
	}
}

// storeResult writes value to inst's store variable, if it has one.
func (e *Engine) storeResult(inst *Instruction, value uint16) *Error {
	if !inst.HasStore {
		return nil
	}
	return e.writeVariable(inst.StoreVar, value)
}

func unimplemented(inst *Instruction, name string) *Error {
	return newErrAt(UnimplementedInstruction, false, inst.NextAddress, "unimplemented opcode %s at %06x", name, inst.Address)
}

func invalidOpcode(inst *Instruction) *Error {
	return newErrAt(InvalidInstruction, false, inst.NextAddress, "invalid opcode %d (count %d) at %06x", inst.Opcode, inst.Count, inst.Address)
}
