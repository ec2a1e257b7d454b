package zmachine

import "github.com/kestrelif/ifzm/zframe"

// newStackWithFrame returns a fresh call stack containing only the
// synthesised outermost frame, used by `restart`.
func newStackWithFrame() *zframe.Stack {
	s := &zframe.Stack{}
	s.Push(zframe.Frame{})
	return s
}

// doCall invokes the routine at packed address target (0 is the special
// "return false/do nothing" case for call*), passing args, and pushes a
// new frame. storeVar is nil for the call_*n family (no result stored).
func (e *Engine) doCall(target uint16, args []uint16, returnAddress uint32, storeVar *uint8) *Error {
	if target == 0 {
		if storeVar != nil {
			return e.writeVariable(*storeVar, 0)
		}
		return nil
	}

	routineAddr := packedAddress(e.header, e.version, target, true)

	numLocals, err := e.core.ReadByte(routineAddr)
	if err != nil {
		return newErr(InvalidAddress, false, "reading routine header at %06x: %v", routineAddr, err)
	}
	if numLocals > 15 {
		return newErr(InvalidInstruction, false, "routine at %06x declares %d locals (max 15)", routineAddr, numLocals)
	}

	locals := make([]uint16, numLocals)
	pos := routineAddr + 1
	if e.version <= 4 {
		for i := uint8(0); i < numLocals; i++ {
			w, rerr := e.core.ReadWord(pos)
			if rerr != nil {
				return newErr(InvalidAddress, false, "reading local default at %06x: %v", pos, rerr)
			}
			locals[i] = w
			pos += 2
		}
	}

	for i := 0; i < len(args) && i < len(locals); i++ {
		locals[i] = args[i]
	}

	var rs *uint8
	if storeVar != nil {
		v := *storeVar
		rs = &v
	}

	frame := zframe.Frame{
		ReturnAddress: returnAddress,
		ReturnSlot:    rs,
		ArgumentCount: uint8(len(args)),
		Locals:        locals,
		PC:            pos,
	}
	e.stack.Push(frame)
	e.pc = pos
	return nil
}

// doReturn pops the current frame and stores value into its caller's
// result slot (if any), resuming execution at the caller's return
// address.
func (e *Engine) doReturn(value uint16) *Error {
	frame, err := e.stack.Pop()
	if err != nil {
		return newErr(StackUnderflow, false, "%v", err)
	}

	e.pc = frame.ReturnAddress

	if pi := e.pendingInterrupt; pi != nil && len(e.stack.Frames) == pi.depth-1 {
		e.pendingInterrupt = nil
		return e.resolveInterruptReturn(pi, value)
	}

	if frame.ReturnSlot != nil {
		return e.writeVariable(*frame.ReturnSlot, value)
	}
	return nil
}

// checkArgCount reports whether argument number n (1-indexed) was
// actually supplied to the current frame, per `check_arg_count`.
func (e *Engine) checkArgCount(n uint16) bool {
	return uint16(e.stack.Top().ArgumentCount) >= n
}
