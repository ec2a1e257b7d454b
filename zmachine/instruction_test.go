package zmachine

import "testing"

type fakeReader []uint8

func (m fakeReader) ReadByte(address uint32) (uint8, error) { return m[address], nil }
func (m fakeReader) ReadWord(address uint32) (uint16, error) {
	return uint16(m[address])<<8 | uint16(m[address+1]), nil
}

func TestDecodeShortForm0OP(t *testing.T) {
	mem := fakeReader{0xB0} // rtrue, short form, operand type bits = omitted
	inst, err := Decode(mem, 0, 5)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Form != FormShort || inst.Count != Count0OP || inst.Opcode != 0 {
		t.Fatalf("Decode got form=%v count=%v opcode=%d, want Short/0OP/0", inst.Form, inst.Count, inst.Opcode)
	}
	if inst.HasStore || inst.HasBranch || inst.HasText {
		t.Errorf("rtrue should have no store/branch/text trailer")
	}
	if inst.NextAddress != 1 {
		t.Errorf("NextAddress = %d, want 1", inst.NextAddress)
	}
}

func TestDecodeLongForm2OPNoTrailer(t *testing.T) {
	// "store" (2OP:13), both operands small constants, variable number 5
	// and value 42; store takes no generic store-result byte.
	mem := fakeReader{0x0D, 0x05, 0x2A}
	inst, err := Decode(mem, 0, 3)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Form != FormLong || inst.Count != Count2OP || inst.Opcode != 13 {
		t.Fatalf("Decode got form=%v count=%v opcode=%d, want Long/2OP/13", inst.Form, inst.Count, inst.Opcode)
	}
	if len(inst.Operands) != 2 {
		t.Fatalf("got %d operands, want 2", len(inst.Operands))
	}
	if inst.Operands[0].Type != OperandSmallConstant || inst.Operands[0].Value != 5 {
		t.Errorf("operand 0 = %+v, want small constant 5", inst.Operands[0])
	}
	if inst.Operands[1].Value != 42 {
		t.Errorf("operand 1 = %+v, want value 42", inst.Operands[1])
	}
	if inst.HasStore || inst.HasBranch {
		t.Errorf("store opcode should not have a generic store/branch trailer")
	}
	if inst.NextAddress != 3 {
		t.Errorf("NextAddress = %d, want 3", inst.NextAddress)
	}
}

func TestDecodeVariableFormCallVS(t *testing.T) {
	// call_vs (VAR:224): large-constant routine address, small-constant
	// argument, then two omitted slots, then a store-result byte.
	mem := fakeReader{0xE0, 0x1F, 0x12, 0x34, 0x05, 0x00}
	inst, err := Decode(mem, 0, 5)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Form != FormVariable || inst.Count != CountVAR || inst.Opcode != 0 {
		t.Fatalf("Decode got form=%v count=%v opcode=%d, want Variable/VAR/0", inst.Form, inst.Count, inst.Opcode)
	}
	if len(inst.Operands) != 2 {
		t.Fatalf("got %d operands, want 2 (omitted slots should stop decoding)", len(inst.Operands))
	}
	if inst.Operands[0].Type != OperandLargeConstant || inst.Operands[0].Value != 0x1234 {
		t.Errorf("operand 0 = %+v, want large constant 0x1234", inst.Operands[0])
	}
	if inst.Operands[1].Type != OperandSmallConstant || inst.Operands[1].Value != 5 {
		t.Errorf("operand 1 = %+v, want small constant 5", inst.Operands[1])
	}
	if !inst.HasStore || inst.StoreVar != 0 {
		t.Errorf("call_vs should store to variable 0 (stack), got HasStore=%v StoreVar=%d", inst.HasStore, inst.StoreVar)
	}
	if inst.NextAddress != 6 {
		t.Errorf("NextAddress = %d, want 6", inst.NextAddress)
	}
}

func TestDecodeBranchSingleByteForm(t *testing.T) {
	// je (2OP:1), small constants 1 and 1, branch-on-true single-byte
	// form with offset 2 (bit6 set marks the compact encoding).
	mem := fakeReader{0x01, 0x01, 0x01, 0xC2}
	inst, err := Decode(mem, 0, 3)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !inst.HasBranch {
		t.Fatalf("je should decode a branch trailer")
	}
	if !inst.BranchOnTrue {
		t.Errorf("branch bit 0x80 was set, BranchOnTrue should be true")
	}
	if inst.BranchOffset != 2 {
		t.Errorf("BranchOffset = %d, want 2", inst.BranchOffset)
	}
	if inst.NextAddress != 4 {
		t.Errorf("NextAddress = %d, want 4", inst.NextAddress)
	}
}
