package zmachine

// OperandType is the 2-bit operand-type tag used by short/long/variable
// forms to say how an operand is encoded.
type OperandType uint8

const (
	OperandLargeConstant OperandType = 0b00
	OperandSmallConstant OperandType = 0b01
	OperandVariable      OperandType = 0b10
	OperandOmitted       OperandType = 0b11
)

// Form is the instruction's encoding form.
type Form uint8

const (
	FormLong Form = iota
	FormShort
	FormVariable
	FormExtended
)

// OperandCount distinguishes 0OP/1OP/2OP/VAR/EXT opcode tables.
type OperandCount uint8

const (
	Count0OP OperandCount = iota
	Count1OP
	Count2OP
	CountVAR
	CountEXT
)

// Operand is one decoded operand: its encoding tag and raw 16-bit value
// (a literal constant, or a variable number to be resolved at execution
// time).
type Operand struct {
	Type  OperandType
	Value uint16
}

// Instruction is a fully decoded opcode plus its operands and any store/
// branch/text trailer, along with its address and the address of the
// following instruction.
type Instruction struct {
	Address      uint32
	NextAddress  uint32
	Form         Form
	Count        OperandCount
	Opcode       uint8 // opcode number within its (form, count) table
	Operands     []Operand
	HasStore     bool
	StoreVar     uint8
	HasBranch    bool
	BranchOnTrue bool
	BranchOffset int32 // 0/1 mean "return false"/"return true"; otherwise a relative PC offset
	HasText      bool
	Text         string
}

// MemoryReader is the minimal interface the decoder needs to pull bytes
// from story memory.
type MemoryReader interface {
	ReadByte(address uint32) (uint8, error)
	ReadWord(address uint32) (uint16, error)
}

// extendedWith2Operands marks the two VAR-form opcodes that read a second
// operand-type byte, supporting up to 8 operands (call_vs2/call_vn2).
func extendedWith2Operands(count OperandCount, opcodeNumber uint8) bool {
	return count == CountVAR && (opcodeNumber == 12 || opcodeNumber == 26)
}

// Decode decodes one instruction starting at address.
func Decode(mem MemoryReader, address uint32, version uint8) (*Instruction, error) {
	pos := address

	opcodeByte, err := mem.ReadByte(pos)
	if err != nil {
		return nil, err
	}
	pos++

	inst := &Instruction{Address: address}

	var opcodeNumber uint8
	var form Form
	var count OperandCount

	switch {
	case opcodeByte == 0xbe && version >= 5:
		form = FormExtended
		count = CountEXT
		opcodeNumber, err = mem.ReadByte(pos)
		if err != nil {
			return nil, err
		}
		pos++
		pos, err = decodeVarOperands(mem, pos, inst, count, opcodeNumber)
		if err != nil {
			return nil, err
		}

	case opcodeByte>>6 == 0b11:
		form = FormVariable
		opcodeNumber = opcodeByte & 0b0001_1111
		if (opcodeByte>>5)&1 == 0 {
			count = Count2OP
		} else {
			count = CountVAR
		}
		pos, err = decodeVarOperands(mem, pos, inst, count, opcodeNumber)
		if err != nil {
			return nil, err
		}

	case opcodeByte>>6 == 0b10:
		form = FormShort
		opcodeNumber = opcodeByte & 0b0000_1111
		operandType := OperandType((opcodeByte >> 4) & 0b11)
		if operandType == OperandOmitted {
			count = Count0OP
		} else {
			count = Count1OP
			var v uint16
			if operandType == OperandLargeConstant {
				v, err = mem.ReadWord(pos)
				if err != nil {
					return nil, err
				}
				pos += 2
			} else {
				b, err2 := mem.ReadByte(pos)
				if err2 != nil {
					return nil, err2
				}
				v = uint16(b)
				pos++
			}
			inst.Operands = append(inst.Operands, Operand{Type: operandType, Value: v})
		}

	default:
		form = FormLong
		count = Count2OP
		opcodeNumber = opcodeByte & 0b0001_1111
		type1 := OperandSmallConstant
		type2 := OperandSmallConstant
		if (opcodeByte>>6)&1 == 1 {
			type1 = OperandVariable
		}
		if (opcodeByte>>5)&1 == 1 {
			type2 = OperandVariable
		}
		for _, t := range []OperandType{type1, type2} {
			b, err2 := mem.ReadByte(pos)
			if err2 != nil {
				return nil, err2
			}
			inst.Operands = append(inst.Operands, Operand{Type: t, Value: uint16(b)})
			pos++
		}
	}

	inst.Form = form
	inst.Count = count
	inst.Opcode = opcodeNumber

	if opcodeStoresResult(version, form, count, opcodeNumber) {
		b, err2 := mem.ReadByte(pos)
		if err2 != nil {
			return nil, err2
		}
		inst.HasStore = true
		inst.StoreVar = b
		pos++
	}

	if opcodeBranches(version, form, count, opcodeNumber) {
		pos, err = decodeBranch(mem, pos, inst)
		if err != nil {
			return nil, err
		}
	}

	if opcodeHasTextLiteral(form, count, opcodeNumber) {
		// Text literal decoding needs the z-string alphabet; the
		// dispatcher decodes it lazily from Address and records nothing
		// here beyond the flag. NextAddress is therefore computed by the
		// dispatcher for print/print_ret, not here.
		inst.HasText = true
		return inst, nil
	}

	inst.NextAddress = pos
	return inst, nil
}

func decodeVarOperands(mem MemoryReader, pos uint32, inst *Instruction, count OperandCount, opcodeNumber uint8) (uint32, error) {
	typeByte, err := mem.ReadByte(pos)
	if err != nil {
		return 0, err
	}
	pos++

	typeByte2 := uint8(0)
	maxOperands := 4
	if extendedWith2Operands(count, opcodeNumber) {
		typeByte2, err = mem.ReadByte(pos)
		if err != nil {
			return 0, err
		}
		pos++
		maxOperands = 8
	}

	for i := 0; i < maxOperands; i++ {
		var t OperandType
		if i < 4 {
			t = OperandType((typeByte >> (2 * (3 - i))) & 0b11)
		} else {
			t = OperandType((typeByte2 >> (2 * (7 - i))) & 0b11)
		}
		if t == OperandOmitted {
			break
		}

		switch t {
		case OperandLargeConstant:
			v, err := mem.ReadWord(pos)
			if err != nil {
				return 0, err
			}
			inst.Operands = append(inst.Operands, Operand{Type: t, Value: v})
			pos += 2
		default: // small constant or variable, both one byte
			b, err := mem.ReadByte(pos)
			if err != nil {
				return 0, err
			}
			inst.Operands = append(inst.Operands, Operand{Type: t, Value: uint16(b)})
			pos++
		}
	}

	return pos, nil
}

func decodeBranch(mem MemoryReader, pos uint32, inst *Instruction) (uint32, error) {
	b1, err := mem.ReadByte(pos)
	if err != nil {
		return 0, err
	}
	pos++

	inst.BranchOnTrue = b1&0x80 != 0

	var offset int32
	if b1&0x40 != 0 {
		// single-byte form, 6-bit unsigned offset
		offset = int32(b1 & 0x3f)
	} else {
		b2, err := mem.ReadByte(pos)
		if err != nil {
			return 0, err
		}
		pos++
		raw := (uint16(b1&0x3f) << 8) | uint16(b2)
		// 14-bit signed value
		if raw&0x2000 != 0 {
			offset = int32(raw) - 0x4000
		} else {
			offset = int32(raw)
		}
	}

	inst.HasBranch = true
	inst.BranchOffset = offset
	return pos, nil
}
