package zmachine

// opcodeStoresResult reports whether the given opcode is followed by a
// store-variable byte, per the per-opcode tables in the Z-machine standard.
func opcodeStoresResult(version uint8, form Form, count OperandCount, n uint8) bool {
	switch count {
	case Count2OP:
		switch n {
		case 8, 9, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24:
			return true
		case 25: // call_2s, v4+
			return version >= 4
		}
		return false
	case Count1OP:
		switch n {
		case 1, 2, 3, 4, 8, 14:
			return true
		case 15: // not (v1-4); call_1n (v5+) does not store
			return version < 5
		}
		return false
	case Count0OP:
		switch n {
		case 5, 6: // save/restore, v4 only (v1-3 branch instead, v5+ moved to EXT)
			return version == 4
		case 9: // catch, v5+
			return version >= 5
		}
		return false
	case CountVAR:
		switch n {
		case 0, 7, 12, 22, 23:
			return true
		case 4: // sread/aread stores in v5+
			return version >= 5
		case 24: // not, v5+
			return version >= 5
		}
		return false
	case CountEXT:
		switch n {
		case 0, 1, 2, 3, 4, 9, 10, 12, 19, 24, 29:
			return true
		}
		return false
	}
	return false
}

// opcodeBranches reports whether the opcode is followed by a branch
// operand.
func opcodeBranches(version uint8, form Form, count OperandCount, n uint8) bool {
	switch count {
	case Count2OP:
		switch n {
		case 1, 2, 3, 4, 5, 6, 7, 10:
			return true
		}
	case Count1OP:
		switch n {
		case 0, 1, 2:
			return true
		}
	case Count0OP:
		switch n {
		case 5, 6: // save/restore branch in v1-3, store (no branch) in v4, moved to EXT in v5+
			return version < 4
		case 13, 15:
			return true
		}
	case CountVAR:
		if n == 23 { // scan_table
			return true
		}
		if n == 31 { // check_arg_count, v5+
			return version >= 5
		}
	case CountEXT:
		switch n {
		case 6, 24, 27:
			return true
		}
	}
	return false
}

// opcodeHasTextLiteral reports whether the opcode is followed by an
// inline encoded string rather than the normal operand trailer (print,
// print_ret).
func opcodeHasTextLiteral(form Form, count OperandCount, n uint8) bool {
	return count == Count0OP && (n == 2 || n == 3)
}
