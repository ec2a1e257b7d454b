// Package ztable implements the table opcodes: scan_table, copy_table,
// print_table.
package ztable

// Memory abstracts story-image byte access.
type Memory interface {
	ReadByte(address uint32) (uint8, error)
	ReadWord(address uint32) (uint16, error)
	WriteByte(address uint32, value uint8) error
}

// Scan linearly searches length entries of byte-size fieldSize (default
// 2) for test, comparing as a word unless checkByte is set. Returns the
// matching entry's address, or 0 if not found.
func Scan(mem Memory, test uint16, base uint32, length uint16, fieldSize uint8, checkByte bool) (uint32, error) {
	if fieldSize == 0 {
		return 0, nil
	}

	ptr := base
	for i := uint16(0); i < length; i++ {
		var value uint16
		if checkByte {
			b, err := mem.ReadByte(ptr)
			if err != nil {
				return 0, err
			}
			value = uint16(b)
		} else {
			w, err := mem.ReadWord(ptr)
			if err != nil {
				return 0, err
			}
			value = w
		}
		if value == test {
			return ptr, nil
		}
		ptr += uint32(fieldSize)
	}
	return 0, nil
}

// Copy implements copy_table's three cases: dst==0 zeros len(src) bytes;
// length<0 copies forward even under overlap; length>0 copies using a
// temporary buffer so overlap doesn't corrupt the source mid-copy.
func Copy(mem interface {
	Memory
	WriteByte(address uint32, value uint8) error
}, src, dst uint32, length int16) error {
	size := uint32(length)
	if length < 0 {
		size = uint32(-length)
	}

	if dst == 0 {
		for i := uint32(0); i < size; i++ {
			if err := mem.WriteByte(src+i, 0); err != nil {
				return err
			}
		}
		return nil
	}

	if length < 0 {
		for i := uint32(0); i < size; i++ {
			b, err := mem.ReadByte(src + i)
			if err != nil {
				return err
			}
			if err := mem.WriteByte(dst+i, b); err != nil {
				return err
			}
		}
		return nil
	}

	tmp := make([]uint8, size)
	for i := uint32(0); i < size; i++ {
		b, err := mem.ReadByte(src + i)
		if err != nil {
			return err
		}
		tmp[i] = b
	}
	for i := uint32(0); i < size; i++ {
		if err := mem.WriteByte(dst+i, tmp[i]); err != nil {
			return err
		}
	}
	return nil
}

// Print renders a rectangular region of memory (print_table): width
// bytes per row, height rows (default 1), skip extra bytes between rows.
func Print(mem Memory, base uint32, width, height, skip uint16) (string, error) {
	if height == 0 {
		height = 1
	}

	var out []byte
	for row := uint16(0); row < height; row++ {
		if row > 0 {
			out = append(out, '\n')
		}
		rowBase := base + uint32(row)*(uint32(width)+uint32(skip))
		for col := uint16(0); col < width; col++ {
			b, err := mem.ReadByte(rowBase + uint32(col))
			if err != nil {
				return "", err
			}
			out = append(out, b)
		}
	}
	return string(out), nil
}
