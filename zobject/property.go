package zobject

import "fmt"

// Property is a resolved view of one entry in an object's property table.
type Property struct {
	Number      uint8
	Size        uint8 // 1..64
	DataAddress uint32
	HeaderSize  uint8 // 1 or 2, bytes consumed by the size/number prefix
}

// propertyTableStart returns the address of the first property entry,
// skipping the length-prefixed short name.
func (t *Tree) propertyTableStart(o *Object) (uint32, error) {
	nameLenWords, err := t.mem.ReadByte(o.PropertyTable)
	if err != nil {
		return 0, err
	}
	return o.PropertyTable + 1 + uint32(nameLenWords)*2, nil
}

// ShortNameAddress returns the address of the property table's
// length-prefixed short-name Z-string data (after the length byte).
func (t *Tree) ShortNameAddress(o *Object) uint32 {
	return o.PropertyTable + 1
}

func (t *Tree) readPropertyAt(addr uint32) (Property, error) {
	sizeByte, err := t.mem.ReadByte(addr)
	if err != nil {
		return Property{}, err
	}

	if t.version <= 3 {
		size := (sizeByte >> 5) + 1
		number := sizeByte & 0x1f
		return Property{Number: number, Size: size, DataAddress: addr + 1, HeaderSize: 1}, nil
	}

	if sizeByte&0x80 != 0 {
		number := sizeByte & 0x3f
		sizeByte2, err := t.mem.ReadByte(addr + 1)
		if err != nil {
			return Property{}, err
		}
		size := sizeByte2 & 0x3f
		if size == 0 {
			size = 64
		}
		return Property{Number: number, Size: size, DataAddress: addr + 2, HeaderSize: 2}, nil
	}

	number := sizeByte & 0x3f
	size := uint8(1)
	if sizeByte&0x40 != 0 {
		size = 2
	}
	return Property{Number: number, Size: size, DataAddress: addr + 1, HeaderSize: 1}, nil
}

// walkProperties calls fn for each property in descending-number order
// starting at the table header, stopping when fn returns true or the
// 0-size terminator is reached.
func (t *Tree) walkProperties(o *Object, fn func(Property) bool) error {
	addr, err := t.propertyTableStart(o)
	if err != nil {
		return err
	}

	for {
		sizeByte, err := t.mem.ReadByte(addr)
		if err != nil {
			return err
		}
		if sizeByte == 0 {
			return nil
		}

		prop, err := t.readPropertyAt(addr)
		if err != nil {
			return err
		}
		if fn(prop) {
			return nil
		}
		addr = prop.DataAddress + uint32(prop.Size)
	}
}

// GetProperty resolves propNum's address/size on o, reporting false if o
// has no such property (callers read DefaultPropertyWord themselves).
// Error only on I/O failure; absence is not an error.
func (t *Tree) GetProperty(o *Object, propNum uint8) (Property, bool, error) {
	var found Property
	ok := false
	err := t.walkProperties(o, func(p Property) bool {
		if p.Number == propNum {
			found = p
			ok = true
			return true
		}
		return p.Number < propNum
	})
	return found, ok, err
}

// DefaultPropertyWord reads the default value for propNum from the
// object table's preamble (1-indexed property numbers).
func (t *Tree) DefaultPropertyWord(propNum uint8) (uint16, error) {
	addr := t.objectTableBase + 2*uint32(propNum-1)
	return t.mem.ReadWord(addr)
}

// ReadPropertyValue returns the property's value as a word, per get_prop:
// size 1 reads a byte, size 2 reads a word, any other size is an error.
func (t *Tree) ReadPropertyValue(prop Property) (uint16, error) {
	switch prop.Size {
	case 1:
		b, err := t.mem.ReadByte(prop.DataAddress)
		return uint16(b), err
	case 2:
		return t.mem.ReadWord(prop.DataAddress)
	default:
		return 0, fmt.Errorf("invalid object property size %d for get_prop", prop.Size)
	}
}

// PutProperty writes value into an existing property of size 1 or 2;
// fails otherwise per put_prop's contract.
func (t *Tree) PutProperty(prop Property, value uint16) error {
	switch prop.Size {
	case 1:
		return t.mem.WriteByte(prop.DataAddress, uint8(value))
	case 2:
		return t.mem.WriteWord(prop.DataAddress, value)
	default:
		return fmt.Errorf("invalid object property size %d for put_prop", prop.Size)
	}
}

// PropertyLength recovers a property's size given the address of its
// first data byte (the `get_prop_len` opcode's contract): 0 is a
// recognised special case meaning "no property".
func (t *Tree) PropertyLength(dataAddress uint32) (uint8, error) {
	if dataAddress == 0 {
		return 0, nil
	}
	sizeByte, err := t.mem.ReadByte(dataAddress - 1)
	if err != nil {
		return 0, err
	}

	if t.version <= 3 {
		return (sizeByte >> 5) + 1, nil
	}
	if sizeByte&0x80 != 0 {
		size := sizeByte & 0x3f
		if size == 0 {
			size = 64
		}
		return size, nil
	}
	if sizeByte&0x40 != 0 {
		return 2, nil
	}
	return 1, nil
}

// NextProperty implements get_next_prop: propNum 0 returns the
// highest-numbered (first) property; a named property number returns the
// next lower number, or 0 if none remains. Fails if propNum is named but
// not present.
func (t *Tree) NextProperty(o *Object, propNum uint8) (uint8, error) {
	if propNum == 0 {
		var first uint8
		err := t.walkProperties(o, func(p Property) bool {
			first = p.Number
			return true
		})
		return first, err
	}

	addr, err := t.propertyTableStart(o)
	if err != nil {
		return 0, err
	}

	for {
		sizeByte, err := t.mem.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		if sizeByte == 0 {
			return 0, fmt.Errorf("get_next_prop: property %d not present on object %d", propNum, o.ID)
		}
		prop, err := t.readPropertyAt(addr)
		if err != nil {
			return 0, err
		}
		if prop.Number == propNum {
			nextAddr := prop.DataAddress + uint32(prop.Size)
			nextSizeByte, err := t.mem.ReadByte(nextAddr)
			if err != nil {
				return 0, err
			}
			if nextSizeByte == 0 {
				return 0, nil
			}
			next, err := t.readPropertyAt(nextAddr)
			if err != nil {
				return 0, err
			}
			return next.Number, nil
		}
		addr = prop.DataAddress + uint32(prop.Size)
	}
}
