// Package zobject implements the Z-machine object tree: parent/sibling/
// child links, the attribute bitset, and property-table access.
package zobject

import "fmt"

// Memory abstracts the byte-addressed story image.
type Memory interface {
	ReadByte(address uint32) (uint8, error)
	ReadWord(address uint32) (uint16, error)
	WriteByte(address uint32, value uint8) error
	WriteWord(address uint32, value uint16) error
}

// Tree resolves object entries against a loaded story image.
type Tree struct {
	mem             Memory
	objectTableBase uint32
	version         uint8
}

// NewTree constructs a Tree for the given object-table base address and
// story version.
func NewTree(mem Memory, objectTableBase uint32, version uint8) *Tree {
	return &Tree{mem: mem, objectTableBase: objectTableBase, version: version}
}

// entrySize and preambleWords differ between v3 (9-byte entries, 31
// default-property words) and v4+ (14-byte entries, 63 words).
func (t *Tree) entrySize() uint32 {
	if t.version <= 3 {
		return 9
	}
	return 14
}

func (t *Tree) preambleWords() uint32 {
	if t.version <= 3 {
		return 31
	}
	return 63
}

func (t *Tree) baseAddress(id uint16) uint32 {
	return t.objectTableBase + 2*t.preambleWords() + uint32(id-1)*t.entrySize()
}

// Object is a resolved view of one object-table entry.
type Object struct {
	ID              uint16
	Base            uint32
	Attributes      uint64 // top 32 (v3) or 48 (v4+) bits significant
	Parent          uint16
	Sibling         uint16
	Child           uint16
	PropertyTable   uint32
}

// Get resolves object id against the tree. id 0 is invalid.
func (t *Tree) Get(id uint16) (*Object, error) {
	if id == 0 {
		return nil, fmt.Errorf("object 0 does not exist")
	}

	base := t.baseAddress(id)
	obj := &Object{ID: id, Base: base}

	if t.version <= 3 {
		b0, _ := t.mem.ReadByte(base)
		b1, _ := t.mem.ReadByte(base + 1)
		b2, _ := t.mem.ReadByte(base + 2)
		b3, _ := t.mem.ReadByte(base + 3)
		obj.Attributes = uint64(b0)<<24 | uint64(b1)<<16 | uint64(b2)<<8 | uint64(b3)
		obj.Attributes <<= 32

		p, err := t.mem.ReadByte(base + 4)
		if err != nil {
			return nil, err
		}
		s, err := t.mem.ReadByte(base + 5)
		if err != nil {
			return nil, err
		}
		c, err := t.mem.ReadByte(base + 6)
		if err != nil {
			return nil, err
		}
		obj.Parent, obj.Sibling, obj.Child = uint16(p), uint16(s), uint16(c)

		propTable, err := t.mem.ReadWord(base + 7)
		if err != nil {
			return nil, err
		}
		obj.PropertyTable = uint32(propTable)
	} else {
		b0, _ := t.mem.ReadByte(base)
		b1, _ := t.mem.ReadByte(base + 1)
		b2, _ := t.mem.ReadByte(base + 2)
		b3, _ := t.mem.ReadByte(base + 3)
		b4, _ := t.mem.ReadByte(base + 4)
		b5, _ := t.mem.ReadByte(base + 5)
		obj.Attributes = (uint64(b0)<<40 | uint64(b1)<<32 | uint64(b2)<<24 | uint64(b3)<<16 | uint64(b4)<<8 | uint64(b5)) << 16

		p, err := t.mem.ReadWord(base + 6)
		if err != nil {
			return nil, err
		}
		s, err := t.mem.ReadWord(base + 8)
		if err != nil {
			return nil, err
		}
		c, err := t.mem.ReadWord(base + 10)
		if err != nil {
			return nil, err
		}
		obj.Parent, obj.Sibling, obj.Child = p, s, c

		propTable, err := t.mem.ReadWord(base + 12)
		if err != nil {
			return nil, err
		}
		obj.PropertyTable = uint32(propTable)
	}

	return obj, nil
}

// TestAttribute reports whether attribute bit n (0 = highest-order bit)
// is set.
func (o *Object) TestAttribute(n uint16) bool {
	if n > 63 {
		return false
	}
	mask := uint64(1) << (63 - n)
	return o.Attributes&mask == mask
}

func (t *Tree) writeAttributes(o *Object) error {
	if t.version <= 3 {
		word := uint32(o.Attributes >> 32)
		if err := t.mem.WriteByte(o.Base, uint8(word>>24)); err != nil {
			return err
		}
		if err := t.mem.WriteByte(o.Base+1, uint8(word>>16)); err != nil {
			return err
		}
		if err := t.mem.WriteByte(o.Base+2, uint8(word>>8)); err != nil {
			return err
		}
		return t.mem.WriteByte(o.Base+3, uint8(word))
	}

	bits := o.Attributes >> 16
	for i := uint32(0); i < 6; i++ {
		shift := uint(40 - 8*i)
		if err := t.mem.WriteByte(o.Base+i, uint8(bits>>shift)); err != nil {
			return err
		}
	}
	return nil
}

// SetAttribute sets attribute bit n and writes it back to memory.
func (t *Tree) SetAttribute(o *Object, n uint16) error {
	if n > 63 {
		return nil
	}
	o.Attributes |= uint64(1) << (63 - n)
	return t.writeAttributes(o)
}

// ClearAttribute clears attribute bit n and writes it back to memory.
func (t *Tree) ClearAttribute(o *Object, n uint16) error {
	if n > 63 {
		return nil
	}
	o.Attributes &^= uint64(1) << (63 - n)
	return t.writeAttributes(o)
}

func (t *Tree) setParent(o *Object, parent uint16) error {
	o.Parent = parent
	if t.version <= 3 {
		return t.mem.WriteByte(o.Base+4, uint8(parent))
	}
	return t.mem.WriteWord(o.Base+6, parent)
}

func (t *Tree) setSibling(o *Object, sibling uint16) error {
	o.Sibling = sibling
	if t.version <= 3 {
		return t.mem.WriteByte(o.Base+5, uint8(sibling))
	}
	return t.mem.WriteWord(o.Base+8, sibling)
}

func (t *Tree) setChild(o *Object, child uint16) error {
	o.Child = child
	if t.version <= 3 {
		return t.mem.WriteByte(o.Base+6, uint8(child))
	}
	return t.mem.WriteWord(o.Base+10, child)
}

// Remove detaches id from its current parent's child list, per the
// insert_obj/remove_obj contract. A no-op if the object has no parent.
func (t *Tree) Remove(id uint16) error {
	obj, err := t.Get(id)
	if err != nil {
		return err
	}
	if obj.Parent == 0 {
		return nil
	}

	parent, err := t.Get(obj.Parent)
	if err != nil {
		return err
	}

	if parent.Child == obj.ID {
		if err := t.setChild(parent, obj.Sibling); err != nil {
			return err
		}
	} else {
		currID := parent.Child
		found := false
		for currID != 0 {
			curr, err := t.Get(currID)
			if err != nil {
				return err
			}
			if curr.Sibling == obj.ID {
				if err := t.setSibling(curr, obj.Sibling); err != nil {
					return err
				}
				found = true
				break
			}
			currID = curr.Sibling
		}
		if !found {
			return fmt.Errorf("object tree state: broken sibling chain under parent %d", parent.ID)
		}
	}

	if err := t.setParent(obj, 0); err != nil {
		return err
	}
	return t.setSibling(obj, 0)
}

// Insert makes id the first child of newParent, pushing the prior first
// child to id's sibling slot. Detaches id from its current location
// first. A self-move (id already newParent's first-and-only relationship)
// is a no-op.
func (t *Tree) Insert(id uint16, newParent uint16) error {
	obj, err := t.Get(id)
	if err != nil {
		return err
	}
	if obj.Parent == newParent {
		return nil
	}

	if err := t.Remove(id); err != nil {
		return err
	}

	dest, err := t.Get(newParent)
	if err != nil {
		return err
	}

	if err := t.setSibling(obj, dest.Child); err != nil {
		return err
	}
	if err := t.setParent(obj, dest.ID); err != nil {
		return err
	}
	return t.setChild(dest, obj.ID)
}
