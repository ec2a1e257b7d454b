package zobject_test

import (
	"encoding/binary"
	"testing"

	"github.com/kestrelif/ifzm/zobject"
)

// fakeMemory is a flat, fully writable byte slice satisfying
// zobject.Memory, sized generously so object-table math never runs off
// the end.
type fakeMemory []uint8

func newFakeMemory() fakeMemory {
	return make(fakeMemory, 1024)
}

func (m fakeMemory) ReadByte(address uint32) (uint8, error) { return m[address], nil }
func (m fakeMemory) ReadWord(address uint32) (uint16, error) {
	return binary.BigEndian.Uint16(m[address : address+2]), nil
}
func (m fakeMemory) WriteByte(address uint32, value uint8) error {
	m[address] = value
	return nil
}
func (m fakeMemory) WriteWord(address uint32, value uint16) error {
	binary.BigEndian.PutUint16(m[address:address+2], value)
	return nil
}

func TestGetObjectV3Zero(t *testing.T) {
	mem := newFakeMemory()
	tree := zobject.NewTree(mem, 0, 3)

	if _, err := tree.Get(0); err == nil {
		t.Errorf("Get(0) should fail, object ids are 1-based")
	}
}

func TestSetClearAttributeV3(t *testing.T) {
	mem := newFakeMemory()
	tree := zobject.NewTree(mem, 0, 3)

	obj, err := tree.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if obj.TestAttribute(5) {
		t.Fatalf("attribute 5 should start clear")
	}

	if err := tree.SetAttribute(obj, 5); err != nil {
		t.Fatalf("SetAttribute: %v", err)
	}
	if !obj.TestAttribute(5) {
		t.Errorf("attribute 5 should be set after SetAttribute")
	}

	reread, err := tree.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reread.TestAttribute(5) {
		t.Errorf("attribute 5 should persist across a fresh Get")
	}

	if err := tree.ClearAttribute(obj, 5); err != nil {
		t.Fatalf("ClearAttribute: %v", err)
	}
	if obj.TestAttribute(5) {
		t.Errorf("attribute 5 should be clear after ClearAttribute")
	}
}

func TestInsertAndRemoveV3(t *testing.T) {
	mem := newFakeMemory()
	tree := zobject.NewTree(mem, 0, 3)

	// Three siblings all initially parentless; insert them under object 1
	// in reverse so object 4 ends up the head of the child chain.
	root, err := tree.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = root

	for _, id := range []uint16{2, 3, 4} {
		if err := tree.Insert(id, 1); err != nil {
			t.Fatalf("Insert(%d, 1): %v", id, err)
		}
	}

	root, err = tree.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if root.Child != 4 {
		t.Fatalf("root.Child = %d, want 4 (most recently inserted)", root.Child)
	}

	four, err := tree.Get(4)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if four.Sibling != 3 {
		t.Errorf("object 4's sibling = %d, want 3", four.Sibling)
	}

	if err := tree.Remove(3); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	four, _ = tree.Get(4)
	if four.Sibling != 2 {
		t.Errorf("after removing 3, object 4's sibling = %d, want 2", four.Sibling)
	}

	three, _ := tree.Get(3)
	if three.Parent != 0 || three.Sibling != 0 {
		t.Errorf("removed object should have parent and sibling cleared, got parent=%d sibling=%d", three.Parent, three.Sibling)
	}
}

func TestInsertSelfMoveIsNoOp(t *testing.T) {
	mem := newFakeMemory()
	tree := zobject.NewTree(mem, 0, 3)

	if err := tree.Insert(2, 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tree.Insert(2, 1); err != nil {
		t.Fatalf("second Insert with same parent should be a no-op, got error: %v", err)
	}

	root, _ := tree.Get(1)
	if root.Child != 2 {
		t.Errorf("root.Child = %d, want 2", root.Child)
	}
}
