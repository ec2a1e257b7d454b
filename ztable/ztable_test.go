package ztable_test

import (
	"encoding/binary"
	"testing"

	"github.com/kestrelif/ifzm/ztable"
)

type fakeMemory []uint8

func (m fakeMemory) ReadByte(address uint32) (uint8, error) { return m[address], nil }
func (m fakeMemory) ReadWord(address uint32) (uint16, error) {
	return binary.BigEndian.Uint16(m[address : address+2]), nil
}
func (m fakeMemory) WriteByte(address uint32, value uint8) error {
	m[address] = value
	return nil
}

func TestScanFindsWordMatch(t *testing.T) {
	mem := make(fakeMemory, 16)
	binary.BigEndian.PutUint16(mem[0:2], 10)
	binary.BigEndian.PutUint16(mem[2:4], 20)
	binary.BigEndian.PutUint16(mem[4:6], 30)

	addr, err := ztable.Scan(mem, 20, 0, 3, 2, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if addr != 2 {
		t.Errorf("Scan got address %d, want 2", addr)
	}
}

func TestScanNotFoundReturnsZero(t *testing.T) {
	mem := make(fakeMemory, 16)
	addr, err := ztable.Scan(mem, 99, 0, 4, 2, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if addr != 0 {
		t.Errorf("Scan got address %d, want 0 for no match", addr)
	}
}

func TestScanByteMode(t *testing.T) {
	mem := fakeMemory{1, 2, 3, 4}
	addr, err := ztable.Scan(mem, 3, 0, 4, 1, true)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if addr != 2 {
		t.Errorf("Scan got address %d, want 2", addr)
	}
}

func TestCopyNonOverlapping(t *testing.T) {
	mem := fakeMemory{1, 2, 3, 0, 0, 0}
	if err := ztable.Copy(mem, 0, 3, 3); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if mem[3] != 1 || mem[4] != 2 || mem[5] != 3 {
		t.Errorf("Copy result = %v, want [1 2 3] at dst", mem[3:6])
	}
}

func TestCopyZeroesWhenDstIsZero(t *testing.T) {
	mem := fakeMemory{1, 2, 3}
	if err := ztable.Copy(mem, 0, 0, 3); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	for i, b := range mem {
		if b != 0 {
			t.Errorf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestCopyNegativeLengthForward(t *testing.T) {
	mem := fakeMemory{1, 2, 3, 4, 0, 0, 0, 0}
	if err := ztable.Copy(mem, 0, 4, -4); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	want := fakeMemory{1, 2, 3, 4, 1, 2, 3, 4}
	for i := range want {
		if mem[i] != want[i] {
			t.Fatalf("Copy result = %v, want %v", mem, want)
		}
	}
}

func TestPrintRectangularRegion(t *testing.T) {
	mem := fakeMemory("ABCDEFGHIJ")
	out, err := ztable.Print(mem, 0, 3, 2, 2)
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	if out != "ABC\nFGH" {
		t.Errorf("Print got %q, want %q", out, "ABC\nFGH")
	}
}
