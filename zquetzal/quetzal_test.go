package zquetzal_test

import (
	"testing"

	"github.com/kestrelif/ifzm/zframe"
	"github.com/kestrelif/ifzm/zquetzal"
)

func sampleStack() zframe.Stack {
	storeVar := uint8(3)
	return zframe.Stack{Frames: []zframe.Frame{
		{ReturnAddress: 0, ArgumentCount: 0, Locals: nil, EvalStack: nil}, // synthesised main frame
		{
			ReturnAddress: 0x4321,
			ReturnSlot:    &storeVar,
			ArgumentCount: 2,
			Locals:        []uint16{10, 20},
			EvalStack:     []uint16{99},
		},
	}}
}

func TestEmitParseRoundTripUMem(t *testing.T) {
	memory := []byte{1, 2, 3, 4, 5}
	snap := zquetzal.Snapshot{
		Header: zquetzal.IFhd{Release: 7, Serial: [6]byte{'2', '6', '0', '1', '0', '1'}, Checksum: 0xBEEF, PC: 0x1234},
		Memory: memory,
		Stack:  sampleStack(),
	}

	data := zquetzal.Emit(snap, nil, false)

	got, err := zquetzal.Parse(data, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Header.Release != 7 || got.Header.Checksum != 0xBEEF || got.Header.PC != 0x1234 {
		t.Errorf("Header = %+v, want release=7 checksum=0xBEEF pc=0x1234", got.Header)
	}
	if string(got.Header.Serial[:]) != "260101" {
		t.Errorf("Serial = %q, want 260101", got.Header.Serial)
	}
	if len(got.Memory) != len(memory) {
		t.Fatalf("Memory length = %d, want %d", len(got.Memory), len(memory))
	}
	for i := range memory {
		if got.Memory[i] != memory[i] {
			t.Fatalf("Memory[%d] = %d, want %d", i, got.Memory[i], memory[i])
		}
	}

	if len(got.Stack.Frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(got.Stack.Frames))
	}
	f := got.Stack.Frames[1]
	if f.ReturnAddress != 0x4321 || f.ArgumentCount != 2 {
		t.Errorf("frame = %+v, want return 0x4321 argcount 2", f)
	}
	if f.ReturnSlot == nil || *f.ReturnSlot != 3 {
		t.Errorf("frame ReturnSlot = %v, want *3", f.ReturnSlot)
	}
	if len(f.Locals) != 2 || f.Locals[0] != 10 || f.Locals[1] != 20 {
		t.Errorf("frame Locals = %v, want [10 20]", f.Locals)
	}
	if len(f.EvalStack) != 1 || f.EvalStack[0] != 99 {
		t.Errorf("frame EvalStack = %v, want [99]", f.EvalStack)
	}
}

func TestEmitParseRoundTripCMem(t *testing.T) {
	pristine := []byte{0, 0, 0, 0, 0, 0}
	memory := []byte{0, 0, 9, 0, 0, 7}
	snap := zquetzal.Snapshot{
		Header: zquetzal.IFhd{Release: 1, Serial: [6]byte{'2', '6', '0', '1', '0', '1'}, Checksum: 1, PC: 0},
		Memory: memory,
		Stack:  zframe.Stack{Frames: []zframe.Frame{{}}},
	}

	data := zquetzal.Emit(snap, pristine, true)

	got, err := zquetzal.Parse(data, pristine)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i := range memory {
		if got.Memory[i] != memory[i] {
			t.Fatalf("Memory[%d] = %d, want %d", i, got.Memory[i], memory[i])
		}
	}
}

func TestParseRejectsMissingIFhd(t *testing.T) {
	snap := zquetzal.Snapshot{Stack: zframe.Stack{Frames: []zframe.Frame{{}}}}
	data := zquetzal.Emit(snap, nil, false)
	// Corrupt the first chunk's id so IFhd is no longer found.
	data[12] = 'X'
	if _, err := zquetzal.Parse(data, nil); err == nil {
		t.Errorf("Parse should fail when IFhd is missing")
	}
}
