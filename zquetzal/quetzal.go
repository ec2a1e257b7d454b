// Package zquetzal implements the Quetzal save-state codec (IFF form
// "IFZS"): IFhd identity chunk, CMem/UMem dynamic-memory chunks, and Stks
// frame dump, built on ziff's generic chunked container.
package zquetzal

import (
	"encoding/binary"
	"fmt"

	"github.com/kestrelif/ifzm/ziff"
	"github.com/kestrelif/ifzm/zframe"
)

// IFhd identifies the story a save belongs to and the PC to resume at.
type IFhd struct {
	Release  uint16
	Serial   [6]byte
	Checksum uint16
	PC       uint32 // 24-bit value
}

// Snapshot is a fully decoded Quetzal save: identity, dynamic memory (as
// raw bytes, already decompressed if the source was CMem), and frames.
type Snapshot struct {
	Header IFhd
	Memory []byte
	Stack  zframe.Stack
}

// frameFlags bit 4 ("does not store result") and low-4-bits locals count.
const frameFlagNoStore = 1 << 4

// Emit serialises a Snapshot to Quetzal bytes. useCMem selects CMem
// (RLE-XOR against pristine) vs UMem (raw) for the memory chunk; pristine
// is required only when useCMem is true.
func Emit(snap Snapshot, pristine []byte, useCMem bool) []byte {
	var chunks []ziff.Chunk

	chunks = append(chunks, ziff.Chunk{ID: "IFhd", Data: emitIFhd(snap.Header)})

	if useCMem {
		chunks = append(chunks, ziff.Chunk{ID: "CMem", Data: compress(snap.Memory, pristine)})
	} else {
		chunks = append(chunks, ziff.Chunk{ID: "UMem", Data: append([]byte(nil), snap.Memory...)})
	}

	chunks = append(chunks, ziff.Chunk{ID: "Stks", Data: emitStks(snap.Stack)})

	return ziff.Emit("IFZS", chunks)
}

func emitIFhd(h IFhd) []byte {
	data := make([]byte, 13)
	binary.BigEndian.PutUint16(data[0:2], h.Release)
	copy(data[2:8], h.Serial[:])
	binary.BigEndian.PutUint16(data[8:10], h.Checksum)
	data[10] = byte(h.PC >> 16)
	data[11] = byte(h.PC >> 8)
	data[12] = byte(h.PC)
	return data
}

// compress RLE-encodes (memory XOR pristine): zero runs as 0x00,(run-1),
// max run 256.
func compress(memory, pristine []byte) []byte {
	var out []byte
	i := 0
	for i < len(memory) {
		var b byte
		if i < len(pristine) {
			b = memory[i] ^ pristine[i]
		} else {
			b = memory[i]
		}
		if b == 0 {
			run := 1
			for run < 256 && i+run < len(memory) {
				var nb byte
				if i+run < len(pristine) {
					nb = memory[i+run] ^ pristine[i+run]
				} else {
					nb = memory[i+run]
				}
				if nb != 0 {
					break
				}
				run++
			}
			out = append(out, 0x00, byte(run-1))
			i += run
		} else {
			out = append(out, b)
			i++
		}
	}
	return out
}

func decompress(data, pristine []byte) []byte {
	out := make([]byte, len(pristine))
	copy(out, pristine)

	pos := 0
	i := 0
	for i < len(data) && pos < len(out) {
		b := data[i]
		i++
		if b == 0 && i < len(data) {
			run := int(data[i]) + 1
			i++
			pos += run
			continue
		}
		out[pos] ^= b
		pos++
	}
	return out
}

func emitStks(stack zframe.Stack) []byte {
	var out []byte
	for _, f := range stack.Frames {
		out = append(out, emitFrame(f)...)
	}
	return out
}

func emitFrame(f zframe.Frame) []byte {
	var out []byte

	// 24-bit return PC; the outermost frame carries a dummy PC value.
	out = append(out, byte(f.ReturnAddress>>16), byte(f.ReturnAddress>>8), byte(f.ReturnAddress))

	flags := uint8(len(f.Locals))
	storeVar := uint8(0)
	if f.ReturnSlot == nil {
		flags |= frameFlagNoStore
	} else {
		storeVar = *f.ReturnSlot
	}
	out = append(out, flags, storeVar)

	var argsMask uint8
	for i := uint8(0); i < f.ArgumentCount && i < 7; i++ {
		argsMask |= 1 << i
	}
	out = append(out, argsMask)

	out = append(out, byte(len(f.EvalStack)>>8), byte(len(f.EvalStack)))

	for _, local := range f.Locals {
		out = append(out, byte(local>>8), byte(local))
	}
	for _, v := range f.EvalStack {
		out = append(out, byte(v>>8), byte(v))
	}

	return out
}

// Parse decodes Quetzal bytes, requiring IFhd, Stks, and one of
// CMem/UMem. pristine is the running story's dynamic memory as loaded,
// used to invert CMem.
func Parse(data []byte, pristine []byte) (*Snapshot, error) {
	form, err := ziff.Parse(data)
	if err != nil {
		return nil, err
	}
	if form.SubID != "IFZS" {
		return nil, fmt.Errorf("quetzal: not an IFZS form (got %q)", form.SubID)
	}

	ifhdChunk, ok := form.Find("IFhd")
	if !ok {
		return nil, fmt.Errorf("quetzal: missing IFhd chunk")
	}
	header, err := parseIFhd(ifhdChunk.Data)
	if err != nil {
		return nil, err
	}

	stksChunk, ok := form.Find("Stks")
	if !ok {
		return nil, fmt.Errorf("quetzal: missing Stks chunk")
	}
	stack, err := parseStks(stksChunk.Data)
	if err != nil {
		return nil, err
	}

	var memory []byte
	if cmem, ok := form.Find("CMem"); ok {
		memory = decompress(cmem.Data, pristine)
	} else if umem, ok := form.Find("UMem"); ok {
		memory = append([]byte(nil), umem.Data...)
	} else {
		return nil, fmt.Errorf("quetzal: missing CMem/UMem chunk")
	}

	return &Snapshot{Header: *header, Memory: memory, Stack: *stack}, nil
}

func parseIFhd(data []byte) (*IFhd, error) {
	if len(data) < 13 {
		return nil, fmt.Errorf("quetzal: IFhd too short")
	}
	h := &IFhd{
		Release:  binary.BigEndian.Uint16(data[0:2]),
		Checksum: binary.BigEndian.Uint16(data[8:10]),
		PC:       uint32(data[10])<<16 | uint32(data[11])<<8 | uint32(data[12]),
	}
	copy(h.Serial[:], data[2:8])
	return h, nil
}

func parseStks(data []byte) (*zframe.Stack, error) {
	var frames []zframe.Frame
	pos := 0

	for pos < len(data) {
		if pos+8 > len(data) {
			return nil, fmt.Errorf("quetzal: truncated Stks frame header")
		}
		returnPC := uint32(data[pos])<<16 | uint32(data[pos+1])<<8 | uint32(data[pos+2])
		flags := data[pos+3]
		storeVar := data[pos+4]
		argsMask := data[pos+5]
		evalCount := int(data[pos+6])<<8 | int(data[pos+7])
		pos += 8

		localCount := int(flags & 0x0f)
		if pos+localCount*2 > len(data) {
			return nil, fmt.Errorf("quetzal: truncated locals")
		}
		locals := make([]uint16, localCount)
		for i := 0; i < localCount; i++ {
			locals[i] = binary.BigEndian.Uint16(data[pos : pos+2])
			pos += 2
		}

		if pos+evalCount*2 > len(data) {
			return nil, fmt.Errorf("quetzal: truncated eval stack")
		}
		evalStack := make([]uint16, evalCount)
		for i := 0; i < evalCount; i++ {
			evalStack[i] = binary.BigEndian.Uint16(data[pos : pos+2])
			pos += 2
		}

		argCount := uint8(0)
		for i := uint8(0); i < 7; i++ {
			if argsMask&(1<<i) != 0 {
				argCount = i + 1
			}
		}

		frame := zframe.Frame{
			ReturnAddress: returnPC,
			ArgumentCount: argCount,
			Locals:        locals,
			EvalStack:     evalStack,
		}
		if flags&frameFlagNoStore == 0 {
			sv := storeVar
			frame.ReturnSlot = &sv
		}
		frames = append(frames, frame)
	}

	return &zframe.Stack{Frames: frames}, nil
}
