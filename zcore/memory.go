// Package zcore implements the Z-machine memory map: the byte-addressable
// story image, its dynamic/static/high partitioning, checksum, and the
// snapshot/compress primitives used by save and undo.
package zcore

import "encoding/binary"

// Memory is a loaded story image plus the pristine copy of its dynamic
// region retained at construction time.
type Memory struct {
	bytes      []uint8
	pristine   []uint8 // copy of bytes[0:staticMark] as loaded, never mutated
	staticMark uint32
}

// NewMemory partitions story at staticMark into dynamic/static/high regions
// and retains a pristine copy of the dynamic region.
func NewMemory(story []uint8, staticMark uint32) *Memory {
	pristine := make([]uint8, staticMark)
	copy(pristine, story[:staticMark])

	return &Memory{
		bytes:      story,
		pristine:   pristine,
		staticMark: staticMark,
	}
}

// Len is the total length of the story image.
func (m *Memory) Len() uint32 {
	return uint32(len(m.bytes))
}

// StaticMark is the address of the first byte of static memory.
func (m *Memory) StaticMark() uint32 {
	return m.staticMark
}

func (m *Memory) inRange(address uint32) bool {
	return address < uint32(len(m.bytes))
}

// ReadByte reads one byte. Reads are legal anywhere in the image.
func (m *Memory) ReadByte(address uint32) (uint8, error) {
	if !m.inRange(address) {
		return 0, errInvalidAddress(address)
	}
	return m.bytes[address], nil
}

// ReadWord reads a big-endian 16-bit word.
func (m *Memory) ReadWord(address uint32) (uint16, error) {
	if !m.inRange(address) || !m.inRange(address+1) {
		return 0, errInvalidAddress(address)
	}
	return binary.BigEndian.Uint16(m.bytes[address : address+2]), nil
}

// WriteByte writes one byte. Fails with IllegalAccess for addresses at or
// beyond staticMark.
func (m *Memory) WriteByte(address uint32, value uint8) error {
	if address >= m.staticMark {
		return errIllegalAccess(address)
	}
	if !m.inRange(address) {
		return errInvalidAddress(address)
	}
	m.bytes[address] = value
	return nil
}

// WriteWord writes a big-endian 16-bit word, subject to the same dynamic
// memory restriction as WriteByte.
func (m *Memory) WriteWord(address uint32, value uint16) error {
	if address >= m.staticMark {
		return errIllegalAccess(address)
	}
	if !m.inRange(address) || !m.inRange(address+1) {
		return errInvalidAddress(address)
	}
	binary.BigEndian.PutUint16(m.bytes[address:address+2], value)
	return nil
}

// Slice returns a read-only copy of bytes [start, start+len).
func (m *Memory) Slice(start, length uint32) ([]uint8, error) {
	if !m.inRange(start) || start+length > uint32(len(m.bytes)) {
		return nil, errInvalidAddress(start + length)
	}
	out := make([]uint8, length)
	copy(out, m.bytes[start:start+length])
	return out, nil
}

// RawBytes exposes the underlying buffer for components (header, object
// tree, dictionary) that need direct addressed access without the
// dynamic/static write check, such as one-time header initialisation.
// Callers must respect the same invariants ReadByte/WriteByte enforce.
func (m *Memory) RawBytes() []uint8 {
	return m.bytes
}

// Checksum sums bytes [0x40, fileLength) modulo 2^16.
func (m *Memory) Checksum(fileLength uint32) uint16 {
	var sum uint16
	limit := fileLength
	if limit > uint32(len(m.bytes)) {
		limit = uint32(len(m.bytes))
	}
	for ix := uint32(0x40); ix < limit; ix++ {
		sum += uint16(m.bytes[ix])
	}
	return sum
}

// Compress produces an RLE encoding of (current dynamic memory XOR
// pristine dynamic memory): non-zero bytes are emitted literally, runs of
// zero bytes are coded as 0x00 followed by (run length - 1), max run 256.
func (m *Memory) Compress() []uint8 {
	xor := make([]uint8, m.staticMark)
	for i := uint32(0); i < m.staticMark; i++ {
		xor[i] = m.bytes[i] ^ m.pristine[i]
	}

	var out []uint8
	i := 0
	for i < len(xor) {
		if xor[i] == 0 {
			run := 1
			for run < 256 && i+run < len(xor) && xor[i+run] == 0 {
				run++
			}
			out = append(out, 0x00, uint8(run-1))
			i += run
		} else {
			out = append(out, xor[i])
			i++
		}
	}
	return out
}

// Decompress inverts Compress against the pristine dynamic memory,
// replacing the current dynamic region.
func (m *Memory) Decompress(data []uint8) error {
	result := make([]uint8, m.staticMark)
	copy(result, m.pristine)

	pos := uint32(0)
	ix := 0
	for ix < len(data) {
		b := data[ix]
		ix++
		if b == 0 {
			if ix >= len(data) {
				return errInvalidFile("truncated CMem run")
			}
			run := uint32(data[ix]) + 1
			ix++
			pos += run
			continue
		}
		if pos >= m.staticMark {
			return errInvalidFile("CMem data overruns dynamic memory")
		}
		result[pos] ^= b
		pos++
	}

	copy(m.bytes[:m.staticMark], result)
	return nil
}

// Reset copies the pristine dynamic memory back over the live dynamic
// region, used by `restart`.
func (m *Memory) Reset() {
	copy(m.bytes[:m.staticMark], m.pristine)
}

// Restore replaces the live dynamic region with raw bytes (UMem form).
// The length must match staticMark exactly.
func (m *Memory) Restore(raw []uint8) error {
	if uint32(len(raw)) != m.staticMark {
		return errInvalidFile("UMem length does not match dynamic memory size")
	}
	copy(m.bytes[:m.staticMark], raw)
	return nil
}

// Pristine returns a copy of the dynamic memory as loaded, for Quetzal's
// UMem/CMem comparison base.
func (m *Memory) Pristine() []uint8 {
	out := make([]uint8, len(m.pristine))
	copy(out, m.pristine)
	return out
}

// DynamicSnapshot returns a copy of the current dynamic memory (UMem form).
func (m *Memory) DynamicSnapshot() []uint8 {
	out := make([]uint8, m.staticMark)
	copy(out, m.bytes[:m.staticMark])
	return out
}
