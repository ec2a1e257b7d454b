package zcore

import "encoding/binary"

// Header is a typed view over the fixed 64-byte header region of a story
// image. It reads through to the backing Memory so that header mutations
// (e.g. screen geometry written at load) are visible to the running story.
type Header struct {
	mem *Memory
}

// NewHeader wraps mem's first 64 bytes.
func NewHeader(mem *Memory) *Header {
	return &Header{mem: mem}
}

func (h *Header) b(offset uint32) uint8 {
	v, _ := h.mem.ReadByte(offset)
	return v
}

func (h *Header) w(offset uint32) uint16 {
	v, _ := h.mem.ReadWord(offset)
	return v
}

func (h *Header) setB(offset uint32, v uint8) {
	raw := h.mem.RawBytes()
	if int(offset) < len(raw) {
		raw[offset] = v
	}
}

func (h *Header) setW(offset uint32, v uint16) {
	raw := h.mem.RawBytes()
	if int(offset)+1 < len(raw) {
		binary.BigEndian.PutUint16(raw[offset:offset+2], v)
	}
}

func (h *Header) Version() uint8           { return h.b(0x00) }
func (h *Header) Flags1() uint8            { return h.b(0x01) }
func (h *Header) SetFlags1(v uint8)        { h.setB(0x01, v) }
func (h *Header) ReleaseNumber() uint16    { return h.w(0x02) }
func (h *Header) StaticMark() uint16       { return h.w(0x0e) }
func (h *Header) InitialPC() uint16        { return h.w(0x06) }
func (h *Header) DictionaryBase() uint16   { return h.w(0x08) }
func (h *Header) ObjectTableBase() uint16  { return h.w(0x0a) }
func (h *Header) GlobalTableBase() uint16  { return h.w(0x0c) }
func (h *Header) AbbrevTableBase() uint16  { return h.w(0x18) }
func (h *Header) Checksum() uint16         { return h.w(0x1c) }
func (h *Header) FlagByte2() uint8         { return h.b(0x10) }
func (h *Header) SetFlagByte2(v uint8)     { h.setB(0x10, v) }

// Flags2Word reads the full two-byte Flags2 field (0x10/0x11); most
// interpreters only ever touch the low byte, but a save file's high byte
// is still live state that must survive a restore intact.
func (h *Header) Flags2Word() uint16     { return h.w(0x10) }
func (h *Header) SetFlags2Word(v uint16) { h.setW(0x10, v) }

// Serial returns the 6-byte ASCII serial number.
func (h *Header) Serial() [6]byte {
	var out [6]byte
	raw := h.mem.RawBytes()
	copy(out[:], raw[0x12:0x18])
	return out
}

// FileLength returns the declared story length, scaled by the
// version-dependent divisor (the header's "fileLength" field is stored
// pre-divided).
func (h *Header) FileLength() uint32 {
	divisor := uint32(2)
	switch {
	case h.Version() <= 3:
		divisor = 2
	case h.Version() <= 5:
		divisor = 4
	default:
		divisor = 8
	}
	return uint32(h.w(0x1a)) * divisor
}

func (h *Header) RoutinesOffset() uint16 { return h.w(0x28) }
func (h *Header) StringsOffset() uint16  { return h.w(0x2a) }

func (h *Header) TerminatorTableBase() uint16 { return h.w(0x2e) }

func (h *Header) DefaultBackground() uint8 { return h.b(0x2c) }
func (h *Header) DefaultForeground() uint8 { return h.b(0x2d) }
func (h *Header) SetDefaultBackground(v uint8) {
	h.setB(0x2c, v)
}
func (h *Header) SetDefaultForeground(v uint8) {
	h.setB(0x2d, v)
}

func (h *Header) ScreenRows() uint8  { return h.b(0x20) }
func (h *Header) ScreenCols() uint8  { return h.b(0x21) }
func (h *Header) SetScreenRows(v uint8) { h.setB(0x20, v) }
func (h *Header) SetScreenCols(v uint8) { h.setB(0x21, v) }

func (h *Header) ScreenWidthUnits() uint16      { return h.w(0x22) }
func (h *Header) ScreenHeightUnits() uint16     { return h.w(0x24) }
func (h *Header) SetScreenWidthUnits(v uint16)  { h.setW(0x22, v) }
func (h *Header) SetScreenHeightUnits(v uint16) { h.setW(0x24, v) }

func (h *Header) FontWidth() uint8  { return h.b(0x27) }
func (h *Header) FontHeight() uint8 { return h.b(0x26) }
func (h *Header) SetFontWidth(v uint8)  { h.setB(0x27, v) }
func (h *Header) SetFontHeight(v uint8) { h.setB(0x26, v) }

func (h *Header) ExtensionTableBase() uint16 { return h.w(0x36) }

// AlphabetTableBase returns the v5+ custom alphabet table address (0 means
// the story uses the standard A0/A1/A2 tables).
func (h *Header) AlphabetTableBase() uint16 { return h.w(0x34) }

func (h *Header) StandardRevision() uint16     { return h.w(0x32) }
func (h *Header) SetStandardRevision(v uint16) { h.setW(0x32, v) }

// SetInterpreterIdentity writes interpreter number/version at load time.
func (h *Header) SetInterpreterIdentity(number, version uint8) {
	h.setB(0x1e, number)
	h.setB(0x1f, version)
}

// SetCapabilityBits ORs in the interpreter's advertised capability flags
// (colours/bold/italic/fixed/timed-input/split-screen/sound), version
// appropriate.
func (h *Header) SetCapabilityBits(colours, bold, italic, fixedDefault, timedInput, splitScreen, sound bool) {
	var mask uint8
	if h.Version() <= 3 {
		if splitScreen {
			mask |= 0b0010_0000
		}
		if timedInput {
			mask |= 0b1000_0000
		}
		h.SetFlags1(h.Flags1() | mask)
		return
	}

	if colours {
		mask |= 0b0000_0001
	}
	if bold {
		mask |= 0b0000_0100
	}
	if italic {
		mask |= 0b0000_1000
	}
	if fixedDefault {
		mask |= 0b0001_0000
	}
	if splitScreen {
		mask |= 0b0010_0000
	}
	if timedInput {
		mask |= 0b1000_0000
	}
	h.SetFlags1(h.Flags1() | mask)

	if sound && h.Version() >= 5 {
		h.SetFlagByte2(h.FlagByte2() | 0b0000_0001)
	}
}

// StatusBarTimeBased reports flags1 bit 1 (v3 only: time- vs score-based
// status line).
func (h *Header) StatusBarTimeBased() bool {
	return h.Version() <= 3 && h.Flags1()&0b0000_0010 != 0
}
