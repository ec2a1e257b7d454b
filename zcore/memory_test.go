package zcore_test

import (
	"bytes"
	"testing"

	"github.com/kestrelif/ifzm/zcore"
)

func TestReadWriteWord(t *testing.T) {
	story := make([]uint8, 64)
	mem := zcore.NewMemory(story, 32)

	if err := mem.WriteWord(4, 0x1234); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	got, err := mem.ReadWord(4)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if got != 0x1234 {
		t.Errorf("ReadWord got %04x, want 1234", got)
	}
}

func TestWriteStaticMemoryFails(t *testing.T) {
	story := make([]uint8, 64)
	mem := zcore.NewMemory(story, 32)

	if err := mem.WriteByte(32, 1); err == nil {
		t.Errorf("WriteByte at staticMark should fail")
	}
	if err := mem.WriteByte(31, 1); err != nil {
		t.Errorf("WriteByte just below staticMark should succeed: %v", err)
	}
}

func TestReadOutOfRange(t *testing.T) {
	mem := zcore.NewMemory(make([]uint8, 8), 8)
	if _, err := mem.ReadByte(8); err == nil {
		t.Errorf("ReadByte past end of image should fail")
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	story := make([]uint8, 32)
	for i := range story {
		story[i] = uint8(i)
	}
	mem := zcore.NewMemory(story, 16)

	if err := mem.WriteByte(3, 0xff); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if err := mem.WriteByte(10, 0x00); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}

	compressed := mem.Compress()

	mem.Reset()
	if got, _ := mem.ReadByte(3); got != 3 {
		t.Fatalf("Reset did not restore pristine byte 3, got %d", got)
	}

	if err := mem.Decompress(compressed); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if got, _ := mem.ReadByte(3); got != 0xff {
		t.Errorf("Decompress did not restore modified byte 3, got %#x", got)
	}
	if got, _ := mem.ReadByte(10); got != 0x00 {
		t.Errorf("Decompress did not restore modified byte 10, got %#x", got)
	}
}

func TestRestoreRequiresExactLength(t *testing.T) {
	mem := zcore.NewMemory(make([]uint8, 32), 16)
	if err := mem.Restore(make([]uint8, 8)); err == nil {
		t.Errorf("Restore with wrong length should fail")
	}
	raw := bytes.Repeat([]uint8{0x42}, 16)
	if err := mem.Restore(raw); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got, _ := mem.ReadByte(0); got != 0x42 {
		t.Errorf("Restore did not apply raw bytes, got %#x", got)
	}
}

func TestChecksum(t *testing.T) {
	story := make([]uint8, 0x50)
	for i := 0x40; i < 0x50; i++ {
		story[i] = 1
	}
	mem := zcore.NewMemory(story, 0x40)
	if got := mem.Checksum(0x50); got != 16 {
		t.Errorf("Checksum got %d, want 16", got)
	}
}
