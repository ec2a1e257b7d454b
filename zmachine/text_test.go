package zmachine

import (
	"testing"

	"github.com/kestrelif/ifzm/zcore"
)

func newTextTestEngine() *Engine {
	mem := zcore.NewMemory(make([]uint8, 64), 64)
	return &Engine{core: mem}
}

func TestWriteTextWithNoRedirectionNeedsNoHost(t *testing.T) {
	e := newTextTestEngine()
	// outStream1 is false, so writeText must not try to emit a directive
	// (which would block forever with nothing reading directiveCh).
	e.writeText("hello")
}

func TestStream3NestingFlushesInnermostFirst(t *testing.T) {
	e := newTextTestEngine()

	e.stream3 = append(e.stream3, stream3Frame{table: 10})
	e.writeText("AB")
	e.stream3 = append(e.stream3, stream3Frame{table: 20})
	e.writeText("CD")

	if err := e.closeStream3(); err != nil {
		t.Fatalf("closeStream3 (inner): %v", err)
	}
	if len(e.stream3) != 1 {
		t.Fatalf("closing the inner frame should leave one frame on the stack, got %d", len(e.stream3))
	}

	innerLen, err := e.core.ReadWord(20)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if innerLen != 2 {
		t.Errorf("inner stream-3 length word = %d, want 2", innerLen)
	}
	b0, _ := e.core.ReadByte(22)
	b1, _ := e.core.ReadByte(23)
	if string([]byte{b0, b1}) != "CD" {
		t.Errorf("inner stream-3 body = %q, want %q", string([]byte{b0, b1}), "CD")
	}

	// Text written after the inner frame closes should land back in the
	// outer frame, not reach the screen (outStream1 is false here anyway).
	e.writeText("EF")

	if err := e.closeStream3(); err != nil {
		t.Fatalf("closeStream3 (outer): %v", err)
	}
	if len(e.stream3) != 0 {
		t.Fatalf("closing the outer frame should empty the stack, got %d", len(e.stream3))
	}

	outerLen, err := e.core.ReadWord(10)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if outerLen != 4 {
		t.Errorf("outer stream-3 length word = %d, want 4 (\"ABEF\")", outerLen)
	}
}

func TestCloseStream3WithNothingOpenIsNoOp(t *testing.T) {
	e := newTextTestEngine()
	if err := e.closeStream3(); err != nil {
		t.Errorf("closeStream3 with no active redirection should be a no-op, got %v", err)
	}
}
