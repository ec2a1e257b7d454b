package zmachine

import (
	"testing"

	"github.com/kestrelif/ifzm/zcore"
	"github.com/kestrelif/ifzm/zframe"
)

func newScreenTestEngine() *Engine {
	story := make([]uint8, 128)
	story[0] = 3
	mem := zcore.NewMemory(story, 128)
	header := zcore.NewHeader(mem)

	e := &Engine{
		core:        mem,
		header:      header,
		version:     3,
		directiveCh: make(chan Directive),
		responseCh:  make(chan Response),
	}
	e.stack.Push(zframe.Frame{})
	return e
}

func TestShowStatusEmitsLocationScoreAndTurns(t *testing.T) {
	e := newScreenTestEngine()
	// Global 0 (variable 16) holds 0, so no location object is looked up.
	e.core.WriteByte(62, 0) // object table header: no properties consulted here
	e.writeVariable(16, 0) // no location object: locationText stays empty
	e.writeVariable(17, uint16(asSigned16(-3)))
	e.writeVariable(18, 120)

	var got Directive
	errCh := make(chan *Error, 1)
	go func() { errCh <- e.showStatus() }()
	got = <-e.directiveCh
	e.responseCh <- Response{}
	if err := <-errCh; err != nil {
		t.Fatalf("showStatus: %v", err)
	}

	if got.Kind != DirectiveShowStatus {
		t.Fatalf("Kind = %v, want DirectiveShowStatus", got.Kind)
	}
	if got.LocationText != "" {
		t.Errorf("LocationText = %q, want empty (no location object)", got.LocationText)
	}
	if got.ScoreOrHours != -3 {
		t.Errorf("ScoreOrHours = %d, want -3", got.ScoreOrHours)
	}
	if got.TurnsOrMins != 120 {
		t.Errorf("TurnsOrMins = %d, want 120", got.TurnsOrMins)
	}
}

func asSigned16(n int16) uint16 {
	return uint16(n)
}

func TestGetCursorWritesLineAndColumn(t *testing.T) {
	e := newScreenTestEngine()
	const array = uint32(40)

	errCh := make(chan *Error, 1)
	go func() { errCh <- e.getCursor(uint16(array)) }()
	<-e.directiveCh
	e.responseCh <- Response{Line: 5, Column: 12}
	if err := <-errCh; err != nil {
		t.Fatalf("getCursor: %v", err)
	}

	line, _ := e.core.ReadWord(array)
	col, _ := e.core.ReadWord(array + 2)
	if line != 5 || col != 12 {
		t.Errorf("got line=%d col=%d, want line=5 col=12", line, col)
	}
}

func TestSetFontReturnsHostsPreviousFont(t *testing.T) {
	e := newScreenTestEngine()
	resultCh := make(chan uint16, 1)
	go func() { resultCh <- e.setFont(3) }()
	d := <-e.directiveCh
	if d.Font != 3 {
		t.Errorf("Font = %d, want 3", d.Font)
	}
	e.responseCh <- Response{IntResult: 1}
	if got := <-resultCh; got != 1 {
		t.Errorf("setFont returned %d, want 1", got)
	}
}

func TestSetTextStyleZeroMaskStillEmits(t *testing.T) {
	e := newScreenTestEngine()
	errCh := make(chan *Error, 1)
	go func() { errCh <- e.setTextStyle(0) }()
	d := <-e.directiveCh
	e.responseCh <- Response{}
	if err := <-errCh; err != nil {
		t.Fatalf("setTextStyle: %v", err)
	}
	if d.Reverse || d.Bold || d.Italic || d.FixedPitch {
		t.Errorf("a zero style mask should clear every flag, got %+v", d)
	}
}

func TestSetTextStyleDecodesFlagBits(t *testing.T) {
	e := newScreenTestEngine()
	errCh := make(chan *Error, 1)
	go func() { errCh <- e.setTextStyle(0x01 | 0x04) }()
	d := <-e.directiveCh
	e.responseCh <- Response{}
	if err := <-errCh; err != nil {
		t.Fatalf("setTextStyle: %v", err)
	}
	if !d.Reverse || d.Bold || !d.Italic || d.FixedPitch {
		t.Errorf("expected Reverse+Italic only, got %+v", d)
	}
}
