package zblorb_test

import (
	"testing"

	"github.com/kestrelif/ifzm/zblorb"
	"github.com/kestrelif/ifzm/ziff"
)

func TestEmitParseRoundTrip(t *testing.T) {
	resources := []zblorb.Resource{
		{Usage: zblorb.UsageSound, Number: 3, Chunk: ziff.Chunk{ID: "OGGV", Data: []byte{1, 2, 3}}},
		{Usage: zblorb.UsagePicture, Number: 1, Chunk: ziff.Chunk{ID: "PNG ", Data: []byte{9, 9}}},
	}
	loop := []zblorb.LoopEntry{{Number: 3, Repeats: 0}}

	data := zblorb.Emit(resources, loop)

	f, err := zblorb.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Resources) != 2 {
		t.Fatalf("got %d resources, want 2", len(f.Resources))
	}

	chunk, ok := f.Sound(3)
	if !ok {
		t.Fatalf("Sound(3) not found")
	}
	if string(chunk.Data) != "\x01\x02\x03" {
		t.Errorf("sound 3 data = %v, want [1 2 3]", chunk.Data)
	}

	if len(f.Loop) != 1 || f.Loop[0].Number != 3 || f.Loop[0].Repeats != 0 {
		t.Errorf("Loop = %+v, want a single entry for resource 3 with infinite repeats", f.Loop)
	}
}

func TestParseRejectsNonBlorbForm(t *testing.T) {
	data := ziff.Emit("IFZS", []ziff.Chunk{{ID: "IFhd", Data: []byte{1, 2, 3, 4}}})
	if _, err := zblorb.Parse(data); err == nil {
		t.Errorf("Parse should reject a non-IFRS form")
	}
}

func TestSoundMissingReturnsFalse(t *testing.T) {
	data := zblorb.Emit(nil, nil)
	f, err := zblorb.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := f.Sound(1); ok {
		t.Errorf("Sound(1) should not be found in an empty resource file")
	}
}
