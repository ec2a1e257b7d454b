package ziff_test

import (
	"testing"

	"github.com/kestrelif/ifzm/ziff"
)

func TestEmitParseRoundTrip(t *testing.T) {
	chunks := []ziff.Chunk{
		{ID: "IFhd", Data: []byte{1, 2, 3}}, // odd length, exercises pad byte
		{ID: "CMem", Data: []byte{4, 5, 6, 7}},
	}
	data := ziff.Emit("IFZS", chunks)

	form, err := ziff.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if form.SubID != "IFZS" {
		t.Errorf("SubID = %q, want IFZS", form.SubID)
	}
	if len(form.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(form.Children))
	}

	hd, ok := form.Find("IFhd")
	if !ok {
		t.Fatalf("Find(IFhd) failed")
	}
	if string(hd.Data) != "\x01\x02\x03" {
		t.Errorf("IFhd data = %v, want [1 2 3]", hd.Data)
	}

	mem, ok := form.Find("CMem")
	if !ok {
		t.Fatalf("Find(CMem) failed")
	}
	if len(mem.Data) != 4 {
		t.Errorf("CMem data length = %d, want 4", len(mem.Data))
	}
}

func TestParseNestedGroupChunk(t *testing.T) {
	inner := ziff.EmitChunk(ziff.Chunk{ID: "Fspc", Data: []byte{9}})
	listBody := append([]byte("Snd "), inner...)
	data := ziff.Emit("IFRS", []ziff.Chunk{{ID: "LIST", Data: listBody}})

	form, err := ziff.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	list, ok := form.Find("LIST")
	if !ok {
		t.Fatalf("Find(LIST) failed")
	}
	if len(list.Children) != 1 || list.Children[0].ID != "Fspc" {
		t.Fatalf("LIST children = %+v, want one Fspc chunk", list.Children)
	}
}

func TestParseRejectsMissingForm(t *testing.T) {
	if _, err := ziff.Parse([]byte("NOPE0000junk")); err == nil {
		t.Errorf("Parse should reject a buffer without a FORM header")
	}
}

func TestParseRejectsTruncatedLength(t *testing.T) {
	data := ziff.Emit("IFZS", []ziff.Chunk{{ID: "IFhd", Data: []byte{1, 2, 3, 4}}})
	truncated := data[:len(data)-2]
	if _, err := ziff.Parse(truncated); err == nil {
		t.Errorf("Parse should reject a FORM whose declared length exceeds the buffer")
	}
}
