// Package ziff implements the generic IFF chunked container format used
// by both Quetzal (save files) and Blorb (resource files): a top-level
// FORM with a sub-form id and a sequence of even-padded chunks, with
// FORM/LIST/CAT group chunks nesting further chunks.
package ziff

import (
	"encoding/binary"
	"fmt"
)

// Chunk is one parsed IFF chunk: its 4-character id, raw data (excluding
// the pad byte), and - for group chunks - its parsed children.
type Chunk struct {
	ID       string
	Data     []byte
	Children []Chunk // populated when ID is FORM/LIST/CAT
}

// Form is the parsed top-level container: the sub-form id (e.g. "IFZS",
// "IFRS") and its child chunks.
type Form struct {
	SubID    string
	Children []Chunk
}

var groupIDs = map[string]bool{"FORM": true, "LIST": true, "CAT ": true}

// Parse parses a top-level FORM container from data.
func Parse(data []byte) (*Form, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("iff: truncated container")
	}
	if string(data[0:4]) != "FORM" {
		return nil, fmt.Errorf("iff: missing FORM header")
	}
	length := binary.BigEndian.Uint32(data[4:8])
	if int(length)+8 > len(data) {
		return nil, fmt.Errorf("iff: FORM length %d exceeds buffer", length)
	}
	subID := string(data[8:12])

	children, err := parseChunks(data[12 : 8+length])
	if err != nil {
		return nil, err
	}

	return &Form{SubID: subID, Children: children}, nil
}

func parseChunks(data []byte) ([]Chunk, error) {
	var chunks []Chunk
	pos := 0

	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		length := binary.BigEndian.Uint32(data[pos+4 : pos+8])
		contentStart := pos + 8
		contentEnd := contentStart + int(length)
		if contentEnd > len(data) {
			return nil, fmt.Errorf("iff: chunk %q length %d exceeds buffer", id, length)
		}

		chunk := Chunk{ID: id, Data: data[contentStart:contentEnd]}

		if groupIDs[id] {
			if len(chunk.Data) < 4 {
				return nil, fmt.Errorf("iff: group chunk %q missing sub-id", id)
			}
			children, err := parseChunks(chunk.Data[4:])
			if err != nil {
				return nil, err
			}
			chunk.Children = children
		}

		chunks = append(chunks, chunk)

		pos = contentEnd
		if length%2 == 1 {
			pos++ // skip pad byte
		}
	}

	return chunks, nil
}

// Find returns the first direct child chunk with the given id.
func (f *Form) Find(id string) (*Chunk, bool) {
	for i := range f.Children {
		if f.Children[i].ID == id {
			return &f.Children[i], true
		}
	}
	return nil, false
}

// Emit serialises chunks into a top-level FORM container with sub-form id
// subID, even-padding each chunk.
func Emit(subID string, chunks []Chunk) []byte {
	var body []byte
	body = append(body, []byte(subID)...)
	for _, c := range chunks {
		body = append(body, EmitChunk(c)...)
	}

	out := make([]byte, 0, len(body)+8)
	out = append(out, []byte("FORM")...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	out = append(out, lenBuf[:]...)
	out = append(out, body...)
	return out
}

// EmitChunk serialises a single chunk (id + length + data), even-padded.
func EmitChunk(c Chunk) []byte {
	out := make([]byte, 0, 8+len(c.Data)+1)
	out = append(out, []byte(padID(c.ID))...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(c.Data)))
	out = append(out, lenBuf[:]...)
	out = append(out, c.Data...)
	if len(c.Data)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func padID(id string) string {
	for len(id) < 4 {
		id += " "
	}
	return id
}
