// Package zblorb implements the Blorb resource container: a resource
// index (RIdx) mapping usage/number pairs to chunk offsets, optional story
// binding (IFhd), loop (repeat count) metadata, and sound sample access
// (OGGV/AIFF chunks), built on ziff's generic chunked container.
package zblorb

import (
	"encoding/binary"
	"fmt"

	"github.com/kestrelif/ifzm/ziff"
)

// Usage identifies the kind of resource an RIdx entry refers to.
type Usage string

const (
	UsagePicture Usage = "Pict"
	UsageSound   Usage = "Snd "
	UsageExec    Usage = "Exec"
)

// Resource is one RIdx entry resolved to its chunk.
type Resource struct {
	Usage  Usage
	Number uint32
	Chunk  ziff.Chunk
}

// LoopEntry is one entry in an optional Loop chunk: a sound resource
// number and its repeat count (0 meaning infinite).
type LoopEntry struct {
	Number  uint32
	Repeats uint32
}

// File is a parsed Blorb resource file.
type File struct {
	Resources []Resource
	Loop      []LoopEntry
	StoryFile []byte // present when an Exec chunk binds an embedded story image
}

// Parse decodes a Blorb ("IFRS" form) file.
func Parse(data []byte) (*File, error) {
	form, err := ziff.Parse(data)
	if err != nil {
		return nil, err
	}
	if form.SubID != "IFRS" {
		return nil, fmt.Errorf("blorb: not an IFRS form (got %q)", form.SubID)
	}

	ridxChunk, ok := form.Find("RIdx")
	if !ok {
		return nil, fmt.Errorf("blorb: missing RIdx chunk")
	}

	type index struct {
		usage  Usage
		number uint32
		offset uint32
	}
	var entries []index
	d := ridxChunk.Data
	if len(d) < 4 {
		return nil, fmt.Errorf("blorb: RIdx too short")
	}
	count := binary.BigEndian.Uint32(d[0:4])
	pos := 4
	for i := uint32(0); i < count; i++ {
		if pos+12 > len(d) {
			return nil, fmt.Errorf("blorb: RIdx truncated")
		}
		entries = append(entries, index{
			usage:  Usage(d[pos : pos+4]),
			number: binary.BigEndian.Uint32(d[pos+4 : pos+8]),
			offset: binary.BigEndian.Uint32(d[pos+8 : pos+12]),
		})
		pos += 12
	}

	chunkAt := map[uint32]ziff.Chunk{}
	locateChunks(data, chunkAt)

	f := &File{}
	for _, e := range entries {
		c, ok := chunkAt[e.offset]
		if !ok {
			return nil, fmt.Errorf("blorb: RIdx offset %d has no chunk", e.offset)
		}
		f.Resources = append(f.Resources, Resource{Usage: e.usage, Number: e.number, Chunk: c})
		if e.usage == UsageExec {
			f.StoryFile = append([]byte(nil), c.Data...)
		}
	}

	if loopChunk, ok := form.Find("Loop"); ok {
		ld := loopChunk.Data
		for p := 0; p+8 <= len(ld); p += 8 {
			f.Loop = append(f.Loop, LoopEntry{
				Number:  binary.BigEndian.Uint32(ld[p : p+4]),
				Repeats: binary.BigEndian.Uint32(ld[p+4 : p+8]),
			})
		}
	}

	return f, nil
}

// locateChunks walks the top-level FORM body recording each chunk's file
// byte-offset (the offset RIdx entries reference, measured from the start
// of the file, matching the 'FORM' magic at byte 0).
func locateChunks(data []byte, out map[uint32]ziff.Chunk) {
	if len(data) < 12 {
		return
	}
	pos := 12
	end := len(data)
	if l := binary.BigEndian.Uint32(data[4:8]); int(l)+8 <= len(data) {
		end = int(l) + 8
	}
	for pos+8 <= end {
		id := string(data[pos : pos+4])
		length := binary.BigEndian.Uint32(data[pos+4 : pos+8])
		contentStart := pos + 8
		contentEnd := contentStart + int(length)
		if contentEnd > len(data) {
			break
		}
		out[uint32(pos)] = ziff.Chunk{ID: id, Data: data[contentStart:contentEnd]}

		pos = contentEnd
		if length%2 == 1 {
			pos++
		}
	}
}

// Sound returns the raw sample chunk (OGGV or AIFF) for the given sound
// resource number.
func (f *File) Sound(number uint32) (ziff.Chunk, bool) {
	for _, r := range f.Resources {
		if r.Usage == UsageSound && r.Number == number {
			return r.Chunk, true
		}
	}
	return ziff.Chunk{}, false
}

// IdentifiesStory reports whether an embedded IFhd chunk's checksum
// matches the running story, binding this Blorb to it per the resource
// index's optional "Frontispiece"/identity convention.
func (f *File) IdentifiesStory(form *ziff.Form, checksum uint16) bool {
	c, ok := form.Find("IFhd")
	if !ok {
		return true // unbound resource file, usable with any story
	}
	if len(c.Data) < 10 {
		return false
	}
	return binary.BigEndian.Uint16(c.Data[8:10]) == checksum
}

// Emit serialises resources (and an optional loop table) into Blorb bytes.
func Emit(resources []Resource, loop []LoopEntry) []byte {
	var chunks []ziff.Chunk

	// Resource data chunks follow RIdx; RIdx offsets are computed relative
	// to this emitted form, walked in the same order.
	offsets := make([]uint32, len(resources))
	pos := uint32(12) // FORM header + sub-id, before RIdx itself is prefixed below

	// The RIdx chunk must be emitted first per the format, so offsets are
	// pre-computed assuming RIdx occupies the slot immediately after it.
	ridxLen := 4 + 12*len(resources)
	pos += uint32(8 + ridxLen)
	if ridxLen%2 == 1 {
		pos++
	}

	for i, r := range resources {
		offsets[i] = pos
		encoded := ziff.EmitChunk(r.Chunk)
		pos += uint32(len(encoded))
	}

	ridxData := make([]byte, 4, ridxLen)
	binary.BigEndian.PutUint32(ridxData[0:4], uint32(len(resources)))
	for i, r := range resources {
		var entry [12]byte
		copy(entry[0:4], []byte(r.Usage))
		binary.BigEndian.PutUint32(entry[4:8], r.Number)
		binary.BigEndian.PutUint32(entry[8:12], offsets[i])
		ridxData = append(ridxData, entry[:]...)
	}
	chunks = append(chunks, ziff.Chunk{ID: "RIdx", Data: ridxData})

	for _, r := range resources {
		chunks = append(chunks, r.Chunk)
	}

	if len(loop) > 0 {
		loopData := make([]byte, 0, 8*len(loop))
		for _, l := range loop {
			var entry [8]byte
			binary.BigEndian.PutUint32(entry[0:4], l.Number)
			binary.BigEndian.PutUint32(entry[4:8], l.Repeats)
			loopData = append(loopData, entry[:]...)
		}
		chunks = append(chunks, ziff.Chunk{ID: "Loop", Data: loopData})
	}

	return ziff.Emit("IFRS", chunks)
}
