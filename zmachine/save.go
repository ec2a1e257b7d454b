package zmachine

import (
	"github.com/kestrelif/ifzm/zcore"
	"github.com/kestrelif/ifzm/zquetzal"
)

// liveHeaderState holds the header fields the interpreter owns rather
// than the story: Flags2, default colours, and screen geometry. A
// restore or restore_undo overwrites the whole dynamic region with
// saved bytes, so these are captured beforehand and reapplied after,
// matching how the reference interpreter treats restore as swapping
// story state without disturbing the live display.
type liveHeaderState struct {
	flags2          uint16
	background      uint8
	foreground      uint8
	rows, cols      uint8
	widthU, heightU uint16
	fontW, fontH    uint8
}

func (e *Engine) captureLiveHeader() liveHeaderState {
	h := e.header
	return liveHeaderState{
		flags2:     h.Flags2Word(),
		background: h.DefaultBackground(),
		foreground: h.DefaultForeground(),
		rows:       h.ScreenRows(),
		cols:       h.ScreenCols(),
		widthU:     h.ScreenWidthUnits(),
		heightU:    h.ScreenHeightUnits(),
		fontW:      h.FontWidth(),
		fontH:      h.FontHeight(),
	}
}

func (s liveHeaderState) apply(h *zcore.Header) {
	h.SetFlags2Word(s.flags2)
	h.SetDefaultBackground(s.background)
	h.SetDefaultForeground(s.foreground)
	h.SetScreenRows(s.rows)
	h.SetScreenCols(s.cols)
	h.SetScreenWidthUnits(s.widthU)
	h.SetScreenHeightUnits(s.heightU)
	h.SetFontWidth(s.fontW)
	h.SetFontHeight(s.fontH)
}

// snapshot captures the engine's current dynamic memory and call stack
// into a Quetzal Snapshot, with pc recorded as the resume point (already
// past any store-variable byte, per the IFhd PC convention).
func (e *Engine) snapshot(pc uint32) zquetzal.Snapshot {
	return zquetzal.Snapshot{
		Header: zquetzal.IFhd{
			Release:  e.header.ReleaseNumber(),
			Serial:   e.header.Serial(),
			Checksum: e.header.Checksum(),
			PC:       pc,
		},
		Memory: e.core.DynamicSnapshot(),
		Stack:  e.stack.Clone(),
	}
}

// doSave serialises the current state to Quetzal bytes and asks the host
// to persist it. resumePC is the address immediately after the save
// instruction (including its store byte, for store-form versions).
func (e *Engine) doSave(resumePC uint32, suggestedName string) bool {
	snap := e.snapshot(resumePC)
	data := zquetzal.Emit(snap, e.core.Pristine(), true)

	resp := e.emit(Directive{Kind: DirectiveSave, SuggestedName: suggestedName, SaveData: data})
	return resp.Kind == ResponseSaveResult && resp.Success
}

// doRestore asks the host for save-file bytes, decodes and applies them.
// On success it repositions pc at the saved resume point and, for
// store-form save opcodes (v4, v5+), writes the distinguishing value 2
// into the save instruction's result variable (the byte immediately
// before that resume point).
func (e *Engine) doRestore(suggestedName string) (bool, *Error) {
	resp := e.emit(Directive{Kind: DirectiveRestore, SuggestedName: suggestedName})
	if resp.Kind != ResponseRestoreResult || !resp.Success {
		return false, nil
	}

	snap, err := zquetzal.Parse(resp.Data, e.core.Pristine())
	if err != nil {
		return false, newErr(RestoreError, true, "parsing save file: %v", err)
	}
	if snap.Header.Release != e.header.ReleaseNumber() || snap.Header.Serial != e.header.Serial() || snap.Header.Checksum != e.header.Checksum() {
		return false, newErr(RestoreError, true, "save file does not match the running story")
	}

	live := e.captureLiveHeader()
	if err := e.core.Restore(snap.Memory); err != nil {
		return false, newErr(RestoreError, true, "applying restored memory: %v", err)
	}
	live.apply(e.header)
	e.initHeader()
	e.stack = snap.Stack
	e.pc = snap.Header.PC

	if e.version == 4 || e.version >= 5 {
		if e.pc > 0 {
			if storeVar, rerr := e.core.ReadByte(e.pc - 1); rerr == nil {
				if werr := e.writeVariable(storeVar, 2); werr != nil {
					return false, werr
				}
			}
		}
	}

	return true, nil
}

// doSaveUndo pushes a snapshot onto the 10-deep undo ring, evicting the
// oldest entry once full.
func (e *Engine) doSaveUndo(resumePC uint32) {
	slot := undoSlot{
		memory: e.core.DynamicSnapshot(),
		stack:  e.stack.Clone(),
		pc:     resumePC,
	}
	e.undo = append(e.undo, slot)
	if len(e.undo) > maxUndoSlots {
		e.undo = e.undo[1:]
	}
}

// doRestoreUndo pops the most recent undo snapshot and applies it,
// applying the same "store 2" convention as doRestore.
func (e *Engine) doRestoreUndo() (bool, *Error) {
	if len(e.undo) == 0 {
		return false, nil
	}
	slot := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	live := e.captureLiveHeader()
	if err := e.core.Restore(slot.memory); err != nil {
		return false, newErr(RestoreError, true, "applying undo snapshot: %v", err)
	}
	live.apply(e.header)
	e.initHeader()
	e.stack = slot.stack
	e.pc = slot.pc

	if e.version == 4 || e.version >= 5 {
		if e.pc > 0 {
			if storeVar, rerr := e.core.ReadByte(e.pc - 1); rerr == nil {
				if werr := e.writeVariable(storeVar, 2); werr != nil {
					return false, werr
				}
			}
		}
	}
	return true, nil
}
