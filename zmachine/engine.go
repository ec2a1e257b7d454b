// Package zmachine implements the interpreter core: instruction decoding,
// opcode dispatch, and the Directive/Response host protocol. It never
// performs terminal, audio, or file I/O itself - every observable effect
// is expressed as a Directive for the host to carry out, and every piece
// of host-supplied data arrives as a Response.
package zmachine

import (
	"fmt"

	"github.com/kestrelif/ifzm/zblorb"
	"github.com/kestrelif/ifzm/zcore"
	"github.com/kestrelif/ifzm/zdict"
	"github.com/kestrelif/ifzm/zframe"
	"github.com/kestrelif/ifzm/zobject"
	"github.com/kestrelif/ifzm/zrand"
	"github.com/kestrelif/ifzm/zsound"
	"github.com/kestrelif/ifzm/zstring"
)

// undoSlot is one entry of the 10-deep in-memory save_undo ring.
type undoSlot struct {
	memory []uint8
	stack  zframe.Stack
	pc     uint32
}

const maxUndoSlots = 10

// Engine is a running story instance. Construct with New, then drive it
// with repeated calls to Execute.
type Engine struct {
	core      *zcore.Memory
	header    *zcore.Header
	objects   *zobject.Tree
	dict      *zdict.Dictionary
	alphabets *zstring.Alphabets
	rng       *zrand.Generator
	sound     *zsound.Manager
	resources *zblorb.File

	stack   zframe.Stack
	version uint8
	pc      uint32

	policy Policy

	undo       []undoSlot
	outStream1 bool // screen
	outStream2 bool // transcript
	// stream3 is the output-stream-3 (memory redirection) nesting stack;
	// text written while it is non-empty is buffered against its top
	// frame rather than reaching the screen.
	stream3 []stream3Frame

	catchDepths []int

	directiveCh chan Directive
	responseCh  chan Response
	done        chan struct{}
	started     bool
	finished    bool
	runErr      error

	warnedOnce map[ErrorKind]bool

	// soundFinishedPending records that the host's most recent Response
	// reported the playing sound effect ending; consulted between
	// instructions in run().
	soundFinishedPending bool

	// pendingInterrupt tracks an in-flight read/read_char interrupt
	// routine so doReturn can tell, by stack depth, when that routine's
	// own `ret` fires and route its value as the interrupt result rather
	// than a normal variable store.
	pendingInterrupt *interruptCall

	// cfg is retained so header initialisation (interpreter identity,
	// capability bits, standard revision) can be re-run after a restore
	// clobbers the dynamic memory region that holds it.
	cfg Config
}

// interruptKind distinguishes which blocking directive a synthesised
// interrupt routine was raised from.
type interruptKind int

const (
	interruptRead interruptKind = iota
	interruptReadChar
)

// interruptCall records the context needed to resolve a read/read_char
// interrupt routine's return value once it completes.
type interruptCall struct {
	depth      int // len(stack.Frames) immediately after the interrupt frame was pushed
	kind       interruptKind
	inst       *Instruction
	textBuffer uint32 // interruptRead only: zeroed on abort
}

// stream3Frame is one level of output-stream-3 memory redirection; table
// is the word address its buffered text is written back to on close.
type stream3Frame struct {
	table uint32
	buf   []string
}

// Config customises a new Engine beyond the story image itself.
type Config struct {
	Policy          Policy
	InterpreterID   uint8
	InterpreterVer  uint8
	Resources       *zblorb.File
	RandomizeOnLoad bool
}

// New loads story, validates its version, and returns a ready-to-run
// Engine. The first call to Execute starts the goroutine that drives
// instruction dispatch and blocks it at the first Directive.
func New(story []uint8, cfg Config) (*Engine, error) {
	if len(story) < 64 {
		return nil, fmt.Errorf("story image too short to contain a header")
	}

	version := story[0]
	if version < 3 || version == 6 || version > 8 {
		return nil, fmt.Errorf("unsupported story version %d", version)
	}

	mem := zcore.NewMemory(story, 0)
	header := zcore.NewHeader(mem)
	staticMark := uint32(header.StaticMark())
	mem = zcore.NewMemory(story, staticMark)
	header = zcore.NewHeader(mem)

	alphabets := zstring.LoadAlphabets(mem, alphabetTableBase(header))

	objects := zobject.NewTree(mem, uint32(header.ObjectTableBase()), version)

	var dict *zdict.Dictionary
	if base := uint32(header.DictionaryBase()); base != 0 {
		d, err := zdict.Parse(mem, base, version, alphabets)
		if err != nil {
			return nil, fmt.Errorf("parsing dictionary: %w", err)
		}
		dict = d
	}

	rng := zrand.NewSeeded()

	e := &Engine{
		core:        mem,
		header:      header,
		objects:     objects,
		dict:        dict,
		alphabets:   alphabets,
		rng:         rng,
		sound:       zsound.NewManager(cfg.Resources),
		resources:   cfg.Resources,
		version:     version,
		pc:          uint32(header.InitialPC()),
		policy:      cfg.Policy,
		directiveCh: make(chan Directive),
		responseCh:  make(chan Response),
		done:        make(chan struct{}),
		warnedOnce:  map[ErrorKind]bool{},
		cfg:         cfg,
	}
	e.stack.Push(zframe.Frame{})
	e.outStream1 = true
	e.initHeader()

	return e, nil
}

// initHeader (re-)asserts the header fields the interpreter itself owns:
// its identity, the capability bits it supports, and, for v5+, the
// standard revision it claims to implement. Called from New and again
// after restore/restore_undo replace dynamic memory wholesale.
func (e *Engine) initHeader() {
	e.header.SetInterpreterIdentity(e.cfg.InterpreterID, e.cfg.InterpreterVer)
	e.header.SetCapabilityBits(true, true, true, false, true, true, true)
	if e.version >= 5 {
		e.header.SetStandardRevision(0x0100)
	}
}

// SetScreenGeometry records the host's terminal size into the header
// before the first Execute call, so status-line width and split-window
// math agree with what the host can actually render.
func (e *Engine) SetScreenGeometry(rows, cols uint8) {
	e.header.SetScreenRows(rows)
	e.header.SetScreenCols(cols)
	e.header.SetScreenWidthUnits(uint16(cols))
	e.header.SetScreenHeightUnits(uint16(rows))
	e.header.SetFontWidth(1)
	e.header.SetFontHeight(1)
}

// Version reports the story file's Z-machine version, for hosts that
// need to branch on v3-only behaviour (e.g. the one-window status line).
func (e *Engine) Version() uint8 {
	return e.version
}

func alphabetTableBase(h *zcore.Header) uint32 {
	return uint32(h.AlphabetTableBase())
}

// Execute feeds resp (the host's answer to the previously returned
// Directive) into the running engine and returns the next Directive. The
// very first call should pass a zero Response; there is nothing yet to
// consume.
func (e *Engine) Execute(resp Response) (Directive, error) {
	if e.finished {
		return Directive{}, e.runErr
	}

	if !e.started {
		e.started = true
		go e.run()
	} else {
		e.responseCh <- resp
	}

	select {
	case d := <-e.directiveCh:
		return d, nil
	case <-e.done:
		e.finished = true
		return Directive{}, e.runErr
	}
}

// emit sends a Directive to Execute's caller and blocks for the Response.
// A Response carrying SoundFinished is latched so run's fetch loop can
// fire the pending sound end-routine at the next instruction boundary.
func (e *Engine) emit(d Directive) Response {
	e.directiveCh <- d
	resp := <-e.responseCh
	if resp.SoundFinished {
		e.soundFinishedPending = true
	}
	return resp
}

// finish terminates the goroutine, publishing err (nil on normal quit).
func (e *Engine) finish(err error) {
	e.runErr = err
	close(e.done)
}

// run is the interpreter's main fetch-decode-execute loop, run on its own
// goroutine so that emit can block mid-instruction waiting on a Response.
func (e *Engine) run() {
	for {
		if e.soundFinishedPending {
			e.soundFinishedPending = false
			if routine, ok := e.sound.CompleteCycle(); ok {
				if cerr := e.doCall(uint16(routine), nil, e.pc, nil); cerr != nil {
					e.finish(cerr)
					return
				}
			}
		}

		frame := e.stack.Top()
		inst, err := Decode(e.core, e.pc, e.version)
		if err != nil {
			e.finish(newErr(InvalidAddress, false, "decoding instruction at %06x: %v", e.pc, err))
			return
		}

		if inst.HasText {
			text, length, derr := zstring.Decode(e.core, inst.Address+1, e.alphabets, uint32(e.header.AbbrevTableBase()), true)
			if derr != nil {
				e.finish(newErr(InvalidInstruction, false, "decoding text literal at %06x: %v", inst.Address, derr))
				return
			}
			inst.Text = text
			inst.NextAddress = inst.Address + 1 + length
		}

		frame.PC = inst.NextAddress
		e.pc = inst.NextAddress

		if zerr := e.execute(inst); zerr != nil {
			if zerr.isHalt() {
				e.finish(nil)
				return
			}
			if !e.handleError(zerr) {
				e.finish(zerr.(*Error))
				return
			}
		}
	}
}

// haltSignal is a sentinel returned by opcode handlers that end the
// session normally (quit) rather than via error.
type haltSignal struct{}

func (haltSignal) isHalt() bool { return true }

// zerror is implemented by both *Error and haltSignal so execute's
// control-flow plumbing stays uniform.
type zerror interface {
	isHalt() bool
}

func (e *Error) isHalt() bool { return false }

// handleError applies the configured Policy to a recoverable *Error,
// possibly emitting a DirectiveMessage, and reports whether execution
// should continue.
func (e *Engine) handleError(err zerror) bool {
	zerr, ok := err.(*Error)
	if !ok {
		return false
	}

	if zerr.Kind.isFatal() || !zerr.Recoverable {
		e.emit(Directive{Kind: DirectiveMessage, Text: zerr.Error(), Fatal: true})
		return false
	}

	switch e.policy {
	case PolicyAbort:
		e.emit(Directive{Kind: DirectiveMessage, Text: zerr.Error(), Fatal: true})
		return false
	case PolicyIgnore:
		// fall through to resume below
	case PolicyWarnOnce:
		if !e.warnedOnce[zerr.Kind] {
			e.warnedOnce[zerr.Kind] = true
			e.emit(Directive{Kind: DirectiveMessage, Text: zerr.Error(), Fatal: false})
		}
	case PolicyWarnAlways:
		e.emit(Directive{Kind: DirectiveMessage, Text: zerr.Error(), Fatal: false})
	}

	if zerr.NextAddress != nil {
		e.pc = *zerr.NextAddress
		return true
	}
	return false
}

func packedAddress(h *zcore.Header, version uint8, packed uint16, isRoutine bool) uint32 {
	switch {
	case version <= 3:
		return uint32(packed) * 2
	case version <= 5:
		return uint32(packed) * 4
	case version == 7:
		if isRoutine {
			return uint32(packed)*4 + 8*uint32(h.RoutinesOffset())
		}
		return uint32(packed)*4 + 8*uint32(h.StringsOffset())
	default: // 8
		return uint32(packed) * 8
	}
}
