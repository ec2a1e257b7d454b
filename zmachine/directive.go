package zmachine

// DirectiveKind identifies which host action Execute is requesting.
type DirectiveKind int

const (
	DirectivePrint DirectiveKind = iota
	DirectiveNewLine
	DirectivePrintTable
	DirectiveSetCursor
	DirectiveGetCursor
	DirectiveSetColour
	DirectiveSetTextStyle
	DirectiveSetFont
	DirectiveSplitWindow
	DirectiveSetWindow
	DirectiveEraseWindow
	DirectiveEraseLine
	DirectiveSetBufferMode
	DirectiveShowStatus
	DirectiveSetOutputStream
	DirectiveRead
	DirectiveReadChar
	DirectiveSoundEffect
	DirectiveSave
	DirectiveRestore
	DirectiveMessage
	DirectiveQuit
	DirectiveRestart
)

// Directive is the engine's request to the host, returned from Execute.
// Exactly the fields relevant to Kind are populated; the host must switch
// on Kind.
type Directive struct {
	Kind DirectiveKind

	// DirectivePrint / DirectivePrintTable / DirectiveMessage
	Text string

	// DirectivePrint: true when output stream 2 (transcript) is active,
	// meaning the host should also append Text to the transcript file.
	Transcript bool

	// DirectiveSetCursor / DirectiveGetCursor
	Line, Column int

	// DirectiveSetColour
	Foreground, Background int16

	// DirectiveSetTextStyle
	Reverse, Bold, Italic, FixedPitch bool

	// DirectiveSetFont
	Font int

	// DirectiveSplitWindow
	Lines int

	// DirectiveSetWindow / DirectiveEraseWindow
	Window int

	// DirectiveEraseLine / DirectiveSetBufferMode
	Flag bool

	// DirectiveShowStatus
	LocationText string
	ScoreOrHours int
	TurnsOrMins  int
	TimeBased    bool

	// DirectiveSetOutputStream
	Stream       int8
	StreamTable  uint32
	StreamActive bool

	// DirectiveRead
	TextBufferLen int
	InitialText   string
	TimedInputMS  int
	// Terminators lists the extra ZSCII codes (function/arrow keys,
	// 129-154 and 252-254, plus the always-included newline) that should
	// end input, taken from the story's terminator table.
	Terminators []uint8

	// DirectiveSoundEffect
	Effect, Volume, Repeats int

	// DirectiveSave / DirectiveRestore
	SuggestedName string
	// SaveData is the Quetzal-encoded snapshot for the host to write to
	// disk (DirectiveSave only); DirectiveRestore carries none and
	// expects the bytes back via Response.Data.
	SaveData []byte

	// DirectiveMessage
	Fatal bool
}

// ResponseKind identifies what kind of result the host is feeding back
// into Execute.
type ResponseKind int

const (
	ResponseNone ResponseKind = iota
	ResponseCursorPosition
	ResponseLine
	ResponseChar
	ResponseSaveResult
	ResponseRestoreResult
)

// Response carries the host's answer to the most recent Directive back
// into Execute.
type Response struct {
	Kind ResponseKind

	// ResponseCursorPosition
	Line, Column int

	// ResponseLine / ResponseChar
	Text string
	Char rune

	// Terminator is the ZSCII code of the key that ended input (a
	// function key or a configured terminating character); 13 for a
	// plain Enter.
	Terminator uint8

	// ResponseSaveResult / ResponseRestoreResult
	Success bool
	Data    []byte // the Quetzal bytes read back for a restore (saves send theirs in Directive.SaveData)

	// IntResult carries a single scalar reply (e.g. DirectiveSetFont's
	// previous font id).
	IntResult int

	// Interrupted is set on a ResponseLine/ResponseChar when the host
	// timed out waiting for input rather than returning text; the engine
	// dispatches the read's interrupt routine, if one was supplied.
	Interrupted bool

	// SoundFinished may be set on any Response to report that the sound
	// effect most recently started has finished playing since the last
	// Response; the engine checks this between instructions and fires
	// the pending end-routine, if any.
	SoundFinished bool
}
