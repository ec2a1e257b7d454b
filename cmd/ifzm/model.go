package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kestrelif/ifzm/zmachine"
)

// appState tracks what the host is waiting on from the player, mirroring
// the three states a Z-machine session can be parked in between
// directives: running freely, or blocked on a line/character read.
type appState int

const (
	appRunning appState = iota
	appAwaitingLine
	appAwaitingChar
)

// runStoryModel is the bubbletea Model driving one Engine through its
// directive/response protocol. Every Directive that doesn't need player
// input is answered immediately (continueWith); Read/ReadChar transition
// into an awaiting state until a matching key arrives.
type runStoryModel struct {
	eng       *zmachine.Engine
	storyPath string

	directiveCh chan zmachine.Directive
	responseCh  chan zmachine.Response

	width, height int

	upperLines  []string
	splitRows   int
	lowerWindow strings.Builder
	lowerActive bool
	cursorRow   int
	cursorCol   int

	style      lipgloss.Style
	statusText string

	state            appState
	input            textinput.Model
	validTerminators []uint8

	transcriptPath string
	transcript     *os.File

	fatalError string
	quit       bool
}

func newRunStoryModel(eng *zmachine.Engine, storyPath string) *runStoryModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 200

	m := &runStoryModel{
		eng:              eng,
		storyPath:        storyPath,
		directiveCh:      make(chan zmachine.Directive),
		responseCh:       make(chan zmachine.Response),
		input:            ti,
		lowerActive:      true,
		validTerminators: []uint8{13},
		style:            lipgloss.NewStyle(),
	}
	go m.pump()
	return m
}

// pump drives Engine.Execute on its own goroutine: it feeds the host's
// previous Response in, publishes the resulting Directive, and blocks for
// the next Response. Execute itself blocks mid-instruction whenever a
// handler calls emit, so this goroutine and the engine's internal one
// hand off control at every directive boundary.
func (m *runStoryModel) pump() {
	var resp zmachine.Response
	for {
		d, err := m.eng.Execute(resp)
		if err != nil {
			m.directiveCh <- zmachine.Directive{Kind: zmachine.DirectiveMessage, Text: err.Error(), Fatal: true}
			return
		}
		m.directiveCh <- d
		if d.Kind == zmachine.DirectiveQuit || (d.Kind == zmachine.DirectiveMessage && d.Fatal) {
			return
		}
		resp = <-m.responseCh
	}
}

type directiveMsg zmachine.Directive

func waitForDirective(ch <-chan zmachine.Directive) tea.Cmd {
	return func() tea.Msg {
		return directiveMsg(<-ch)
	}
}

// continueWith answers the in-flight directive and waits for the next
// one, all off the UI goroutine.
func (m *runStoryModel) continueWith(resp zmachine.Response) tea.Cmd {
	return func() tea.Msg {
		m.responseCh <- resp
		return directiveMsg(<-m.directiveCh)
	}
}

func (m *runStoryModel) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), waitForDirective(m.directiveCh))
}

func (m *runStoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 1
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.transcript != nil {
				m.transcript.Close()
			}
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case directiveMsg:
		return m.handleDirective(zmachine.Directive(msg))
	}
	return m, nil
}

func (m *runStoryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case appAwaitingChar:
		m.state = appRunning
		zchar, terminator := keyToZChar(msg)
		return m, m.continueWith(zmachine.Response{Kind: zmachine.ResponseChar, Char: rune(zchar), Terminator: terminator})

	case appAwaitingLine:
		_, terminator := keyToZChar(msg)
		if msg.Type == tea.KeyEnter || isTerminator(terminator, m.validTerminators) {
			text := m.input.Value()
			m.lowerWindow.WriteString(text + "\n")
			m.input.SetValue("")
			m.state = appRunning
			t := terminator
			if msg.Type == tea.KeyEnter {
				t = 13
			}
			return m, m.continueWith(zmachine.Response{Kind: zmachine.ResponseLine, Text: text, Terminator: t})
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// keyToZChar maps a bubbletea key message onto the Z-machine's input
// ZSCII codes for function/arrow keys (129-154).
func keyToZChar(msg tea.KeyMsg) (zchar uint8, terminator uint8) {
	switch msg.Type {
	case tea.KeyUp:
		return 129, 129
	case tea.KeyDown:
		return 130, 130
	case tea.KeyLeft:
		return 131, 131
	case tea.KeyRight:
		return 132, 132
	case tea.KeyF1:
		return 133, 133
	case tea.KeyF2:
		return 134, 134
	case tea.KeyF3:
		return 135, 135
	case tea.KeyEscape:
		return 27, 27
	case tea.KeyEnter:
		return 13, 13
	case tea.KeyBackspace:
		return 8, 8
	default:
		if len(msg.Runes) > 0 {
			return uint8(msg.Runes[0]), 0
		}
		return 0, 0
	}
}

func isTerminator(code uint8, valid []uint8) bool {
	if code == 0 {
		return false
	}
	for _, v := range valid {
		if v == code {
			return true
		}
	}
	return false
}

func (m *runStoryModel) handleDirective(d zmachine.Directive) (tea.Model, tea.Cmd) {
	switch d.Kind {
	case zmachine.DirectivePrint:
		m.writeText(d.Text)
		if d.Transcript {
			m.appendTranscript(d.Text)
		}
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveNewLine:
		m.writeText("\n")
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectivePrintTable:
		m.writeText(d.Text)
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveSetCursor:
		m.cursorRow, m.cursorCol = d.Line, d.Column
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveGetCursor:
		return m, m.continueWith(zmachine.Response{Kind: zmachine.ResponseCursorPosition, Line: m.cursorRow, Column: m.cursorCol})

	case zmachine.DirectiveSetColour:
		m.applyColour(d.Foreground, d.Background)
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveSetTextStyle:
		m.style = m.style.Bold(d.Bold).Italic(d.Italic).Reverse(d.Reverse)
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveSetFont:
		return m, m.continueWith(zmachine.Response{IntResult: 1}) // only font 1 (normal) is supported

	case zmachine.DirectiveSplitWindow:
		m.splitRows = d.Lines
		if len(m.upperLines) < m.splitRows {
			m.upperLines = append(m.upperLines, make([]string, m.splitRows-len(m.upperLines))...)
		} else {
			m.upperLines = m.upperLines[:m.splitRows]
		}
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveSetWindow:
		m.lowerActive = d.Window == 0
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveEraseWindow:
		m.eraseWindow(d.Window)
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveEraseLine:
		if m.cursorRow >= 0 && m.cursorRow < len(m.upperLines) {
			m.upperLines[m.cursorRow] = ""
		}
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveSetBufferMode:
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveShowStatus:
		m.statusText = formatStatus(d, m.width)
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveSetOutputStream:
		m.setOutputStream(d)
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveRead:
		m.state = appAwaitingLine
		m.input.CharLimit = d.TextBufferLen
		m.input.SetValue(d.InitialText)
		m.input.CursorEnd()
		if len(d.Terminators) > 0 {
			m.validTerminators = d.Terminators
		}
		return m, nil // wait for a key; see handleKey

	case zmachine.DirectiveReadChar:
		m.state = appAwaitingChar
		return m, nil

	case zmachine.DirectiveSoundEffect:
		return m.handleSoundEffect(d)

	case zmachine.DirectiveSave:
		return m.handleSave(d)

	case zmachine.DirectiveRestore:
		return m.handleRestore(d)

	case zmachine.DirectiveMessage:
		if d.Fatal {
			m.fatalError = d.Text
			if m.transcript != nil {
				m.transcript.Close()
			}
			return m, tea.Quit
		}
		fmt.Fprintln(os.Stderr, d.Text)
		return m, m.continueWith(zmachine.Response{})

	case zmachine.DirectiveQuit:
		m.quit = true
		if m.transcript != nil {
			m.transcript.Close()
		}
		return m, tea.Quit

	case zmachine.DirectiveRestart:
		m.lowerWindow.Reset()
		m.upperLines = nil
		return m, m.continueWith(zmachine.Response{})
	}

	return m, m.continueWith(zmachine.Response{})
}

func (m *runStoryModel) writeText(text string) {
	if m.lowerActive {
		m.lowerWindow.WriteString(text)
		return
	}
	segments := strings.Split(text, "\n")
	for i, seg := range segments {
		if m.cursorRow >= 0 && m.cursorRow < len(m.upperLines) {
			m.upperLines[m.cursorRow] = overlay(m.upperLines[m.cursorRow], seg, m.cursorCol, m.width)
			m.cursorCol += len(seg)
		}
		if i < len(segments)-1 {
			m.cursorRow++
			m.cursorCol = 0
		}
	}
}

// overlay writes replacement into row starting at col, padding row with
// spaces as needed and truncating to width; the upper window's terminal
// cells are addressed, not appended to, matching the SetCursor directive's
// semantics.
func overlay(row, replacement string, col, width int) string {
	if width <= 0 {
		width = col + len(replacement)
	}
	buf := []rune(row)
	for len(buf) < width {
		buf = append(buf, ' ')
	}
	for i, r := range replacement {
		if col+i < len(buf) {
			buf[col+i] = r
		}
	}
	return string(buf)
}

func (m *runStoryModel) eraseWindow(window int) {
	switch window {
	case -2, -1:
		m.lowerWindow.Reset()
		for i := range m.upperLines {
			m.upperLines[i] = ""
		}
	case 0:
		m.lowerWindow.Reset()
	case 1:
		for i := range m.upperLines {
			m.upperLines[i] = ""
		}
	}
}

func (m *runStoryModel) applyColour(fg, bg int16) {
	if fg > 1 {
		m.style = m.style.Foreground(lipgloss.Color(fmt.Sprintf("%d", zsciiColourToANSI(fg))))
	}
	if bg > 1 {
		m.style = m.style.Background(lipgloss.Color(fmt.Sprintf("%d", zsciiColourToANSI(bg))))
	}
}

// zsciiColourToANSI maps the Z-machine's 2-9 colour codes onto the
// nearest ANSI 16-colour index; 0/1 (current/default) are handled by the
// caller leaving the style unchanged.
func zsciiColourToANSI(c int16) int {
	table := map[int16]int{2: 0, 3: 1, 4: 2, 5: 3, 6: 4, 7: 5, 8: 6, 9: 7}
	if v, ok := table[c]; ok {
		return v
	}
	return 7
}

func (m *runStoryModel) setOutputStream(d zmachine.Directive) {
	if d.Stream == 2 {
		if d.StreamActive && m.transcript == nil {
			path := m.defaultTranscriptName()
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				m.transcript = f
				m.transcriptPath = path
			}
		} else if !d.StreamActive && m.transcript != nil {
			m.transcript.Close()
			m.transcript = nil
		}
	}
}

func (m *runStoryModel) appendTranscript(text string) {
	if m.transcript != nil {
		m.transcript.WriteString(text)
	}
}

func (m *runStoryModel) defaultTranscriptName() string {
	base := filepath.Base(m.storyPath)
	ext := filepath.Ext(base)
	if ext != "" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" {
		base = "story"
	}
	return base + ".transcript.txt"
}

// handleSoundEffect acks the directive and, since this host has no real
// audio device, synthesises immediate completion for finite-repeat
// effects so any `sound_effect` end-routine fires on the next step.
func (m *runStoryModel) handleSoundEffect(d zmachine.Directive) (tea.Model, tea.Cmd) {
	if d.Effect == 1 || d.Effect == 2 {
		fmt.Print("\a")
	} else if d.Effect != 0 {
		fmt.Fprintf(os.Stderr, "[sound %d]\n", d.Effect)
	}
	finished := d.Effect != 0 && d.Repeats != 0 // 0 repeats means loop forever; never self-completes
	return m, m.continueWith(zmachine.Response{SoundFinished: finished})
}

func formatStatus(d zmachine.Directive, width int) string {
	right := fmt.Sprintf("Score: %d  Moves: %d", d.ScoreOrHours, d.TurnsOrMins)
	if d.TimeBased {
		right = fmt.Sprintf("Time: %02d:%02d", d.ScoreOrHours, d.TurnsOrMins)
	}
	if width <= 0 {
		width = 80
	}
	pad := width - len(d.LocationText) - len(right)
	if pad < 1 {
		pad = 1
	}
	return d.LocationText + strings.Repeat(" ", pad) + right
}

func (m *runStoryModel) View() string {
	if m.fatalError != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("Z-machine error: " + m.fatalError)
	}
	if m.quit {
		return "\n[The story has ended. Press ctrl+c to exit.]\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	if m.statusText != "" {
		b.WriteString(lipgloss.NewStyle().Reverse(true).Width(m.width).Render(m.statusText))
		b.WriteString("\n")
	}
	for _, row := range m.upperLines {
		b.WriteString(row)
		b.WriteString("\n")
	}

	lower := wordwrap.String(m.lowerWindow.String(), m.width)
	lines := strings.Split(lower, "\n")
	maxLines := m.height - len(m.upperLines) - 2
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	b.WriteString(strings.Join(lines, "\n"))

	if m.state == appAwaitingLine {
		b.WriteString(m.input.View())
	}

	return b.String()
}
