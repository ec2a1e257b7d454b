// Command ifzm is the terminal host for the Z-machine core in package
// zmachine: it drives Engine.Execute in a loop, rendering directives with
// bubbletea/lipgloss and feeding keyboard input back as responses. It
// owns every piece of I/O the core deliberately stays out of: the
// terminal, save/restore files, and (as a beep-only stub) sound.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/kestrelif/ifzm/cmd/ifzm/catalogue"
	"github.com/kestrelif/ifzm/zblorb"
	"github.com/kestrelif/ifzm/zmachine"
)

var (
	romFilePath  string
	blorbPath    string
	errorPolicy  string
	cacheDirFlag string
)

func init() {
	flag.StringVar(&romFilePath, "rom", "", "path to a Z-machine story file (.z3/.z4/.z5/.z7/.z8)")
	flag.StringVar(&blorbPath, "resources", "", "path to a Blorb resource file (sound effects, optional embedded story)")
	flag.StringVar(&errorPolicy, "errors", "warn-once", "runtime error policy: abort, ignore, warn-once, warn-always")
	flag.StringVar(&cacheDirFlag, "cache", defaultCacheDir(), "directory used to cache the story catalogue")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ifzm")
}

func parsePolicy(name string) zmachine.Policy {
	switch name {
	case "abort":
		return zmachine.PolicyAbort
	case "ignore":
		return zmachine.PolicyIgnore
	case "warn-always":
		return zmachine.PolicyWarnAlways
	default:
		return zmachine.PolicyWarnOnce
	}
}

func loadResources(path string) *zblorb.File {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ifzm: reading resource file: %v\n", err)
		return nil
	}
	f, err := zblorb.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ifzm: parsing resource file: %v\n", err)
		return nil
	}
	return f
}

func newEngineModel(storyBytes []byte, storyPath string, resources *zblorb.File, policy zmachine.Policy) (tea.Model, error) {
	if resources != nil && resources.StoryFile != nil {
		storyBytes = resources.StoryFile
	}

	eng, err := zmachine.New(storyBytes, zmachine.Config{
		Policy:         policy,
		InterpreterID:  6, // "IBM PC" per the Z-machine standard's interpreter number table
		InterpreterVer: 'I',
		Resources:      resources,
	})
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}

	rows, cols := probeTerminalSize()
	eng.SetScreenGeometry(rows, cols)

	return newRunStoryModel(eng, storyPath), nil
}

// probeTerminalSize reads the controlling terminal's size before the
// first bubbletea frame arrives, so the header's screen geometry fields
// are correct from the very first opcode that inspects them.
func probeTerminalSize() (rows, cols uint8) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 25, 80
	}
	if w > 255 {
		w = 255
	}
	if h > 255 {
		h = 255
	}
	return uint8(h), uint8(w)
}

func main() {
	flag.Parse()
	policy := parsePolicy(errorPolicy)

	var model tea.Model

	if romFilePath != "" {
		storyBytes, err := os.ReadFile(romFilePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ifzm:", err)
			os.Exit(1)
		}
		resources := loadResources(blorbPath)
		model, err = newEngineModel(storyBytes, romFilePath, resources, policy)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ifzm:", err)
			os.Exit(1)
		}
	} else {
		model = catalogue.NewModel(func(storyBytes []byte, storyPath string) (tea.Model, error) {
			return newEngineModel(storyBytes, storyPath, nil, policy)
		}, cacheDirFlag)
	}

	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "ifzm:", err)
		os.Exit(1)
	}
}
