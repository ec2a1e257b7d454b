package main

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrelif/ifzm/zmachine"
)

// handleSave writes the Quetzal bytes the engine already produced to the
// default save filename next to the story file. The core never touches a
// filesystem itself; this is the one place that does.
func (m *runStoryModel) handleSave(d zmachine.Directive) (tea.Model, tea.Cmd) {
	path := m.saveFilePath(d.SuggestedName)
	err := os.WriteFile(path, d.SaveData, 0o644)
	return m, m.continueWith(zmachine.Response{Kind: zmachine.ResponseSaveResult, Success: err == nil})
}

// handleRestore reads the save file back and hands its bytes to the
// engine, which parses and validates the Quetzal payload itself.
func (m *runStoryModel) handleRestore(d zmachine.Directive) (tea.Model, tea.Cmd) {
	path := m.saveFilePath(d.SuggestedName)
	data, err := os.ReadFile(path)
	if err != nil {
		return m, m.continueWith(zmachine.Response{Kind: zmachine.ResponseRestoreResult, Success: false})
	}
	return m, m.continueWith(zmachine.Response{Kind: zmachine.ResponseRestoreResult, Success: true, Data: data})
}

func (m *runStoryModel) saveFilePath(suggested string) string {
	if suggested != "" {
		return suggested
	}
	base := filepath.Base(m.storyPath)
	ext := filepath.Ext(base)
	if ext != "" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" {
		base = "game"
	}
	return base + ".sav"
}
