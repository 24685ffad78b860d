package tui

import (
	"fmt"
	"slices"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tejas/internal/engine"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyCtrlR, tea.KeyEsc:
		m.restart()
		return m, nil
	case tea.KeyTab:
		return m, m.cycleMode()
	}
	if m.engine.Snapshot().Phase == engine.PhaseComplete {
		return m.handleResultKey(msg)
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if msg.Alt {
			m.deleteWord()
			return m, nil
		}
		m.deleteRune()
	case tea.KeyCtrlW:
		m.deleteWord()
	case tea.KeySpace:
		m.appendRunes([]rune{' '})
	case tea.KeyEnter:
		m.appendRunes([]rune{'\n'})
	case tea.KeyRunes:
		m.appendRunes(msg.Runes)
	}
	return m, nil
}

func (m *Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.restart()
		return m, nil
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "r":
			m.restart()
			return m, nil
		case "s":
			return m, m.save()
		}
	}
	return m, nil
}

func (m *Model) restart() {
	m.engine.Restart()
	m.saving = false
}

func (m *Model) cycleMode() tea.Cmd {
	current := m.engine.Duration()
	next := engine.Presets[0]
	if i := slices.Index(engine.Presets, current); i >= 0 {
		next = engine.Presets[(i+1)%len(engine.Presets)]
	}
	if err := m.engine.Configure(next); err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.saving = false
	return m.setStatus(fmt.Sprintf("Mode: %ds", next), false)
}

// appendRunes submits the typed value extended by runes. Values the engine
// rejects, such as ones longer than the text, leave the input unchanged.
func (m *Model) appendRunes(runes []rune) {
	typed := m.engine.Snapshot().TypedText
	m.engine.Submit(typed + string(runes))
}

func (m *Model) deleteRune() {
	typed := []rune(m.engine.Snapshot().TypedText)
	if len(typed) == 0 {
		return
	}
	m.engine.Submit(string(typed[:len(typed)-1]))
}

func (m *Model) deleteWord() {
	typed := []rune(m.engine.Snapshot().TypedText)
	if len(typed) == 0 {
		return
	}
	m.engine.Submit(string(typed[:previousWordStart(typed)]))
}

// previousWordStart returns the index where the word before the end of
// typed begins, skipping trailing spaces first.
func previousWordStart(typed []rune) int {
	i := len(typed)
	for i > 0 && unicode.IsSpace(typed[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(typed[i-1]) {
		i--
	}
	return i
}
