// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tejas/internal/engine"
	"github.com/verte-zerg/tejas/internal/model"
)

const (
	statusTTL    = 3 * time.Second
	saveTimeout  = 5 * time.Second
	textRows     = 3
	contentRatio = 0.70
)

// ResultSaver persists completed results for a user.
type ResultSaver interface {
	SaveResult(ctx context.Context, userID int64, result model.Result, savedAt time.Time) (model.Result, error)
}

// Options configures a Model.
type Options struct {
	Engine *engine.Engine
	Saver  ResultSaver
	// User is the signed-in account, nil when anonymous.
	User    *model.User
	BestWPM int
	Logger  *zap.Logger
	Now     func() time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	engine *engine.Engine
	saver  ResultSaver
	user   *model.User
	log    *zap.Logger
	now    func() time.Time

	width  int
	height int

	bestWPM      int
	savedSession uint64
	saving       bool

	status      string
	statusIsErr bool
	statusSeq   int
}

type savedMsg struct {
	sessionID uint64
	result    model.Result
	err       error
}

type statusExpiredMsg struct {
	seq int
}

// NewModel constructs a typing TUI model around an engine.
func NewModel(opts Options) *Model {
	m := &Model{
		engine:  opts.Engine,
		saver:   opts.Saver,
		user:    opts.User,
		bestWPM: opts.BestWPM,
		log:     opts.Logger,
		now:     opts.Now,
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case engine.Tick:
		m.engine.HandleTick(msg)
		return m, nil
	case savedMsg:
		return m, m.handleSaved(msg)
	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusIsErr = false
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.engine.Snapshot()
	var body string
	if snap.Phase == engine.PhaseComplete {
		body = m.resultView(snap)
	} else {
		body = m.typingView(snap)
	}
	footer := m.renderFooter(snap)
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	content := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return content + "\n" + footerLine
}

func (m *Model) typingView(snap engine.Snapshot) string {
	source := []rune(snap.SourceText)
	typed := []rune(snap.TypedText)
	cursorIndex := -1
	if len(typed) < len(source) {
		cursorIndex = len(typed)
	}
	styled := buildStyledRunes(source, typed, cursorIndex)

	width := m.contentWidth()
	lines, cursorLine := wrapStyledRunes(styled, width-1)
	text := strings.Join(visibleLines(lines, cursorLine, textRows), "\n")
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		m.header(snap),
		"",
		renderCards(liveCards(snap)),
		"",
		text,
	)
}

func (m *Model) header(snap engine.Snapshot) string {
	title := titleStyle.Render("tejas") + "  " + taglineStyle.Render("Where speed meets focus.")
	return lipgloss.JoinVertical(lipgloss.Center, title, renderModes(snap.DurationSeconds))
}

func renderModes(active int) string {
	parts := make([]string, 0, len(engine.Presets))
	for _, preset := range engine.Presets {
		label := fmt.Sprintf("%ds", preset)
		if preset == active {
			parts = append(parts, activeModeStyle.Render(label))
			continue
		}
		parts = append(parts, modeStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func liveCards(snap engine.Snapshot) []card {
	return []card{
		{label: "WPM", value: fmt.Sprintf("%d", snap.Metrics.WPM)},
		{label: "Accuracy", value: fmt.Sprintf("%d%%", snap.Metrics.Accuracy)},
		{label: "Raw", value: fmt.Sprintf("%d", snap.Metrics.RawWPM)},
		{label: "Errors", value: fmt.Sprintf("%d", snap.Metrics.Errors)},
		{label: "Time", value: formatSeconds(snap.RemainingSeconds)},
	}
}

func (m *Model) renderFooter(snap engine.Snapshot) string {
	segments := []string{}
	if snap.Phase == engine.PhaseComplete {
		segments = append(segments, "s save", "r restart", "q quit")
	} else {
		segments = append(segments, fmt.Sprintf("Progress %d%%", snap.Progress()), "tab mode", "esc restart", "ctrl+c quit")
	}
	if m.user != nil {
		account := m.user.Email
		if m.bestWPM > 0 {
			account += fmt.Sprintf(" · best %d WPM", m.bestWPM)
		}
		segments = append(segments, account)
	} else {
		segments = append(segments, "not signed in")
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.status == "" {
		return footer
	}
	style := statusStyle
	if m.statusIsErr {
		style = errorStyle
	}
	return style.Render(m.status) + "  " + footer
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*contentRatio), 2)
}

// setStatus shows a toast and schedules its expiry.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusIsErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

func formatSeconds(total int) string {
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
