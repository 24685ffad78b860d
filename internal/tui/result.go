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
	"github.com/verte-zerg/tejas/internal/stats"
)

const graphHeight = 8

func (m *Model) resultView(snap engine.Snapshot) string {
	result, ok := m.engine.Result()
	if !ok {
		return ""
	}
	chars := fmt.Sprintf("Characters %d/%d/%d/%d", result.Chars.Correct, result.Chars.Incorrect, result.Chars.Extra, result.Chars.Missed)
	charsHint := footerStyle.Render("correct/incorrect/extra/missed")

	var graph strings.Builder
	width := 0
	if m.width > 0 {
		width = stats.PlotWidthFor(m.contentWidth())
	}
	if err := stats.PlotTimeline(&graph, result.Timeline, width, graphHeight, true); err != nil {
		m.log.Warn("failed to render timeline", zap.Error(err))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		m.header(snap),
		"",
		titleStyle.Render("Test complete"),
		"",
		renderCards(resultCards(result)),
		"",
		chars+"  "+charsHint,
		"",
		strings.TrimRight(graph.String(), "\n"),
	)
}

func resultCards(result model.Result) []card {
	return []card{
		{label: "WPM", value: fmt.Sprintf("%d", result.WPM)},
		{label: "Accuracy", value: fmt.Sprintf("%d%%", result.Accuracy)},
		{label: "Raw", value: fmt.Sprintf("%d", result.RawWPM)},
		{label: "Consistency", value: fmt.Sprintf("%d%%", result.Consistency)},
		{label: "Errors", value: fmt.Sprintf("%d", result.Errors)},
		{label: "Time", value: formatSeconds(result.ElapsedSeconds)},
	}
}

// save starts persisting the completed result. Outcomes arrive as savedMsg.
func (m *Model) save() tea.Cmd {
	snap := m.engine.Snapshot()
	switch {
	case m.user == nil:
		return m.setStatus("Sign in to save results: tejas login", true)
	case m.saver == nil:
		return m.setStatus("Saving is unavailable", true)
	case m.savedSession == snap.SessionID:
		return m.setStatus("Result already saved", false)
	case m.saving:
		return nil
	}
	result, ok := m.engine.Result()
	if !ok {
		return nil
	}
	m.saving = true
	return tea.Batch(
		m.setStatus("Saving...", false),
		saveResult(m.saver, m.user.ID, snap.SessionID, result, m.now()),
	)
}

func saveResult(saver ResultSaver, userID int64, sessionID uint64, result model.Result, savedAt time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		saved, err := saver.SaveResult(ctx, userID, result, savedAt)
		return savedMsg{sessionID: sessionID, result: saved, err: err}
	}
}

func (m *Model) handleSaved(msg savedMsg) tea.Cmd {
	m.saving = false
	if msg.err != nil {
		m.log.Error("failed to save result", zap.Uint64("session", msg.sessionID), zap.Error(msg.err))
		return m.setStatus("Failed to save result", true)
	}
	m.savedSession = msg.sessionID
	m.bestWPM = max(m.bestWPM, msg.result.WPM)
	m.log.Info("result saved",
		zap.String("result_id", msg.result.ID),
		zap.Int("wpm", msg.result.WPM),
		zap.Int("mode", msg.result.DurationSeconds))
	return m.setStatus(fmt.Sprintf("Saved result %s", shortID(msg.result.ID)), false)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
