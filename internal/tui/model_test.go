package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tejas/internal/clock"
	"github.com/verte-zerg/tejas/internal/engine"
	"github.com/verte-zerg/tejas/internal/generator"
	"github.com/verte-zerg/tejas/internal/model"
)

type fakeSaver struct {
	calls  int
	userID int64
	err    error
}

func (f *fakeSaver) SaveResult(_ context.Context, userID int64, result model.Result, savedAt time.Time) (model.Result, error) {
	f.calls++
	f.userID = userID
	if f.err != nil {
		return model.Result{}, f.err
	}
	result.ID = "0123456789abcdef"
	result.SavedAt = savedAt
	return result, nil
}

func newTestModel(t *testing.T, duration int, user *model.User, saver ResultSaver) *Model {
	t.Helper()
	e, err := engine.New(engine.Options{
		Words:           []string{"focus", "speed", "flow"},
		DurationSeconds: duration,
		Generator:       generator.NewWithSource(rand.NewSource(7)),
		Scheduler:       clock.NewManual(),
	})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return NewModel(Options{Engine: e, Saver: saver, User: user})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func typeAll(m *Model) {
	m.Update(runes(m.engine.Snapshot().SourceText))
}

func TestTypingStartsSession(t *testing.T) {
	m := newTestModel(t, 30, nil, nil)
	src := m.engine.Snapshot().SourceText

	m.Update(runes(src[:3]))
	snap := m.engine.Snapshot()
	require.Equal(t, engine.PhaseRunning, snap.Phase)
	require.Equal(t, src[:3], snap.TypedText)

	m.Update(key(tea.KeyBackspace))
	require.Equal(t, src[:2], m.engine.Snapshot().TypedText)
}

func TestSpaceAndEnterTypeSpaces(t *testing.T) {
	m := newTestModel(t, 30, nil, nil)
	m.Update(runes("ab"))
	m.Update(key(tea.KeySpace))
	require.Equal(t, "ab ", m.engine.Snapshot().TypedText)

	m.Update(key(tea.KeyEnter))
	require.Equal(t, "ab ", m.engine.Snapshot().TypedText, "line breaks collapse into the previous space")

	m.Update(runes("c"))
	m.Update(key(tea.KeyEnter))
	require.Equal(t, "ab c ", m.engine.Snapshot().TypedText)
}

func TestDeleteWord(t *testing.T) {
	m := newTestModel(t, 30, nil, nil)
	m.Update(runes("one two "))

	m.Update(key(tea.KeyCtrlW))
	require.Equal(t, "one ", m.engine.Snapshot().TypedText)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace, Alt: true})
	require.Equal(t, "", m.engine.Snapshot().TypedText)
	require.Equal(t, engine.PhaseRunning, m.engine.Snapshot().Phase, "clearing input does not reset the session")

	m.Update(key(tea.KeyCtrlW))
	require.Equal(t, "", m.engine.Snapshot().TypedText)
}

func TestPreviousWordStart(t *testing.T) {
	cases := map[string]int{
		"":         0,
		"abc":      0,
		"abc ":     0,
		"abc de":   4,
		"abc de  ": 4,
		"a b c":    4,
		" leading": 1,
	}
	for in, want := range cases {
		require.Equal(t, want, previousWordStart([]rune(in)), "input %q", in)
	}
}

func TestOvertypeRejected(t *testing.T) {
	m := newTestModel(t, 30, nil, nil)
	src := m.engine.Snapshot().SourceText
	m.Update(runes(src[:len(src)-1]))
	m.Update(runes("xy"))
	require.Equal(t, src[:len(src)-1], m.engine.Snapshot().TypedText)
}

func TestTypingWholeTextShowsResult(t *testing.T) {
	m := newTestModel(t, 30, nil, nil)
	typeAll(m)
	require.Equal(t, engine.PhaseComplete, m.engine.Snapshot().Phase)

	view := m.View()
	require.Contains(t, view, "Test complete")
	require.Contains(t, view, "Characters")
	require.Contains(t, view, "Consistency")

	m.Update(runes("x"))
	require.Equal(t, engine.PhaseComplete, m.engine.Snapshot().Phase, "typing after completion is ignored")
}

func TestTicksDriveCountdown(t *testing.T) {
	m := newTestModel(t, 15, nil, nil)
	m.Update(runes("f"))
	id := m.engine.Snapshot().SessionID

	for i := 0; i < 14; i++ {
		m.Update(engine.Tick{SessionID: id})
	}
	snap := m.engine.Snapshot()
	require.Equal(t, 1, snap.RemainingSeconds)
	require.Equal(t, engine.PhaseRunning, snap.Phase)

	m.Update(engine.Tick{SessionID: id + 1})
	require.Equal(t, 1, m.engine.Snapshot().RemainingSeconds, "ticks for other sessions are ignored")

	m.Update(engine.Tick{SessionID: id})
	snap = m.engine.Snapshot()
	require.Equal(t, engine.PhaseComplete, snap.Phase)
	require.Len(t, snap.Timeline, 15)
}

func TestRestartKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlR} {
		m := newTestModel(t, 30, nil, nil)
		m.Update(runes("fo"))
		before := m.engine.Snapshot().SessionID

		m.Update(key(k))
		snap := m.engine.Snapshot()
		require.Equal(t, engine.PhaseIdle, snap.Phase)
		require.Empty(t, snap.TypedText)
		require.Greater(t, snap.SessionID, before)
	}
}

func TestResultKeysRestart(t *testing.T) {
	m := newTestModel(t, 30, nil, nil)
	typeAll(m)
	m.Update(runes("r"))
	require.Equal(t, engine.PhaseIdle, m.engine.Snapshot().Phase)

	typeAll(m)
	m.Update(key(tea.KeyEnter))
	require.Equal(t, engine.PhaseIdle, m.engine.Snapshot().Phase)

	typeAll(m)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTabCyclesModes(t *testing.T) {
	m := newTestModel(t, 60, nil, nil)
	m.Update(runes("fo"))

	_, cmd := m.Update(key(tea.KeyTab))
	require.NotNil(t, cmd)
	require.Equal(t, 120, m.engine.Duration())
	require.Equal(t, "Mode: 120s", m.status)
	require.Equal(t, engine.PhaseIdle, m.engine.Snapshot().Phase, "switching mode restarts")

	m.Update(key(tea.KeyTab))
	require.Equal(t, 15, m.engine.Duration())
	require.Contains(t, m.View(), "15s")
}

func TestStatusExpiry(t *testing.T) {
	m := newTestModel(t, 30, nil, nil)
	m.setStatus("first", false)
	firstSeq := m.statusSeq
	m.setStatus("second", false)

	m.Update(statusExpiredMsg{seq: firstSeq})
	require.Equal(t, "second", m.status, "an older toast expiring keeps the newer one")

	m.Update(statusExpiredMsg{seq: m.statusSeq})
	require.Empty(t, m.status)
}

func TestSaveRequiresSignIn(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, 30, nil, saver)
	typeAll(m)

	m.Update(runes("s"))
	require.True(t, m.statusIsErr)
	require.Contains(t, m.status, "Sign in")
	require.Zero(t, saver.calls)
}

func TestSaveResult(t *testing.T) {
	saver := &fakeSaver{}
	user := &model.User{ID: 9, Email: "ada@example.com"}
	m := newTestModel(t, 30, user, saver)
	typeAll(m)
	sessionID := m.engine.Snapshot().SessionID

	_, cmd := m.Update(runes("s"))
	require.NotNil(t, cmd)
	require.True(t, m.saving)
	require.Equal(t, "Saving...", m.status)

	result, ok := m.engine.Result()
	require.True(t, ok)
	msg := saveResult(saver, user.ID, sessionID, result, time.Unix(0, 0))()
	saved, ok := msg.(savedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	require.Equal(t, int64(9), saver.userID)

	m.Update(saved)
	require.False(t, m.saving)
	require.Equal(t, "Saved result 01234567", m.status)
	require.Equal(t, result.WPM, m.bestWPM)

	m.Update(runes("s"))
	require.Equal(t, "Result already saved", m.status)
}

func TestSaveFailureShowsError(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	user := &model.User{ID: 1, Email: "ada@example.com"}
	m := newTestModel(t, 30, user, saver)
	typeAll(m)

	result, _ := m.engine.Result()
	msg := saveResult(saver, user.ID, m.engine.Snapshot().SessionID, result, time.Now())()
	m.Update(msg)
	require.True(t, m.statusIsErr)
	require.Equal(t, "Failed to save result", m.status)
	require.Zero(t, m.savedSession)
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, 30, &model.User{ID: 1, Email: "ada@example.com"}, nil)
	m.bestWPM = 72
	src := []rune(m.engine.Snapshot().SourceText)
	m.Update(runes(string(src[:len(src)/2])))

	snap := m.engine.Snapshot()
	require.InDelta(t, 50, snap.Progress(), 1)
	out := m.renderFooter(snap)
	progress := fmt.Sprintf("Progress %d%%", snap.Progress())
	for _, want := range []string{progress, "ada@example.com", "best 72 WPM", "tab mode"} {
		require.True(t, strings.Contains(out, want), "footer missing %q: %s", want, out)
	}

	anon := newTestModel(t, 30, nil, nil)
	require.Contains(t, anon.renderFooter(anon.engine.Snapshot()), "not signed in")
}

func TestViewWithWindowSize(t *testing.T) {
	m := newTestModel(t, 30, nil, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	require.Contains(t, view, "tejas")
	require.Contains(t, view, "Accuracy")
	require.Equal(t, 30, len(strings.Split(view, "\n")))
}

func TestFormatSeconds(t *testing.T) {
	require.Equal(t, "15s", formatSeconds(15))
	require.Equal(t, "1:00", formatSeconds(60))
	require.Equal(t, "2:05", formatSeconds(125))
}
