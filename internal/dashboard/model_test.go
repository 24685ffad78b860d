package dashboard

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tejas/internal/model"
	"github.com/verte-zerg/tejas/internal/store"
)

func newTestDashboard(t *testing.T, results int) *Model {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tejas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	user, err := st.CreateUser(ctx, "ada@example.com", "hash", time.Unix(0, 0))
	require.NoError(t, err)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < results; i++ {
		_, err := st.SaveResult(ctx, user.ID, model.Result{
			WPM:             60 + i,
			RawWPM:          65 + i,
			Accuracy:        95,
			Consistency:     80,
			DurationSeconds: []int{15, 30}[i%2],
			ElapsedSeconds:  15,
			CompletedAt:     base.Add(time.Duration(i) * time.Hour),
		}, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	m := NewModel(st, user.ID, model.HistoryFilter{}, 5)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestOverviewShowsProfile(t *testing.T) {
	m := newTestDashboard(t, 3)
	require.Empty(t, m.errMsg)
	require.Len(t, m.report.Results, 3)

	view := m.View()
	require.Contains(t, view, "ada@example.com")
	require.Contains(t, view, "Best WPM")
	require.Contains(t, view, "62")
	require.Equal(t, 40, len(strings.Split(view, "\n")))
}

func TestOverviewWithoutResults(t *testing.T) {
	m := newTestDashboard(t, 0)
	require.Contains(t, m.View(), "No results found")
}

func TestHistoryTabListsNewestFirst(t *testing.T) {
	m := newTestDashboard(t, 3)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabHistory, m.activeTab)

	rows := m.history.Rows()
	require.Len(t, rows, 3)
	require.Equal(t, "62", rows[0][2])
	require.Equal(t, "60", rows[2][2])

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabOverview, m.activeTab, "tabs wrap around")
}

func TestCurveWindowKeys(t *testing.T) {
	m := newTestDashboard(t, 2)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	require.Equal(t, 10, m.window)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	require.Equal(t, 1, m.window)
}

func TestFilterForm(t *testing.T) {
	m := newTestDashboard(t, 4)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.filterMode)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("30")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.filterMode)
	require.Equal(t, 30, m.filter.DurationSeconds)
	require.Len(t, m.report.Results, 2)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.False(t, m.filterMode)
}

func TestFilterFormRejectsInvalid(t *testing.T) {
	m := newTestDashboard(t, 1)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("fast")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.filterMode)
	require.NotEmpty(t, m.filterError)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.filterMode)
	require.Zero(t, m.filter.DurationSeconds)
}

func TestParseFilterInputs(t *testing.T) {
	filter, window, err := parseFilterInputs("15s", "2026-03-01", "10", "")
	require.NoError(t, err)
	require.Equal(t, 15, filter.DurationSeconds)
	require.Equal(t, 10, filter.Last)
	require.NotNil(t, filter.Since)
	require.Equal(t, "2026-03-01", filter.Since.Format(dateLayout))
	require.Equal(t, 1, window)

	for _, in := range [][4]string{
		{"0", "", "", ""},
		{"", "03/01/2026", "", ""},
		{"", "", "-1", ""},
		{"", "", "", "0"},
	} {
		_, _, err := parseFilterInputs(in[0], in[1], in[2], in[3])
		require.Error(t, err, "input %v", in)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestDashboard(t, 0)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCurveWindowSteps(t *testing.T) {
	require.Equal(t, 5, nextCurveWindow(1))
	require.Equal(t, 10, nextCurveWindow(5))
	require.Equal(t, 10, nextCurveWindow(7))
	require.Equal(t, 1, prevCurveWindow(5))
	require.Equal(t, 5, prevCurveWindow(7))
	require.Equal(t, 5, prevCurveWindow(10))
}
