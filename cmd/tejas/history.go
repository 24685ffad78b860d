package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tejas/internal/dashboard"
	"github.com/verte-zerg/tejas/internal/model"
	"github.com/verte-zerg/tejas/internal/stats"
)

const defaultCurveWindow = 10

var (
	historyFormat   string
	historySince    string
	historyLast     int
	historyDuration int
	curveWindow     int
)

func addHistoryFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&historyDuration, "duration", 0, "only results of this mode in seconds")
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your profile and progress",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	addHistoryFilterFlags(cmd)
	cmd.Flags().IntVar(&curveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print saved results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	addHistoryFilterFlags(cmd)
	cmd.Flags().StringVar(&historyFormat, "format", "table", "output format: table, json or yaml")
	return cmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	filter, err := parseHistoryFilter(historyDuration, historySince, historyLast)
	if err != nil {
		return err
	}
	if curveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.currentUser(cmd.Context())
	if err != nil {
		return err
	}
	m := dashboard.NewModel(a.store, user.ID, filter, curveWindow)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := parseHistoryFilter(historyDuration, historySince, historyLast)
	if err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(historyFormat))
	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown --format %q (use table, json or yaml)", historyFormat)
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.currentUser(cmd.Context())
	if err != nil {
		return err
	}
	results, err := a.store.ListResults(cmd.Context(), user.ID, filter)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}
	return writeHistory(cmd.OutOrStdout(), format, results)
}

func parseHistoryFilter(duration int, since string, last int) (model.HistoryFilter, error) {
	if duration < 0 {
		return model.HistoryFilter{}, fmt.Errorf("--duration must be >= 0")
	}
	if last < 0 {
		return model.HistoryFilter{}, fmt.Errorf("--last must be >= 0")
	}
	filter := model.HistoryFilter{DurationSeconds: duration, Last: last}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryFilter{}, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	return filter, nil
}

func writeHistory(w io.Writer, format string, results []model.Result) error {
	if results == nil {
		results = []model.Result{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	default:
		return stats.RenderHistory(w, results)
	}
}
