package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/tejas/internal/model"
)

// Summary aggregates a set of saved results.
type Summary struct {
	Tests              int
	BestWPM            int
	AverageWPM         int
	AverageAccuracy    int
	AverageConsistency int
}

// Summarize computes aggregates over results.
func Summarize(results []model.Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	var wpm, acc, cons float64
	best := 0
	for _, r := range results {
		wpm += float64(r.WPM)
		acc += float64(r.Accuracy)
		cons += float64(r.Consistency)
		best = max(best, r.WPM)
	}
	n := float64(len(results))
	return Summary{
		Tests:              len(results),
		BestWPM:            best,
		AverageWPM:         roundInt(wpm / n),
		AverageAccuracy:    roundInt(acc / n),
		AverageConsistency: roundInt(cons / n),
	}
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// RenderHistory prints results as an aligned table, oldest first.
func RenderHistory(w io.Writer, results []model.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	headers := []string{"Completed", "Mode", "WPM", "Raw", "Accuracy", "Consistency", "Errors"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%ds", r.DurationSeconds),
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d", r.RawWPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%d%%", r.Consistency),
			fmt.Sprintf("%d", r.Errors),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	s := Summarize(results)
	_, err := fmt.Fprintf(w, "\nTests: %d  Best WPM: %d  Avg WPM: %d  Avg Accuracy: %d%%\n",
		s.Tests, s.BestWPM, s.AverageWPM, s.AverageAccuracy)
	return err
}

// RenderCurves prints WPM and accuracy across results, smoothed over window results.
func RenderCurves(w io.Writer, results []model.Result, window, totalWidth, height int, useColor bool) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = float64(r.WPM)
		accs[i] = float64(r.Accuracy)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Progress", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}, width, height, useColor)
}
