package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tejas/internal/model"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 12, 4, false)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Test Plot", scaleNote, "A: min=1.00", "B: min=1.00 max=4.00", "Legend:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "A"}}, 10, 4, false); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestPlotTimeline(t *testing.T) {
	timeline := []model.TimelinePoint{
		{Second: 1, WPM: 30, RawWPM: 36, Errors: 0},
		{Second: 2, WPM: 48, RawWPM: 54, Errors: 1},
		{Second: 3, WPM: 60, RawWPM: 60, Errors: 1},
		{Second: 4, WPM: 55, RawWPM: 66, Errors: 2},
	}
	var buf bytes.Buffer
	if err := PlotTimeline(&buf, timeline, 20, 5, false); err != nil {
		t.Fatalf("PlotTimeline failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5+3 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "  66 │ ") {
		t.Fatalf("expected top axis label at max raw WPM, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[4], "   0 │ ") {
		t.Fatalf("expected zero bottom label, got %q", lines[4])
	}
	if got := strings.Count(lines[5], string(errorMarker)); got != 2 {
		t.Fatalf("expected 2 error markers, got %d in %q", got, lines[5])
	}
	if !strings.Contains(lines[6], "1s") || !strings.HasSuffix(lines[6], "4s") {
		t.Fatalf("unexpected seconds axis %q", lines[6])
	}
	if !strings.Contains(lines[7], "WPM (solid)") || !strings.Contains(lines[7], "Raw (dashed)") {
		t.Fatalf("unexpected legend %q", lines[7])
	}
}

func TestPlotTimelineEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotTimeline(&buf, nil, 20, 5, false); err != nil {
		t.Fatalf("PlotTimeline failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No timeline samples.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisWidth() {
		t.Fatalf("expected width %d, got %d", 80-axisWidth(), got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestSampleColumn(t *testing.T) {
	cases := []struct {
		i, n, width, want int
	}{
		{0, 1, 10, 0},
		{3, 4, 10, 9},
		{1, 4, 10, 3},
		{59, 60, 20, 19},
		{30, 60, 20, 10},
	}
	for _, tc := range cases {
		if got := sampleColumn(tc.i, tc.n, tc.width); got != tc.want {
			t.Fatalf("sampleColumn(%d, %d, %d) = %d, want %d", tc.i, tc.n, tc.width, got, tc.want)
		}
	}
}

func TestResample(t *testing.T) {
	down := resample([]float64{1, 3, 5, 7}, 2)
	if down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected downsample %v", down)
	}
	up := resample([]float64{0, 10}, 3)
	if up[0] != 0 || up[1] != 5 || up[2] != 10 {
		t.Fatalf("unexpected upsample %v", up)
	}
}
