package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/tejas/internal/model"
)

func TestSummarize(t *testing.T) {
	results := []model.Result{
		{WPM: 50, Accuracy: 90, Consistency: 70},
		{WPM: 71, Accuracy: 95, Consistency: 80},
		{WPM: 60, Accuracy: 97, Consistency: 75},
	}
	want := Summary{Tests: 3, BestWPM: 71, AverageWPM: 60, AverageAccuracy: 94, AverageConsistency: 75}
	if diff := cmp.Diff(want, Summarize(results)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Summary{}, Summarize(nil)); diff != "" {
		t.Fatalf("empty summary mismatch (-want +got):\n%s", diff)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("moving average mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 2}, MovingAverage([]float64{1, 2}, 1)); diff != "" {
		t.Fatalf("window 1 should copy values:\n%s", diff)
	}
}

func TestRenderHistory(t *testing.T) {
	completed := time.Date(2026, 3, 4, 10, 30, 0, 0, time.Local)
	results := []model.Result{
		{WPM: 64, RawWPM: 70, Accuracy: 96, Consistency: 81, Errors: 3, DurationSeconds: 60, CompletedAt: completed},
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, results); err != nil {
		t.Fatalf("render history: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Completed", "2026-03-04 10:30", "60s", "96%", "Best WPM: 64"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderHistory(&buf, nil); err != nil {
		t.Fatalf("render empty history: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No results found." {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
