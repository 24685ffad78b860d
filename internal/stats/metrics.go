// Package stats contains typing metrics, history aggregates, and text reporting.
package stats

import (
	"math"

	"github.com/verte-zerg/tejas/internal/model"
)

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5

// Metrics is the derived state of a typing session at one instant.
type Metrics struct {
	WPM      int
	RawWPM   int
	Accuracy int
	Errors   int
	Typed    int
	Chars    model.Chars
}

// Calculate derives metrics from the source text, the typed text, and the whole
// seconds elapsed. Elapsed time is floored at one second.
func Calculate(source, typed []rune, elapsedSeconds int) Metrics {
	var chars model.Chars
	overlap := min(len(typed), len(source))
	for i := 0; i < overlap; i++ {
		if typed[i] == source[i] {
			chars.Correct++
		} else {
			chars.Incorrect++
		}
	}
	chars.Extra = max(0, len(typed)-len(source))
	chars.Missed = max(0, len(source)-len(typed))

	minutes := float64(max(elapsedSeconds, 1)) / 60
	accuracy := 100
	if len(typed) > 0 {
		accuracy = roundInt(float64(chars.Correct) / float64(len(typed)) * 100)
	}
	return Metrics{
		WPM:      roundInt(float64(chars.Correct) / CharsPerWord / minutes),
		RawWPM:   roundInt(float64(len(typed)) / CharsPerWord / minutes),
		Accuracy: accuracy,
		Errors:   chars.Incorrect + chars.Extra,
		Typed:    len(typed),
		Chars:    chars,
	}
}

// Consistency scores the steadiness of per-second WPM samples from 0 to 100.
// An empty timeline is perfectly consistent.
func Consistency(timeline []model.TimelinePoint) int {
	if len(timeline) == 0 {
		return 100
	}
	var sum float64
	for _, p := range timeline {
		sum += float64(p.WPM)
	}
	mean := sum / float64(len(timeline))
	var sq float64
	for _, p := range timeline {
		d := float64(p.WPM) - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(timeline)))
	return max(0, roundInt(100-stddev))
}

func roundInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
