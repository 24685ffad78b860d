package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tejas/internal/model"
)

func TestCalculateCharBreakdown(t *testing.T) {
	m := Calculate([]rune("abc"), []rune("abx"), 1)
	require.Equal(t, model.Chars{Correct: 2, Incorrect: 1, Extra: 0, Missed: 0}, m.Chars)
	require.Equal(t, 1, m.Errors)
	require.Equal(t, 3, m.Typed)
	require.Equal(t, 67, m.Accuracy)
}

func TestCalculateMissedAndExtra(t *testing.T) {
	m := Calculate([]rune("hello"), []rune("he"), 10)
	require.Equal(t, model.Chars{Correct: 2, Missed: 3}, m.Chars)

	m = Calculate([]rune("he"), []rune("hexx"), 10)
	require.Equal(t, model.Chars{Correct: 2, Extra: 2}, m.Chars)
	require.Equal(t, 2, m.Errors)
}

func TestCalculateFloorsElapsedAtOneSecond(t *testing.T) {
	m := Calculate([]rune("hello world"), []rune("hello"), 0)
	require.Equal(t, 60, m.WPM)
	require.Equal(t, 60, m.RawWPM)

	same := Calculate([]rune("hello world"), []rune("hello"), 1)
	require.Equal(t, m, same)
}

func TestCalculateWPM(t *testing.T) {
	source := []rune("the quick brown fox jumps over")
	typed := []rune("the quick brXwn fox")
	m := Calculate(source, typed, 30)
	// 18 correct chars over half a minute.
	require.Equal(t, 7, m.WPM)
	// 19 typed chars over half a minute is 7.6 words per minute.
	require.Equal(t, 8, m.RawWPM)
	require.Equal(t, 95, m.Accuracy)
}

func TestCalculateEmptyInput(t *testing.T) {
	m := Calculate([]rune("abc"), nil, 5)
	require.Equal(t, 100, m.Accuracy)
	require.Equal(t, 0, m.WPM)
	require.Equal(t, 0, m.RawWPM)
	require.Equal(t, 3, m.Chars.Missed)
}

func TestCalculateCountsRunes(t *testing.T) {
	m := Calculate([]rune("héllo"), []rune("héllo"), 60)
	require.Equal(t, 5, m.Chars.Correct)
	require.Equal(t, 1, m.WPM)
}

func TestConsistency(t *testing.T) {
	require.Equal(t, 100, Consistency(nil))
	flat := []model.TimelinePoint{{Second: 1, WPM: 60}, {Second: 2, WPM: 60}, {Second: 3, WPM: 60}}
	require.Equal(t, 100, Consistency(flat))

	// Population standard deviation of 40 and 80 is 20.
	spread := []model.TimelinePoint{{Second: 1, WPM: 40}, {Second: 2, WPM: 80}}
	require.Equal(t, 80, Consistency(spread))

	wild := []model.TimelinePoint{{Second: 1, WPM: 0}, {Second: 2, WPM: 400}}
	require.Equal(t, 0, Consistency(wild))
}

func TestRoundIntCoercesNonFinite(t *testing.T) {
	require.Equal(t, 0, roundInt(math.NaN()))
	require.Equal(t, 0, roundInt(math.Inf(1)))
	require.Equal(t, 0, roundInt(math.Inf(-1)))
	require.Equal(t, 3, roundInt(2.5))
	require.Equal(t, -3, roundInt(-2.5))
}
