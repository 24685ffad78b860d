package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/tejas/internal/model"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type dash struct {
	name   string
	period int
	on     int
}

func (d dash) keep(x int) bool {
	if d.period <= 1 {
		return true
	}
	return absInt(x)%d.period < d.on
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 4
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; see min/max below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
	timelineFloorWPM    = 40
	errorMarker         = '•'
)

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var palette = []string{
	"\x1b[33m", // yellow
	"\x1b[37m", // grey
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
}

const errorColor = "\x1b[31m"

type layer struct {
	name  string
	dash  dash
	color string
	cv    *canvas
}

// PlotSeries renders series each scaled to its own range, with a min/max line per series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	width, height = plotSize(width, height)
	useColor := shouldUseColor(w, forceColor)

	layers := make([]layer, 0, len(series))
	ranges := make([][2]float64, 0, len(series))
	for i, s := range series {
		values := resample(s.Values, width)
		lo, hi := valueRange(values)
		if hi-lo < 1e-9 {
			lo--
			hi++
		}
		l := newLayer(s.Name, i, width, height)
		l.cv.polyline(values, lo, hi, l.dash.keep)
		layers = append(layers, l)
		ranges = append(ranges, [2]float64{lo, hi})
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	b.WriteString(scaleNote + "\n")
	for i, s := range series {
		fmt.Fprintf(&b, "%s: min=%.2f max=%.2f\n", s.Name, ranges[i][0], ranges[i][1])
	}
	labels := axisLabels(height, "100%", "50%", "0%")
	writeRows(&b, layers, labels, width, height, useColor)
	b.WriteString(legend(layers, useColor) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotTimeline renders per-second WPM and raw WPM on a shared axis starting at zero.
// Seconds where the error count grew are marked on a row under the chart.
func PlotTimeline(w io.Writer, timeline []model.TimelinePoint, width, height int, forceColor bool) error {
	if len(timeline) == 0 {
		_, err := fmt.Fprintln(w, "No timeline samples.")
		return err
	}
	width, height = plotSize(width, height)
	useColor := shouldUseColor(w, forceColor)

	wpm := make([]float64, len(timeline))
	raw := make([]float64, len(timeline))
	top := float64(timelineFloorWPM)
	for i, p := range timeline {
		wpm[i] = float64(p.WPM)
		raw[i] = float64(p.RawWPM)
		top = math.Max(top, math.Max(wpm[i], raw[i]))
	}

	layers := []layer{newLayer("WPM", 0, width, height), newLayer("Raw", 1, width, height)}
	layers[0].cv.polyline(resample(wpm, width), 0, top, layers[0].dash.keep)
	layers[1].cv.polyline(resample(raw, width), 0, top, layers[1].dash.keep)

	var b strings.Builder
	labels := axisLabels(height, strconv.Itoa(int(top)), strconv.Itoa(int(top/2)), "0")
	writeRows(&b, layers, labels, width, height, useColor)
	b.WriteString(errorRow(timeline, width, useColor) + "\n")
	b.WriteString(secondsAxis(timeline, width) + "\n")
	b.WriteString(legend(layers, useColor))
	if useColor {
		b.WriteString("  " + errorColor + string(errorMarker) + " errors" + colorReset)
	} else {
		b.WriteString("  " + string(errorMarker) + " errors")
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisWidth(), minPlotWidth)
}

func axisWidth() int {
	return axisLabelWidth + utf8.RuneCountInString(axisSeparator)
}

func plotSize(width, height int) (int, int) {
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	return max(width, minPlotWidth), height
}

func newLayer(name string, idx, width, height int) layer {
	return layer{
		name:  name,
		dash:  dashes[idx%len(dashes)],
		color: palette[idx%len(palette)],
		cv:    newCanvas(width, height),
	}
}

func writeRows(b *strings.Builder, layers []layer, labels []string, width, height int, useColor bool) {
	for y := 0; y < height; y++ {
		fmt.Fprintf(b, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			var mask uint8
			color := ""
			for _, l := range layers {
				m := l.cv.mask(x, y)
				if m != 0 && color == "" {
					color = l.color
				}
				mask |= m
			}
			if useColor && color != "" {
				b.WriteString(color)
				b.WriteRune(brailleRune(mask))
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(brailleRune(mask))
		}
		b.WriteByte('\n')
	}
}

func errorRow(timeline []model.TimelinePoint, width int, useColor bool) string {
	marks := make([]bool, width)
	prev := 0
	for i, p := range timeline {
		if p.Errors > prev {
			marks[sampleColumn(i, len(timeline), width)] = true
		}
		prev = p.Errors
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", axisWidth()))
	for _, m := range marks {
		switch {
		case !m:
			b.WriteByte(' ')
		case useColor:
			b.WriteString(errorColor + string(errorMarker) + colorReset)
		default:
			b.WriteRune(errorMarker)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func secondsAxis(timeline []model.TimelinePoint, width int) string {
	first := strconv.Itoa(timeline[0].Second) + "s"
	last := strconv.Itoa(timeline[len(timeline)-1].Second) + "s"
	gap := width - utf8.RuneCountInString(first) - utf8.RuneCountInString(last)
	if gap < 1 {
		return strings.Repeat(" ", axisWidth()) + last
	}
	return strings.Repeat(" ", axisWidth()) + first + strings.Repeat(" ", gap) + last
}

// sampleColumn maps sample i of n onto the column it lands in after resampling to width.
func sampleColumn(i, n, width int) int {
	if n <= 1 || width <= 1 {
		return 0
	}
	if n >= width {
		return min(i*width/n, width-1)
	}
	return int(math.Round(float64(i) * float64(width-1) / float64(n-1)))
}

func axisLabels(height int, top, mid, bottom string) []string {
	labels := make([]string, height)
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

func legend(layers []layer, useColor bool) string {
	parts := make([]string, 0, len(layers))
	marker := brailleRune(0x01)
	for _, l := range layers {
		label := fmt.Sprintf("%c %s (%s)", marker, l.name, l.dash.name)
		if useColor {
			label = l.color + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// resample averages values into width buckets when there are more values than
// columns, and interpolates linearly when there are fewer.
func resample(values []float64, width int) []float64 {
	n := len(values)
	if n == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := max((i+1)*n/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func valueRange(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
