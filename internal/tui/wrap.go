package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const wrongSpaceMarker = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
	cursor  bool
}

func buildStyledRunes(source, typed []rune, cursorIndex int) []styledRune {
	words := findWords(source)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(source))
	for i, want := range source {
		displayed := want
		style := pendingStyle
		if i < len(typed) {
			switch {
			case want == ' ' && typed[i] != ' ':
				displayed = wrongSpaceMarker
				style = incorrectStyle
			case typed[i] == want:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		} else if want != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		isCursor := i == cursorIndex && i >= len(typed)
		if isCursor {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: want == ' ',
			cursor:  isCursor,
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(source []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range source {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(source)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines no wider than width, keeping the
// space at each break on the line it ends. It also reports the index of the
// line holding the cursor.
func wrapStyledRunes(runes []styledRune, width int) ([]string, int) {
	if width <= 0 {
		return []string{renderStyledRunes(runes)}, 0
	}
	var lines []string
	cursorLine := 0
	flush := func(part []styledRune) {
		for _, item := range part {
			if item.cursor {
				cursorLine = len(lines)
				break
			}
		}
		lines = append(lines, renderStyledRunes(part))
	}

	line := make([]styledRune, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1
	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 && !item.isSpace {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx+1])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush(line)
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	if len(line) > 0 || len(lines) == 0 {
		flush(line)
	}
	return lines, cursorLine
}

// visibleLines returns at most rows lines, keeping the cursor line second
// from the top once typing has moved past the first line.
func visibleLines(lines []string, cursorLine, rows int) []string {
	if rows <= 0 || len(lines) <= rows {
		return lines
	}
	start := max(0, cursorLine-1)
	end := min(len(lines), start+rows)
	start = max(0, end-rows)
	return lines[start:end]
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
