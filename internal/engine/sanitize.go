package engine

import (
	"strings"
	"unicode"
)

// Sanitize collapses every run of whitespace, line breaks included, to one space.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	inSpace := false
	for _, r := range raw {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
