// Package generator builds typing text sequences.
package generator

import (
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinWords is the smallest text a session is ever given.
	MinWords = 80
	// MaxExpectedWPM is the typing speed ceiling used to size texts.
	MaxExpectedWPM = 250
)

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate selects count words uniformly with replacement and joins them with single spaces.
func (g *Generator) Generate(words []string, count int) string {
	if len(words) == 0 || count <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(words[g.rnd.Intn(len(words))])
	}
	return b.String()
}

// WordCountFor returns how many words a session of durationSeconds needs so that a
// typist at MaxExpectedWPM never reaches the end of the text before the timer does.
// The bound assumes every word is as short as the shortest vocabulary word.
func WordCountFor(durationSeconds int, words []string) int {
	if durationSeconds <= 0 {
		return MinWords
	}
	shortest := shortestWordLen(words)
	chars := float64(durationSeconds) / 60 * MaxExpectedWPM * 5
	count := int(math.Ceil(chars / float64(shortest+1)))
	if count < MinWords {
		return MinWords
	}
	return count
}

func shortestWordLen(words []string) int {
	shortest := 0
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if n == 0 {
			continue
		}
		if shortest == 0 || n < shortest {
			shortest = n
		}
	}
	if shortest == 0 {
		return 1
	}
	return shortest
}
