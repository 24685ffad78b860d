package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load returns the vocabulary at path, or the builtin vocabulary when path is empty.
func Load(path, lang string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}
	return LoadWords(path, FilterForLang(lang))
}

// LoadWords reads one word per line from the provided file path, keeping the words
// accepted by filter. Duplicate lines are kept once.
func LoadWords(path string, filter FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	seen := map[string]struct{}{}
	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if filter != nil && !filter(line) {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s has no usable words", path)
	}
	return words, nil
}
