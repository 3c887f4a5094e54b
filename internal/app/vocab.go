package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/corey/tally/internal/ports"
)

// ErrVocabularyNotFound is returned when a named vocabulary is not stored.
var ErrVocabularyNotFound = errors.New("vocabulary not found")

// ReadPatterns reads one pattern per line. Trailing carriage returns are
// stripped; blank lines and lines starting with '#' are skipped.
func ReadPatterns(r io.Reader) ([]string, error) {
	var patterns []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read patterns: %w", err)
	}
	return patterns, nil
}

// AddVocabulary validates patterns against the configured alphabet and
// stores them under name.
func AddVocabulary(store ports.Storage, cfg Config, name string, patterns []string) error {
	if _, err := NewCounter(cfg, name, patterns); err != nil {
		return err
	}
	if err := store.SaveVocabulary(name, patterns); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return nil
}

// LoadCounter loads vocabulary name and compiles it.
func LoadCounter(store ports.Storage, cfg Config, name string) (*Counter, error) {
	patterns, err := store.LoadVocabulary(name)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	if patterns == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrVocabularyNotFound)
	}
	return NewCounter(cfg, name, patterns)
}
