// Package ahocorasick provides an independent occurrence counter used to
// cross-check the domain automaton. It wraps the petar-dambovaliev/aho-corasick
// library and counts every overlapping match.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/tally/internal/ports"
)

// Reference implements ports.ReferenceCounter.
// The library sees each distinct non-empty pattern once; duplicates and the
// empty pattern are resolved here.
type Reference struct {
	automaton *aho.AhoCorasick
	patterns  []string
	distinct  []int // library pattern index -> first index in patterns
	owner     []int // pattern index -> library pattern index, -1 for ""
}

var _ ports.ReferenceCounter = (*Reference)(nil)

// NewReference builds a reference counter for patterns. caseless enables
// ASCII case-insensitive matching.
func NewReference(patterns []string, caseless bool) *Reference {
	r := &Reference{
		patterns: make([]string, len(patterns)),
		owner:    make([]int, len(patterns)),
	}
	copy(r.patterns, patterns)

	seen := make(map[string]int, len(patterns))
	var unique []string
	for i, p := range r.patterns {
		if p == "" {
			r.owner[i] = -1
			continue
		}
		key := p
		if caseless {
			key = lowerASCII(p)
		}
		idx, ok := seen[key]
		if !ok {
			idx = len(unique)
			seen[key] = idx
			unique = append(unique, p)
			r.distinct = append(r.distinct, i)
		}
		r.owner[i] = idx
	}

	if len(unique) > 0 {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			AsciiCaseInsensitive: caseless,
			DFA:                  true,
		})
		ac := builder.Build(unique)
		r.automaton = &ac
	}
	return r
}

// Count returns per-pattern occurrence counts in text.
func (r *Reference) Count(text []byte) []int64 {
	perUnique := make([]int64, len(r.distinct))
	if r.automaton != nil {
		iter := r.automaton.IterOverlappingByte(text)
		for next := iter.Next(); next != nil; next = iter.Next() {
			perUnique[next.Pattern()]++
		}
	}

	counts := make([]int64, len(r.patterns))
	for i, owner := range r.owner {
		if owner < 0 {
			counts[i] = int64(len(text))
			continue
		}
		counts[i] = perUnique[owner]
	}
	return counts
}

// PatternCount returns the number of patterns the counter was built with.
func (r *Reference) PatternCount() int {
	return len(r.patterns)
}

// Pattern returns the pattern string at the given index.
func (r *Reference) Pattern(idx int) string {
	if idx < 0 || idx >= len(r.patterns) {
		return ""
	}
	return r.patterns[idx]
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
