// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "time"

// Storage persists named vocabularies and the last report counted against
// each of them. Compiled automata are never stored: a vocabulary is
// recompiled every time it is loaded.
//
// Crash safety: every Save must be transactional. A crash mid-write must not
// corrupt previously committed data.
type Storage interface {
	// SaveVocabulary stores the ordered pattern list under name, replacing
	// any previous list. The stored report is dropped because its pattern
	// ids no longer line up.
	SaveVocabulary(name string, patterns []string) error

	// LoadVocabulary returns the patterns stored under name.
	// Returns nil, nil if no such vocabulary exists.
	LoadVocabulary(name string) ([]string, error)

	// ListVocabularies returns all vocabulary names, sorted.
	ListVocabularies() ([]string, error)

	// DeleteVocabulary removes a vocabulary and its report.
	// Idempotent: deleting a nonexistent vocabulary is not an error.
	DeleteVocabulary(name string) error

	// SaveReport stores report as the latest report of vocabulary name.
	// The vocabulary must exist.
	SaveReport(name string, report *Report) error

	// LoadReport returns the latest report of vocabulary name.
	// Returns nil, nil if none was saved.
	LoadReport(name string) (*Report, error)
}

// Report is the outcome of counting a vocabulary over one or more texts.
type Report struct {
	Vocabulary string         `json:"vocabulary,omitempty"`
	Sources    []string       `json:"sources"`
	Scanned    int64          `json:"scanned"` // symbols fed to the automaton
	Counts     []PatternCount `json:"counts"`  // in pattern id order
	CreatedAt  time.Time      `json:"created_at"`
}

// PatternCount is the occurrence count of one pattern.
type PatternCount struct {
	ID      int    `json:"id"`
	Pattern string `json:"pattern"`
	Count   int64  `json:"count"`
}

// Total returns the sum of all pattern counts.
func (r *Report) Total() int64 {
	var n int64
	for _, c := range r.Counts {
		n += c.Count
	}
	return n
}
