// Package app wires the automaton, storage, watcher and reference adapters
// into the operations the CLI exposes.
package app

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/corey/tally/internal/domain/automaton"
	"github.com/corey/tally/internal/ports"
)

// Counter is a compiled vocabulary. It is safe for concurrent use: every
// count runs in its own automaton session.
type Counter struct {
	name     string
	alpha    *automaton.Alphabet
	ac       *automaton.Automaton
	patterns []string
	strict   bool
	workers  int
}

// NewCounter encodes patterns with the configured alphabet, inserts them in
// order (pattern i gets id i) and compiles the automaton.
func NewCounter(cfg Config, name string, patterns []string) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	alpha, err := cfg.NewAlphabet()
	if err != nil {
		return nil, err
	}
	ac, err := automaton.New(alpha.Size())
	if err != nil {
		return nil, err
	}
	for i, p := range patterns {
		syms, err := alpha.Encode(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %d %q: %w", i, p, err)
		}
		if _, err := ac.Insert(syms); err != nil {
			return nil, fmt.Errorf("pattern %d %q: %w", i, p, err)
		}
	}
	if err := ac.Compile(); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	c := &Counter{
		name:     name,
		alpha:    alpha,
		ac:       ac,
		patterns: make([]string, len(patterns)),
		strict:   cfg.Strict,
		workers:  cfg.Workers,
	}
	copy(c.patterns, patterns)
	return c, nil
}

// Name returns the vocabulary name, empty for ad-hoc pattern lists.
func (c *Counter) Name() string { return c.name }

// Patterns returns the vocabulary in id order.
func (c *Counter) Patterns() []string { return c.patterns }

// Alphabet returns the alphabet patterns and texts are encoded with.
func (c *Counter) Alphabet() *automaton.Alphabet { return c.alpha }

// Stats describes the compiled automaton.
func (c *Counter) Stats() automaton.Stats { return c.ac.Stats() }

// scanInto feeds data to s. In strict mode any byte outside the alphabet is
// an error; otherwise such bytes split the text into runs that are scanned
// separately, so no occurrence spans a separator.
func (c *Counter) scanInto(s *automaton.Session, data []byte) error {
	if c.strict {
		syms, err := c.alpha.EncodeBytes(data)
		if err != nil {
			return err
		}
		return s.Scan(syms)
	}
	for _, run := range c.alpha.Runs(data) {
		if err := s.Scan(run); err != nil {
			return err
		}
	}
	return nil
}

// CountText counts the vocabulary in text.
func (c *Counter) CountText(text string) (*ports.Report, error) {
	s, err := c.ac.NewSession()
	if err != nil {
		return nil, err
	}
	if err := c.scanInto(s, []byte(text)); err != nil {
		return nil, fmt.Errorf("scan text: %w", err)
	}
	return c.report([]string{"<text>"}, s.Counts(), s.Scanned()), nil
}

// fileResult is the outcome of scanning one file.
type fileResult struct {
	counts  []int64
	scanned int64
	err     error
}

// CountFiles counts the vocabulary over all files and sums the results.
// Files are scanned in parallel, at most Config.Workers at a time, each in
// its own session. The first error in path order is returned.
func (c *Counter) CountFiles(paths []string) (*ports.Report, error) {
	results := make([]fileResult, len(paths))
	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = c.countFile(path)
		}(i, path)
	}
	wg.Wait()

	totals := make([]int64, len(c.patterns))
	var scanned int64
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("%s: %w", paths[i], r.err)
		}
		for id, n := range r.counts {
			totals[id] += n
		}
		scanned += r.scanned
	}
	return c.report(paths, totals, scanned), nil
}

func (c *Counter) countFile(path string) fileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{err: err}
	}
	s, err := c.ac.NewSession()
	if err != nil {
		return fileResult{err: err}
	}
	if err := c.scanInto(s, data); err != nil {
		return fileResult{err: err}
	}
	return fileResult{counts: s.Counts(), scanned: s.Scanned()}
}

func (c *Counter) report(sources []string, counts []int64, scanned int64) *ports.Report {
	r := &ports.Report{
		Vocabulary: c.name,
		Sources:    append([]string(nil), sources...),
		Scanned:    scanned,
		Counts:     make([]ports.PatternCount, len(c.patterns)),
		CreatedAt:  time.Now().UTC(),
	}
	for id, p := range c.patterns {
		r.Counts[id] = ports.PatternCount{ID: id, Pattern: p, Count: counts[id]}
	}
	return r
}
