package app

import (
	"fmt"
	"os"

	"github.com/corey/tally/internal/ports"
)

// Mismatch is a pattern whose automaton count differs from the reference.
type Mismatch struct {
	ID      int
	Pattern string
	Got     int64 // automaton
	Want    int64 // reference
}

// Verification is the outcome of cross-checking one vocabulary.
type Verification struct {
	Report     *ports.Report
	Checked    int // patterns compared
	Skipped    int // empty patterns, see Verify
	Mismatches []Mismatch
}

// OK reports whether every checked pattern agreed.
func (v *Verification) OK() bool { return len(v.Mismatches) == 0 }

// Verify counts the vocabulary over files with the automaton and with ref,
// which must have been built from c.Patterns() with the same case folding.
//
// The reference sees raw bytes while the automaton skips bytes outside the
// alphabet, so the two disagree on the empty pattern; empty patterns are
// skipped. No non-empty pattern can span a skipped byte, so all other counts
// must agree.
func (c *Counter) Verify(ref ports.ReferenceCounter, paths []string) (*Verification, error) {
	report, err := c.CountFiles(paths)
	if err != nil {
		return nil, err
	}

	want := make([]int64, len(c.patterns))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		counts := ref.Count(data)
		if len(counts) != len(want) {
			return nil, fmt.Errorf("reference returned %d counts for %d patterns", len(counts), len(want))
		}
		for i, n := range counts {
			want[i] += n
		}
	}

	v := &Verification{Report: report}
	for _, pc := range report.Counts {
		if pc.Pattern == "" {
			v.Skipped++
			continue
		}
		v.Checked++
		if pc.Count != want[pc.ID] {
			v.Mismatches = append(v.Mismatches, Mismatch{
				ID:      pc.ID,
				Pattern: pc.Pattern,
				Got:     pc.Count,
				Want:    want[pc.ID],
			})
		}
	}
	return v, nil
}
