package ports

// ReferenceCounter counts pattern occurrences with an implementation that is
// independent of the domain automaton. It exists to cross-check results.
//
// Count returns, for every pattern index the counter was built with, the
// number of end positions in text at which the pattern occurs. Overlapping
// occurrences all count. An empty pattern occurs at every position, so its
// count is len(text).
type ReferenceCounter interface {
	Count(text []byte) []int64
}
