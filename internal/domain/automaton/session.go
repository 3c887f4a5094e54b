package automaton

// Session holds the visit counters of one sequence of scans over a compiled
// automaton. Sessions of the same automaton may run on different
// goroutines; a single Session may not.
type Session struct {
	a       *Automaton
	visits  []int64 // parallel to the node arena
	scanned int64
}

// Scan feeds text to the automaton, starting from the root, and counts
// every state entered. The whole text is validated first; on error nothing
// is counted.
func (s *Session) Scan(text []Symbol) error {
	if err := s.a.validate(text); err != nil {
		return err
	}
	t := s.a.t
	cur := root
	for _, c := range text {
		cur = t.step(cur, c)
		s.visits[cur]++
	}
	s.scanned += int64(len(text))
	s.a.markScanned()
	return nil
}

// Counts returns occurrence counts indexed by PatternID.
func (s *Session) Counts() []int64 {
	return s.a.t.aggregate(s.a.order, s.visits)
}

// OccurrenceCounts returns occurrence counts keyed by PatternID, with an
// entry for every pattern.
func (s *Session) OccurrenceCounts() map[PatternID]int64 {
	counts := s.Counts()
	out := make(map[PatternID]int64, len(counts))
	for id, n := range counts {
		out[PatternID(id)] = n
	}
	return out
}

// Scanned returns the number of symbols scanned since the last Reset.
func (s *Session) Scanned() int64 { return s.scanned }

// Reset zeroes all counters.
func (s *Session) Reset() {
	clear(s.visits)
	s.scanned = 0
}
