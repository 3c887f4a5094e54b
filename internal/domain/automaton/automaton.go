// Package automaton counts occurrences of many patterns in a text with an
// Aho-Corasick automaton.
//
// Patterns are inserted into a trie (Building), Compile resolves every
// suffix link and every goto transition (Compiled), and scans drive the
// automaton over a text, counting how often each state is entered
// (Queryable). OccurrenceCounts folds the state visits up the suffix-link
// tree, because a pattern ends at a position whenever any node whose
// suffix-link chain reaches the pattern's node is entered there.
//
// Scans are cumulative: counters are only cleared by Reset. The compiled
// automaton is read-only, so independent Sessions may scan concurrently.
package automaton

import (
	"fmt"
	"sync/atomic"
)

// Symbol is an alphabet index in 0..alphabetSize-1.
type Symbol int

// PatternID identifies an inserted pattern. Ids are assigned 0, 1, 2, ...
// in insertion order.
type PatternID int

// State is the automaton's lifecycle stage.
type State int32

const (
	Building  State = iota // accepting patterns
	Compiled               // links resolved, no scan yet
	Queryable              // at least one scan done
)

func (s State) String() string {
	switch s {
	case Building:
		return "building"
	case Compiled:
		return "compiled"
	case Queryable:
		return "queryable"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Automaton is an Aho-Corasick occurrence counter over a fixed alphabet.
// Insert and Compile are not safe for concurrent use.
type Automaton struct {
	t     *trie
	state atomic.Int32
	order []int32 // suffix-link post-order, set by Compile

	def *Session // backs Scan, Counts and Reset
}

// Stats describes a compiled automaton.
type Stats struct {
	AlphabetSize int
	Patterns     int
	Nodes        int
	MaxDepth     int
	Transitions  int // resolved goto entries
	State        State
}

// New returns an empty automaton over symbols 0..alphabetSize-1.
func New(alphabetSize int) (*Automaton, error) {
	if alphabetSize < 1 {
		return nil, ErrEmptyAlphabet
	}
	return &Automaton{t: newTrie(alphabetSize)}, nil
}

// AlphabetSize returns the number of symbols.
func (a *Automaton) AlphabetSize() int { return a.t.alphabet }

// PatternCount returns how many patterns were inserted.
func (a *Automaton) PatternCount() int { return a.t.patterns }

// State returns the current lifecycle stage.
func (a *Automaton) State() State { return State(a.state.Load()) }

func (a *Automaton) validate(syms []Symbol) error {
	for i, c := range syms {
		if c < 0 || int(c) >= a.t.alphabet {
			return &SymbolError{Pos: i, Symbol: c, Size: a.t.alphabet}
		}
	}
	return nil
}

// Insert adds a pattern and returns its id. Empty and duplicate patterns
// are allowed; each insertion gets its own id. Fails once compiled.
func (a *Automaton) Insert(pattern []Symbol) (PatternID, error) {
	if a.State() != Building {
		return 0, fmt.Errorf("insert: %w", ErrInvalidState)
	}
	if err := a.validate(pattern); err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	return a.t.insert(pattern), nil
}

// Compile freezes the trie and resolves every suffix link and every goto
// transition. It may be called once.
func (a *Automaton) Compile() error {
	if a.State() != Building {
		return ErrAlreadyCompiled
	}

	// Shallow nodes first keeps the link/goto recursion short: by the time
	// a node is reached its parent's link is already memoized.
	for _, v := range a.t.breadthFirst() {
		a.t.suffixLink(v)
		for c := 0; c < a.t.alphabet; c++ {
			a.t.transition(v, Symbol(c))
		}
	}
	a.order = a.t.linkPostOrder()
	a.def = a.newSession()
	a.state.Store(int32(Compiled))
	return nil
}

// NewSession returns an empty scan session with its own counters.
func (a *Automaton) NewSession() (*Session, error) {
	if a.State() == Building {
		return nil, ErrNotCompiled
	}
	return a.newSession(), nil
}

func (a *Automaton) newSession() *Session {
	return &Session{a: a, visits: make([]int64, len(a.t.nodes))}
}

// Scan runs text through the default session. Counts accumulate across
// calls until Reset.
func (a *Automaton) Scan(text []Symbol) error {
	if a.State() == Building {
		return fmt.Errorf("scan: %w", ErrNotCompiled)
	}
	return a.def.Scan(text)
}

// Counts returns the default session's occurrence counts indexed by
// PatternID.
func (a *Automaton) Counts() ([]int64, error) {
	if a.State() == Building {
		return nil, fmt.Errorf("counts: %w", ErrNotCompiled)
	}
	return a.def.Counts(), nil
}

// OccurrenceCounts returns the default session's counts keyed by pattern id.
// Patterns never seen map to zero.
func (a *Automaton) OccurrenceCounts() (map[PatternID]int64, error) {
	if a.State() == Building {
		return nil, fmt.Errorf("occurrence counts: %w", ErrNotCompiled)
	}
	return a.def.OccurrenceCounts(), nil
}

// Reset clears the default session's counters.
func (a *Automaton) Reset() error {
	if a.State() == Building {
		return fmt.Errorf("reset: %w", ErrNotCompiled)
	}
	a.def.Reset()
	return nil
}

// Stats reports the automaton's size.
func (a *Automaton) Stats() Stats {
	resolved := 0
	for _, n := range a.t.next {
		if n != none {
			resolved++
		}
	}
	return Stats{
		AlphabetSize: a.t.alphabet,
		Patterns:     a.t.patterns,
		Nodes:        len(a.t.nodes),
		MaxDepth:     int(a.t.maxDepth),
		Transitions:  resolved,
		State:        a.State(),
	}
}

func (a *Automaton) markScanned() {
	a.state.CompareAndSwap(int32(Compiled), int32(Queryable))
}
