package automaton

import "fmt"

// LowercaseLatin is the default 26-letter alphabet.
const LowercaseLatin = "abcdefghijklmnopqrstuvwxyz"

// Alphabet maps input bytes to dense symbols 0..Size()-1.
// Symbol i is the i-th byte of the letters the alphabet was built from.
type Alphabet struct {
	letters string
	fold    bool
	table   [256]int16 // byte -> symbol, -1 if absent
}

// AlphabetOption configures NewAlphabet.
type AlphabetOption func(*Alphabet)

// WithCaseFolding maps both ASCII cases of every letter to the same symbol.
func WithCaseFolding() AlphabetOption {
	return func(a *Alphabet) { a.fold = true }
}

// NewAlphabet builds an alphabet from a string of distinct bytes.
func NewAlphabet(letters string, opts ...AlphabetOption) (*Alphabet, error) {
	if len(letters) == 0 {
		return nil, ErrEmptyAlphabet
	}
	a := &Alphabet{letters: letters}
	for _, opt := range opts {
		opt(a)
	}
	for i := range a.table {
		a.table[i] = -1
	}
	for i := 0; i < len(letters); i++ {
		if err := a.assign(letters[i], int16(i)); err != nil {
			return nil, err
		}
		if !a.fold {
			continue
		}
		if other, ok := otherCase(letters[i]); ok {
			if err := a.assign(other, int16(i)); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

func (a *Alphabet) assign(b byte, sym int16) error {
	if prev := a.table[b]; prev >= 0 {
		return fmt.Errorf("alphabet: byte %q maps to both symbol %d and %d", b, prev, sym)
	}
	a.table[b] = sym
	return nil
}

func otherCase(b byte) (byte, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return b - 32, true
	case b >= 'A' && b <= 'Z':
		return b + 32, true
	}
	return 0, false
}

// Size returns the number of symbols.
func (a *Alphabet) Size() int { return len(a.letters) }

// Letters returns the bytes the alphabet was built from, in symbol order.
func (a *Alphabet) Letters() string { return a.letters }

// CaseFolding reports whether both ASCII cases map to one symbol.
func (a *Alphabet) CaseFolding() bool { return a.fold }

// Contains reports whether b maps to a symbol.
func (a *Alphabet) Contains(b byte) bool { return a.table[b] >= 0 }

// Encode maps every byte of s to its symbol. It fails on the first byte
// outside the alphabet.
func (a *Alphabet) Encode(s string) ([]Symbol, error) {
	out := make([]Symbol, len(s))
	for i := 0; i < len(s); i++ {
		sym := a.table[s[i]]
		if sym < 0 {
			return nil, &ByteError{Pos: i, Byte: s[i]}
		}
		out[i] = Symbol(sym)
	}
	return out, nil
}

// EncodeBytes is Encode for a byte slice.
func (a *Alphabet) EncodeBytes(b []byte) ([]Symbol, error) {
	out := make([]Symbol, len(b))
	for i, c := range b {
		sym := a.table[c]
		if sym < 0 {
			return nil, &ByteError{Pos: i, Byte: c}
		}
		out[i] = Symbol(sym)
	}
	return out, nil
}

// Runs splits b into maximal runs of bytes inside the alphabet and encodes
// each run. Bytes outside the alphabet act as separators and are dropped.
func (a *Alphabet) Runs(b []byte) [][]Symbol {
	var runs [][]Symbol
	var cur []Symbol
	for _, c := range b {
		sym := a.table[c]
		if sym < 0 {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, Symbol(sym))
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// Decode maps symbols back to the alphabet's letters. Symbols outside the
// alphabet render as '?'.
func (a *Alphabet) Decode(syms []Symbol) string {
	out := make([]byte, len(syms))
	for i, s := range syms {
		if s < 0 || int(s) >= len(a.letters) {
			out[i] = '?'
			continue
		}
		out[i] = a.letters[s]
	}
	return string(out)
}
