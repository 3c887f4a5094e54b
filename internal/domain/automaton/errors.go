package automaton

import (
	"errors"
	"fmt"
)

// Lifecycle and input errors. All of them are caller contract violations;
// nothing here is transient.
var (
	ErrInvalidState     = errors.New("invalid automaton state")
	ErrAlreadyCompiled  = fmt.Errorf("%w: already compiled", ErrInvalidState)
	ErrNotCompiled      = fmt.Errorf("%w: not compiled", ErrInvalidState)
	ErrOutOfRangeSymbol = errors.New("symbol out of range")
	ErrEmptyAlphabet    = errors.New("empty alphabet")
)

// SymbolError reports a symbol that does not fit the automaton's alphabet.
type SymbolError struct {
	Pos    int    // offset in the pattern or text
	Symbol Symbol // offending symbol
	Size   int    // alphabet size
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %d at offset %d: outside alphabet 0..%d", e.Symbol, e.Pos, e.Size-1)
}

func (e *SymbolError) Unwrap() error { return ErrOutOfRangeSymbol }

// ByteError reports an input byte that an Alphabet cannot map to a symbol.
type ByteError struct {
	Pos  int
	Byte byte
}

func (e *ByteError) Error() string {
	return fmt.Sprintf("byte %q at offset %d: not in alphabet", e.Byte, e.Pos)
}

func (e *ByteError) Unwrap() error { return ErrOutOfRangeSymbol }
