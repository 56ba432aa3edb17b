// Package ctre compiles a regular expression pattern into a deterministic,
// table-driven matcher ahead of time: lexer and parser build an HIR tree,
// a UTF-8-aware encoder expands it into byte ranges, a Thompson
// construction builds an NFA, and subset construction determinizes that
// NFA into a dense transition table with no backtracking at match time.
package ctre

import (
	"github.com/ctre-go/ctre/dfa"
	"github.com/ctre-go/ctre/nfa"
	"github.com/ctre-go/ctre/syntax"
	"github.com/ctre-go/ctre/utf8range"
)

// Program is a compiled pattern: a complete DFA plus the source pattern
// it was built from. A Program is immutable after Compile returns and is
// safe for concurrent use from multiple goroutines, since MatchAt holds
// no state beyond the call's own locals.
type Program struct {
	pattern string
	dfa     *dfa.DFA
}

// Pattern returns the source text Program was compiled from.
func (p *Program) Pattern() string { return p.pattern }

// Compile compiles pattern with DefaultOptions.
func Compile(pattern string) (*Program, error) {
	return CompileWithOptions(pattern, DefaultOptions())
}

// MustCompile compiles pattern with DefaultOptions and panics if it fails.
func MustCompile(pattern string) *Program {
	p, err := Compile(pattern)
	if err != nil {
		panic("ctre: Compile(" + pattern + "): " + err.Error())
	}
	return p
}

// CompileWithOptions compiles pattern against opts's encoder and limits,
// running the full pipeline: parse to HIR, translate to an NFA, then
// determinize to a DFA.
func CompileWithOptions(pattern string, opts Options) (*Program, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	encoder := utf8range.NewEncoder(opts.Encoding)
	parser := syntax.NewParser(encoder, syntax.Config{
		MaxRecursionDepth:     opts.MaxRecursionDepth,
		ZeroRepetitionIsError: opts.ZeroRepetitionIsError,
	})
	h, err := parser.Parse(pattern)
	if err != nil {
		return nil, err
	}

	g, start, _ := nfa.Build(h)
	if opts.MaxNFAStates > 0 && g.Len() > opts.MaxNFAStates {
		return nil, &LimitError{Err: ErrTooManyNFAStates, Limit: opts.MaxNFAStates, Got: g.Len()}
	}

	d := dfa.Determinize(g, start)
	if opts.MaxDFAStates > 0 && int(d.StatesNum()) > opts.MaxDFAStates {
		return nil, &LimitError{Err: ErrTooManyDFAStates, Limit: opts.MaxDFAStates, Got: int(d.StatesNum())}
	}

	return &Program{pattern: pattern, dfa: d}, nil
}

// MatchAt reports the length of the longest match starting at exactly
// start, and whether any accepting prefix exists there at all. It does
// not search forward for a later starting position; callers scanning a
// haystack for the first match anywhere in it should advance start
// themselves and call MatchAt again.
func (p *Program) MatchAt(haystack []byte, start int) (length int, ok bool) {
	end, ok := p.dfa.MatchAt(haystack, start)
	if !ok {
		return 0, false
	}
	return end - start, true
}

// MatchPrefix reports whether haystack itself, read from the start,
// contains an accepting prefix anywhere (i.e. MatchAt(haystack, 0)
// succeeds).
func (p *Program) MatchPrefix(haystack []byte) bool {
	_, ok := p.MatchAt(haystack, 0)
	return ok
}

// Find scans haystack for the first position at which a match begins,
// trying every offset from 0 in turn, and returns the matching slice.
// Returns nil if no match exists anywhere in haystack.
func (p *Program) Find(haystack []byte) []byte {
	for start := 0; start <= len(haystack); start++ {
		if length, ok := p.MatchAt(haystack, start); ok {
			return haystack[start : start+length]
		}
	}
	return nil
}

// MatchString is the string-typed equivalent of Find's existence check.
func (p *Program) MatchString(s string) bool {
	return p.Find([]byte(s)) != nil
}
