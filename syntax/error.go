package syntax

import "fmt"

// ErrorKind classifies why a pattern failed to parse.
type ErrorKind int

const (
	// KindEncoder wraps a failure from the selected utf8range.Encoder
	// (surrogate codepoint, codepoint beyond the encoder's maximum).
	KindEncoder ErrorKind = iota
	// KindUnexpected reports a token that does not match the grammar
	// production being parsed; Expected names what was wanted.
	KindUnexpected
	// KindOutOfRange reports a decimal literal or ASCII escape whose
	// value falls outside the range its production allows.
	KindOutOfRange
	// KindEmptyEscape reports a trailing backslash with nothing after it.
	KindEmptyEscape
	// KindUnsupportedEscape reports a backslash followed by a character
	// that names no escape sequence.
	KindUnsupportedEscape
	// KindZeroRepetition reports "{0,0}" applied to a non-empty atom,
	// when Config.ZeroRepetitionIsError is set.
	KindZeroRepetition
	// KindInvalidRepetition reports "{n,m}" with n > m.
	KindInvalidRepetition
	// KindInvalidRange reports a class element "a-b" with a > b.
	KindInvalidRange
)

func (k ErrorKind) String() string {
	switch k {
	case KindEncoder:
		return "encoder"
	case KindUnexpected:
		return "unexpected"
	case KindOutOfRange:
		return "out of range"
	case KindEmptyEscape:
		return "empty escape"
	case KindUnsupportedEscape:
		return "unsupported escape"
	case KindZeroRepetition:
		return "zero repetition"
	case KindInvalidRepetition:
		return "invalid repetition"
	case KindInvalidRange:
		return "invalid range"
	default:
		return "unknown"
	}
}

// Error reports a pattern-compilation failure, carrying the offending
// slice, its byte span, and (for KindUnexpected) the expected category —
// the fields spec.md's error design requires every error to carry.
type Error struct {
	Kind     ErrorKind
	Start    int
	End      int
	Spell    string // the offending source slice
	Expected string // only set for KindUnexpected
	Range    string // only set for KindOutOfRange, e.g. "`uint32` range"
	Cause    error  // only set for KindEncoder
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindEncoder:
		return fmt.Sprintf("%d..%d: encoder error: %v", e.Start, e.End, e.Cause)
	case KindUnexpected:
		return fmt.Sprintf("%d..%d: unexpected %q, expected %s", e.Start, e.End, e.Spell, e.Expected)
	case KindOutOfRange:
		return fmt.Sprintf("%d..%d: %q is out of %s", e.Start, e.End, e.Spell, e.Range)
	case KindEmptyEscape:
		return fmt.Sprintf("%d..%d: empty escape sequence", e.Start, e.End)
	case KindUnsupportedEscape:
		return fmt.Sprintf("%d..%d: unsupported escape sequence %q", e.Start, e.End, e.Spell)
	case KindZeroRepetition:
		return fmt.Sprintf("%d..%d: zero-length repetition applied to a non-empty atom", e.Start, e.End)
	case KindInvalidRepetition:
		return fmt.Sprintf("%d..%d: repetition bound %q has min > max", e.Start, e.End, e.Spell)
	case KindInvalidRange:
		return fmt.Sprintf("%d..%d: class range %q has a low bound greater than its high bound", e.Start, e.End, e.Spell)
	default:
		return fmt.Sprintf("%d..%d: parse error", e.Start, e.End)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func unexpected(spell string, start, end int, expected string) *Error {
	return &Error{Kind: KindUnexpected, Start: start, End: end, Spell: spell, Expected: expected}
}

func outOfRange(spell string, start, end int, rng string) *Error {
	return &Error{Kind: KindOutOfRange, Start: start, End: end, Spell: spell, Range: rng}
}

func emptyEscape(start, end int) *Error {
	return &Error{Kind: KindEmptyEscape, Start: start, End: end}
}

func unsupportedEscape(spell string, start, end int) *Error {
	return &Error{Kind: KindUnsupportedEscape, Start: start, End: end, Spell: spell}
}

func zeroRepetition(start, end int) *Error {
	return &Error{Kind: KindZeroRepetition, Start: start, End: end}
}

func invalidRepetition(spell string, start, end int) *Error {
	return &Error{Kind: KindInvalidRepetition, Start: start, End: end, Spell: spell}
}

func invalidRange(spell string, start, end int) *Error {
	return &Error{Kind: KindInvalidRange, Start: start, End: end, Spell: spell}
}

func encoderError(cause error, start, end int) *Error {
	return &Error{Kind: KindEncoder, Start: start, End: end, Cause: cause}
}
