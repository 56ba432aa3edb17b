package ctre

import "github.com/ctre-go/ctre/utf8range"

// Options controls pattern compilation: which encoder to build the
// alphabet from, and the limits that keep a pathological pattern from
// hanging or exhausting memory instead of returning an error.
type Options struct {
	// Encoding selects the alphabet a pattern's codepoints are encoded
	// against. Default UTF-8.
	Encoding utf8range.Encoding

	// MaxRecursionDepth bounds nested group depth during parsing. Zero
	// means unlimited.
	MaxRecursionDepth int

	// MaxNFAStates aborts compilation instead of building an
	// arbitrarily large NFA graph. Zero means unlimited.
	MaxNFAStates int

	// MaxDFAStates aborts compilation instead of letting subset
	// construction run away on a pathological pattern. Zero means
	// unlimited.
	MaxDFAStates int

	// ZeroRepetitionIsError makes "{0,0}" applied to a non-empty atom a
	// parse error instead of silently collapsing to an empty match.
	ZeroRepetitionIsError bool
}

// DefaultOptions returns the options Compile uses when none are given:
// UTF-8 encoding, generous but bounded limits, and "{0,0}" treated as a
// silent empty match.
func DefaultOptions() Options {
	return Options{
		Encoding:              utf8range.UTF8,
		MaxRecursionDepth:     100,
		MaxNFAStates:          100_000,
		MaxDFAStates:          100_000,
		ZeroRepetitionIsError: false,
	}
}

// Validate reports whether o's limits are in usable ranges.
func (o Options) Validate() error {
	if o.Encoding != utf8range.ASCII && o.Encoding != utf8range.UTF8 {
		return &OptionsError{Field: "Encoding", Message: "must be ASCII or UTF8"}
	}
	if o.MaxRecursionDepth < 0 {
		return &OptionsError{Field: "MaxRecursionDepth", Message: "must not be negative"}
	}
	if o.MaxNFAStates < 0 {
		return &OptionsError{Field: "MaxNFAStates", Message: "must not be negative"}
	}
	if o.MaxDFAStates < 0 {
		return &OptionsError{Field: "MaxDFAStates", Message: "must not be negative"}
	}
	return nil
}

// OptionsError reports an invalid Options field.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "ctre: invalid options: " + e.Field + ": " + e.Message
}
