package nfa

import "fmt"

// InstKind identifies what a capture-group instruction does when an edge
// carrying it is taken.
type InstKind uint8

const (
	// InstStorePos records the current input offset into a capture
	// register.
	InstStorePos InstKind = iota
	// InstInvalidate clears a capture register, for a group that the
	// matched path skipped entirely.
	InstInvalidate
)

func (k InstKind) String() string {
	switch k {
	case InstStorePos:
		return "strpos"
	case InstInvalidate:
		return "invld"
	default:
		return "unknown"
	}
}

// Inst is a single capture-group instruction attached to an NFA edge. The
// emitted matcher is free to ignore these; they exist so the IR carries
// enough information for a future capture-extracting runtime to use.
type Inst struct {
	Kind     InstKind
	Register uint32
}

// StorePos builds a write-position instruction for register reg.
func StorePos(reg uint32) Inst { return Inst{Kind: InstStorePos, Register: reg} }

// Invalidate builds a register-invalidation instruction for register reg.
func Invalidate(reg uint32) Inst { return Inst{Kind: InstInvalidate, Register: reg} }

func (i Inst) String() string {
	return fmt.Sprintf("%s %d", i.Kind, i.Register)
}
