// Package hir implements the engine's high-level intermediate
// representation: an algebraic pattern tree built by the parser and
// consumed by the NFA translator. Every node memoizes its length bounds so
// later stages can consult them without re-walking the tree.
package hir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ctre-go/ctre/charset"
)

// Kind identifies which concrete Hir variant a node is.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindClass
	KindConcat
	KindDisjunct
	KindRepeat
	KindGroup
)

// String returns the kind's name, e.g. "Literal".
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindClass:
		return "Class"
	case KindConcat:
		return "Concat"
	case KindDisjunct:
		return "Disjunct"
	case KindRepeat:
		return "Repeat"
	case KindGroup:
		return "Group"
	default:
		return "unknown"
	}
}

// LenHint bounds the byte length of every string a node can match. Max is
// only meaningful when HasMax is true; its absence models an unbounded
// repetition.
type LenHint struct {
	Min    int
	Max    int
	HasMax bool
}

// Hir is the sealed set of pattern-tree node kinds. Concrete types are
// *Literal, *Class, *Concat, *Disjunct, *Repeat, and *Group.
type Hir interface {
	fmt.Stringer
	Kind() Kind
	LenHint() LenHint
	sealed()
}

// ExactLen reports h's exact match length, if its minimum and maximum
// length bounds coincide.
func ExactLen(h Hir) (int, bool) {
	hint := h.LenHint()
	if hint.HasMax && hint.Min == hint.Max {
		return hint.Max, true
	}
	return 0, false
}

// Literal is a fixed byte string, already encoded from the source
// codepoints by the pattern's chosen Encoder.
type Literal struct {
	Bytes []byte
}

// NewLiteral builds a Literal node over bytes. bytes is retained, not copied.
func NewLiteral(bytes []byte) *Literal {
	return &Literal{Bytes: bytes}
}

func (*Literal) sealed()   {}
func (*Literal) Kind() Kind { return KindLiteral }

func (h *Literal) LenHint() LenHint {
	return LenHint{Min: len(h.Bytes), Max: len(h.Bytes), HasMax: true}
}

func (h *Literal) String() string {
	var b strings.Builder
	for _, by := range h.Bytes {
		writeByteLiteral(&b, by)
	}
	return b.String()
}

// Class matches one byte drawn from Set.
type Class struct {
	Set charset.ByteSet
}

// NewClass builds a Class node over set.
func NewClass(set charset.ByteSet) *Class {
	return &Class{Set: set}
}

func (*Class) sealed()    {}
func (*Class) Kind() Kind { return KindClass }

func (*Class) LenHint() LenHint {
	return LenHint{Min: 1, Max: 1, HasMax: true}
}

func (h *Class) String() string {
	return h.Set.String()
}

// Concat is the sequential composition of its items, matched in order.
type Concat struct {
	Items []Hir
	hint  LenHint
}

// NewConcat builds a Concat node, memoizing the sum of its items' length
// bounds. Adjacent Literal items are coalesced into one, so a run of
// single-codepoint literals parsed term by term collapses back into the
// multi-byte Literal an equivalent hand-written tree would have.
func NewConcat(items []Hir) *Concat {
	items = coalesceLiterals(items)
	hint := LenHint{Min: 0, Max: 0, HasMax: true}
	for _, item := range items {
		ih := item.LenHint()
		hint.Min += ih.Min
		if hint.HasMax && ih.HasMax {
			hint.Max += ih.Max
		} else {
			hint.HasMax = false
		}
	}
	return &Concat{Items: items, hint: hint}
}

func coalesceLiterals(items []Hir) []Hir {
	out := make([]Hir, 0, len(items))
	for _, item := range items {
		lit, ok := item.(*Literal)
		if !ok {
			out = append(out, item)
			continue
		}
		if n := len(out); n > 0 {
			if prev, ok := out[n-1].(*Literal); ok {
				out[n-1] = &Literal{Bytes: append(append([]byte{}, prev.Bytes...), lit.Bytes...)}
				continue
			}
		}
		out = append(out, lit)
	}
	return out
}

func (*Concat) sealed()    {}
func (*Concat) Kind() Kind { return KindConcat }
func (h *Concat) LenHint() LenHint { return h.hint }

func (h *Concat) String() string {
	var b strings.Builder
	for _, item := range h.Items {
		b.WriteString(item.String())
	}
	return b.String()
}

// Disjunct is an alternation: it matches whichever of its Alters matches.
type Disjunct struct {
	Alters []Hir
	hint   LenHint
}

// NewDisjunct builds a Disjunct node, memoizing the min of the minimums and
// the max of the maximums across its alternatives. An empty Disjunct has
// length hint (0, Some(0)).
func NewDisjunct(alters []Hir) *Disjunct {
	hint := LenHint{Min: int(^uint(0) >> 1), Max: 0, HasMax: true}
	for _, alt := range alters {
		ah := alt.LenHint()
		if ah.Min < hint.Min {
			hint.Min = ah.Min
		}
		if hint.HasMax && ah.HasMax {
			if ah.Max > hint.Max {
				hint.Max = ah.Max
			}
		} else {
			hint.HasMax = false
		}
	}
	if len(alters) == 0 {
		hint.Min = 0
	}
	return &Disjunct{Alters: alters, hint: hint}
}

func (*Disjunct) sealed()    {}
func (*Disjunct) Kind() Kind { return KindDisjunct }
func (h *Disjunct) LenHint() LenHint { return h.hint }

func (h *Disjunct) String() string {
	var b strings.Builder
	for i, alt := range h.Alters {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(alt.String())
	}
	return b.String()
}

// Repeat matches Inner between Min and Max times, inclusive; HasMax false
// means an unbounded upper end.
type Repeat struct {
	Inner  Hir
	Min    int
	Max    int
	HasMax bool
}

// NewRepeat builds a Repeat node over inner, bounded by [min,max].
// hasMax false means an unbounded repetition.
func NewRepeat(inner Hir, min, max int, hasMax bool) *Repeat {
	return &Repeat{Inner: inner, Min: min, Max: max, HasMax: hasMax}
}

func (*Repeat) sealed()    {}
func (*Repeat) Kind() Kind { return KindRepeat }

func (h *Repeat) LenHint() LenHint {
	inner := h.Inner.LenHint()
	out := LenHint{Min: h.Min * inner.Min}
	if h.HasMax && inner.HasMax {
		out.Max = h.Max * inner.Max
		out.HasMax = true
	}
	return out
}

func (h *Repeat) String() string {
	var b strings.Builder
	needsParens := h.Inner.Kind() != KindClass && h.Inner.Kind() != KindRepeat
	if n, ok := ExactLen(h.Inner); ok && n == 1 {
		needsParens = false
	}
	if needsParens {
		b.WriteByte('(')
	}
	b.WriteString(h.Inner.String())
	if needsParens {
		b.WriteByte(')')
	}
	switch {
	case h.Min == 0 && !h.HasMax:
		b.WriteByte('*')
	case h.Min == 1 && !h.HasMax:
		b.WriteByte('+')
	case h.Min == 0 && h.HasMax && h.Max == 1:
		b.WriteByte('?')
	case !h.HasMax:
		fmt.Fprintf(&b, "{%d,}", h.Min)
	default:
		fmt.Fprintf(&b, "{%d,%d}", h.Min, h.Max)
	}
	return b.String()
}

// Group tags a sub-expression with an integer capture identifier. The
// matcher is not required to interpret the tag; the translator attaches
// write-position/invalidate instructions to the surrounding NFA edges so
// the information survives for any future consumer.
type Group struct {
	Tag   int
	Inner Hir
}

// NewGroup builds a Group node wrapping inner under tag.
func NewGroup(tag int, inner Hir) *Group {
	return &Group{Tag: tag, Inner: inner}
}

func (*Group) sealed()    {}
func (*Group) Kind() Kind { return KindGroup }
func (h *Group) LenHint() LenHint { return h.Inner.LenHint() }

func (h *Group) String() string {
	return "(?<" + strconv.Itoa(h.Tag) + ">" + h.Inner.String() + ")"
}

func writeByteLiteral(b *strings.Builder, v byte) {
	switch {
	case v == '\\' || v == '.' || v == '*' || v == '+' || v == '-' || v == '?' ||
		v == '|' || v == '(' || v == ')' || v == '[' || v == ']' || v == '{' || v == '}':
		b.WriteByte('\\')
		b.WriteByte(v)
	case v >= 0x20 && v < 0x7f:
		b.WriteByte(v)
	default:
		fmt.Fprintf(b, "\\x%02x", v)
	}
}
