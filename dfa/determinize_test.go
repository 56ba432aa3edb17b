package dfa_test

import (
	"reflect"
	"testing"

	"github.com/ctre-go/ctre/dfa"
	"github.com/ctre-go/ctre/nfa"
	"github.com/ctre-go/ctre/syntax"
	"github.com/ctre-go/ctre/utf8range"
)

func compile(t *testing.T, pattern string) *dfa.DFA {
	t.Helper()
	p := syntax.NewParser(utf8range.NewEncoder(utf8range.UTF8), syntax.Config{})
	h, err := p.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	g, start, _ := nfa.Build(h)
	return dfa.Determinize(g, start)
}

func TestEndToEndLiteral(t *testing.T) {
	d := compile(t, "42")
	end, ok := d.MatchAt([]byte("0421"), 1)
	if !ok || end != 3 {
		t.Fatalf("got (%d,%v), want (3,true)", end, ok)
	}
}

func TestEndToEndHello(t *testing.T) {
	d := compile(t, "hello")
	if _, ok := d.MatchAt([]byte("hhelloo"), 0); ok {
		t.Fatal("expected no match at offset 0")
	}
	end, ok := d.MatchAt([]byte("hhelloo"), 1)
	if !ok || end != 6 {
		t.Fatalf("got (%d,%v), want (6,true)", end, ok)
	}
}

func TestEndToEndHelloStar(t *testing.T) {
	d := compile(t, "hello*")
	end, ok := d.MatchAt([]byte("hhelloooO"), 1)
	if !ok || end != 8 {
		t.Fatalf("got (%d,%v), want (8,true)", end, ok)
	}
}

func TestEndToEndClassStarLiteral(t *testing.T) {
	d := compile(t, "[ab]*a")
	end, ok := d.MatchAt([]byte("aaaaab"), 0)
	if !ok || end != 5 {
		t.Fatalf("got (%d,%v), want (5,true)", end, ok)
	}
	if _, ok := d.MatchAt([]byte("bbb"), 0); ok {
		t.Fatal("expected no match against \"bbb\"")
	}
}

func TestEndToEndMultiByteClass(t *testing.T) {
	pattern := "[a-я]"
	d := compile(t, pattern)
	for _, s := range []string{"a", "я"} {
		if _, ok := d.MatchAt([]byte(s), 0); !ok {
			t.Fatalf("expected %q to match", s)
		}
	}
	if _, ok := d.MatchAt(nil, 0); ok {
		t.Fatal("an empty haystack must not match a single-codepoint class")
	}
	if _, ok := d.MatchAt([]byte{0xFF}, 0); ok {
		t.Fatal("0xFF must not match the class")
	}
}

func TestEndToEndGroupedAlternationPlus(t *testing.T) {
	d := compile(t, "(ab|cde)+")
	end, ok := d.MatchAt([]byte("abcdeabxx"), 0)
	if !ok || end != 7 {
		t.Fatalf("got (%d,%v), want (7,true)", end, ok)
	}
}

func TestDeterminizeIsStable(t *testing.T) {
	a := compile(t, "(ab|cde)+")
	b := compile(t, "(ab|cde)+")
	if !reflect.DeepEqual(a.Transitions, b.Transitions) {
		t.Fatal("compiling the same pattern twice must produce identical tables")
	}
	if a.Start != b.Start || a.FirstNonFinal != b.FirstNonFinal || a.Invalid != b.Invalid {
		t.Fatal("compiling the same pattern twice must produce identical constants")
	}
}

func TestFinalStatesOccupyLowestIndices(t *testing.T) {
	d := compile(t, "[ab]*a")
	for s := dfa.StateID(0); s < d.Invalid; s++ {
		if d.IsFinal(s) != (s < d.FirstNonFinal) {
			t.Fatalf("state %d: IsFinal inconsistent with FirstNonFinal", s)
		}
	}
}

func TestDeterminismEveryByteHasExactlyOneSuccessor(t *testing.T) {
	d := compile(t, "(ab|cde)+")
	for s := dfa.StateID(0); s < d.Invalid; s++ {
		row := d.Transitions[s]
		for b := 0; b < 256; b++ {
			if row[b] > d.Invalid {
				t.Fatalf("state %d byte %d: target %d exceeds Invalid %d", s, b, row[b], d.Invalid)
			}
		}
	}
}
