package nfa

import (
	"testing"

	"github.com/ctre-go/ctre/charset"
	"github.com/ctre-go/ctre/hir"
)

func edgeTo(n Node, to Node) *Edge {
	for _, e := range n.Edges() {
		if e.To == to.id {
			return &e
		}
	}
	return nil
}

func TestBuildEmptyLiteralIsBareEpsilon(t *testing.T) {
	g, first, last := Build(hir.NewLiteral(nil))
	e := edgeTo(first, last)
	if e == nil || !e.Epsilon || !e.Bytes.IsEmpty() {
		t.Fatalf("got %+v", e)
	}
	if g.Len() != 2 {
		t.Fatalf("got %d nodes, want 2", g.Len())
	}
}

func TestBuildLiteralChainsOneEdgePerByte(t *testing.T) {
	_, first, last := Build(hir.NewLiteral([]byte("ab")))
	if len(first.Edges()) != 1 {
		t.Fatalf("first should have exactly one outgoing edge, got %d", len(first.Edges()))
	}
	mid := Node{g: first.g, id: first.Edges()[0].To}
	if !first.Edges()[0].Bytes.Contains('a') {
		t.Fatalf("first edge should carry 'a', got %v", first.Edges()[0].Bytes)
	}
	e := edgeTo(mid, last)
	if e == nil || !e.Bytes.Contains('b') {
		t.Fatalf("mid->last edge should carry 'b', got %+v", e)
	}
}

func TestBuildClassIsOneDirectEdge(t *testing.T) {
	set := charset.FromRange('a', 'z')
	_, first, last := Build(hir.NewClass(set))
	e := edgeTo(first, last)
	if e == nil || !e.Bytes.Equal(set) {
		t.Fatalf("got %+v, want a direct edge carrying %v", e, set)
	}
}

func TestBuildEmptyConcatIsBareEpsilon(t *testing.T) {
	_, first, last := Build(hir.NewConcat(nil))
	e := edgeTo(first, last)
	if e == nil || !e.Epsilon {
		t.Fatalf("got %+v", e)
	}
}

func TestBuildDisjunctBranchesAndRejoins(t *testing.T) {
	h := hir.NewDisjunct([]hir.Hir{hir.NewLiteral([]byte("a")), hir.NewLiteral([]byte("b"))})
	_, first, last := Build(h)
	if len(first.Edges()) != 2 {
		t.Fatalf("first should fan out to 2 alternatives, got %d", len(first.Edges()))
	}
	reached := false
	VisitNodes(first, func(n Node) VisitResult {
		if n.ID() == last.ID() {
			reached = true
		}
		return Recurse
	})
	if !reached {
		t.Fatal("last must be reachable from first")
	}
}

func TestBuildRepeatStarHasBypass(t *testing.T) {
	h := hir.NewRepeat(hir.NewLiteral([]byte("a")), 0, 0, false)
	_, first, last := Build(h)
	e := edgeTo(first, last)
	if e == nil || !e.Epsilon {
		t.Fatal("star repeat must have a direct epsilon bypass from first to last")
	}
}

func TestBuildRepeatPlusHasNoBypass(t *testing.T) {
	h := hir.NewRepeat(hir.NewLiteral([]byte("a")), 1, 0, false)
	_, first, last := Build(h)
	if e := edgeTo(first, last); e != nil {
		t.Fatalf("plus repeat must not bypass the body, got %+v", e)
	}
}

func TestBuildRepeatExactZeroIsBareEpsilon(t *testing.T) {
	h := hir.NewRepeat(hir.NewLiteral([]byte("a")), 0, 0, true)
	_, first, last := Build(h)
	e := edgeTo(first, last)
	if e == nil || !e.Epsilon {
		t.Fatal("{0,0} repeat must be a bare epsilon edge from first to last")
	}
	if len(first.Edges()) != 1 {
		t.Fatalf("first should have exactly one edge, got %d", len(first.Edges()))
	}
}

func TestBuildRepeatExactNUnrollsInSeries(t *testing.T) {
	h := hir.NewRepeat(hir.NewClass(charset.FromRange('a', 'a')), 3, 3, true)
	_, first, last := Build(h)
	if e := edgeTo(first, last); e != nil {
		t.Fatalf("exact repeat of 3 must not have a direct first->last edge, got %+v", e)
	}
	count := 0
	VisitNodes(first, func(n Node) VisitResult {
		count++
		return Recurse
	})
	if count != 4 { // first, two intermediates, last
		t.Fatalf("got %d reachable nodes, want 4", count)
	}
}

func TestBuildRepeatBoundedHasPerPositionBypass(t *testing.T) {
	h := hir.NewRepeat(hir.NewLiteral([]byte("a")), 1, 3, true)
	_, first, last := Build(h)
	// The first mandatory copy must not itself bypass straight to last.
	if e := edgeTo(first, last); e != nil {
		t.Fatalf("mandatory prefix must not bypass to last, got %+v", e)
	}
	// Once the mandatory copy is matched, the first optional position may
	// be skipped straight to last.
	afterMandatory := Node{g: first.g, id: first.Edges()[0].To}
	if e := edgeTo(afterMandatory, last); e == nil || !e.Epsilon {
		t.Fatalf("optional position must carry an epsilon bypass to last, got %+v", e)
	}
	reached := false
	VisitNodes(first, func(n Node) VisitResult {
		if n.ID() == last.ID() {
			reached = true
		}
		return Recurse
	})
	if !reached {
		t.Fatal("last must be reachable")
	}
}

func TestBuildGroupAttachesStorePosToEnteringEdge(t *testing.T) {
	h := hir.NewGroup(7, hir.NewLiteral([]byte("a")))
	_, first, _ := Build(h)
	if len(first.Edges()) != 1 {
		t.Fatalf("got %d edges from first, want 1", len(first.Edges()))
	}
	e := first.Edges()[0]
	if len(e.Insts) != 1 || e.Insts[0] != StorePos(7) {
		t.Fatalf("got %+v, want a single StorePos(7) instruction", e.Insts)
	}
}

func TestBuildOptionalGroupInvalidatesTagOnBypass(t *testing.T) {
	h := hir.NewRepeat(hir.NewGroup(5, hir.NewLiteral([]byte("a"))), 0, 1, true)
	_, first, last := Build(h)
	e := edgeTo(first, last)
	if e == nil || !e.Epsilon {
		t.Fatal("expected a direct epsilon bypass edge from first to last")
	}
	for _, inst := range e.Insts {
		if inst == Invalidate(5) {
			return
		}
	}
	t.Fatalf("bypass edge %+v did not carry Invalidate(5)", e)
}

func TestCollectTagsCrossesNestedRepeat(t *testing.T) {
	inner := hir.NewGroup(2, hir.NewLiteral([]byte("a")))
	nested := hir.NewRepeat(inner, 1, 0, false)
	tags := collectTags(nested)
	if len(tags) != 1 || tags[0] != 2 {
		t.Fatalf("got %v, want [2]", tags)
	}
}
