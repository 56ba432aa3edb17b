package nfa

import (
	"fmt"

	"github.com/ctre-go/ctre/charset"
	"github.com/ctre-go/ctre/hir"
)

// Build compiles h into a fresh graph and returns it along with its start
// node and its single accepting node.
func Build(h hir.Hir) (*Graph, Node, Node) {
	g := NewGraph()
	first := g.NewNode()
	last := g.NewNode()
	translate(g, h, first, last)
	last.Finalize()
	return g, first, last
}

// translate lowers h into the region of g between first and last: first is
// entered having consumed nothing of h yet, and reaching last means h has
// matched in full. Every construction below only ever adds nodes and
// edges; it never removes or rewires anything first and last already
// carry, so translate can be called again for siblings without
// interference.
func translate(g *Graph, h hir.Hir, first, last Node) {
	switch n := h.(type) {
	case *hir.Literal:
		translateLiteral(g, n, first, last)
	case *hir.Class:
		translateClass(n, first, last)
	case *hir.Concat:
		translateConcat(g, n, first, last)
	case *hir.Disjunct:
		translateDisjunct(g, n, first, last)
	case *hir.Repeat:
		translateRepeat(g, n, first, last)
	case *hir.Group:
		translateGroup(g, n, first, last)
	default:
		panic(fmt.Sprintf("nfa: unknown hir node %T", h))
	}
}

func translateLiteral(g *Graph, lit *hir.Literal, first, last Node) {
	if len(lit.Bytes) == 0 {
		first.ConnectEpsilon(last)
		return
	}
	cur := first
	for _, b := range lit.Bytes[:len(lit.Bytes)-1] {
		next := g.NewNode()
		cur.ConnectBytes(next, charset.FromRange(b, b))
		cur = next
	}
	last1 := lit.Bytes[len(lit.Bytes)-1]
	cur.ConnectBytes(last, charset.FromRange(last1, last1))
}

func translateClass(cls *hir.Class, first, last Node) {
	first.ConnectBytes(last, cls.Set)
}

func translateConcat(g *Graph, c *hir.Concat, first, last Node) {
	if len(c.Items) == 0 {
		first.ConnectEpsilon(last)
		return
	}
	cur := first
	for _, item := range c.Items[:len(c.Items)-1] {
		next := g.NewNode()
		translate(g, item, cur, next)
		cur = next
	}
	translate(g, c.Items[len(c.Items)-1], cur, last)
}

func translateDisjunct(g *Graph, d *hir.Disjunct, first, last Node) {
	for _, alt := range d.Alters {
		altFirst := g.NewNode()
		altLast := g.NewNode()
		translate(g, alt, altFirst, altLast)
		first.ConnectEpsilon(altFirst)
		altLast.ConnectEpsilon(last)
	}
}

func translateGroup(g *Graph, grp *hir.Group, first, last Node) {
	innerFirst := g.NewNode()
	innerLast := g.NewNode()
	translate(g, grp.Inner, innerFirst, innerLast)
	first.ConnectEpsilon(innerFirst, StorePos(uint32(grp.Tag)))
	innerLast.ConnectEpsilon(last)
}

// translateRepeat implements the six-case construction for Inner repeated
// between Min and Max times (Max meaningless when HasMax is false).
// Whenever a repetition can legally match zero times, the edge that
// bypasses the body entirely is tagged to invalidate every capture
// register the skipped body would otherwise have written, since those
// registers never saw a match on this path.
func translateRepeat(g *Graph, rep *hir.Repeat, first, last Node) {
	skipped := collectTags(rep.Inner)

	switch {
	case rep.Min == 0 && !rep.HasMax:
		// Kleene star: loop the body, with a bypass for zero iterations.
		innerFirst, innerLast := g.NewNode(), g.NewNode()
		translate(g, rep.Inner, innerFirst, innerLast)
		first.ConnectEpsilon(innerFirst)
		innerLast.ConnectEpsilon(last)
		innerLast.ConnectEpsilon(innerFirst)
		first.ConnectEpsilon(last, invalidations(skipped)...)

	case rep.Min == 1 && !rep.HasMax:
		// Kleene plus: same loop, no bypass.
		innerFirst, innerLast := g.NewNode(), g.NewNode()
		translate(g, rep.Inner, innerFirst, innerLast)
		first.ConnectEpsilon(innerFirst)
		innerLast.ConnectEpsilon(last)
		innerLast.ConnectEpsilon(innerFirst)

	case !rep.HasMax:
		// n >= 2, unbounded: n-1 mandatory copies in series, then a
		// Kleene-plus loop for the rest.
		cur := first
		for i := 1; i < rep.Min; i++ {
			next := g.NewNode()
			translate(g, rep.Inner, cur, next)
			cur = next
		}
		innerFirst, innerLast := g.NewNode(), g.NewNode()
		translate(g, rep.Inner, innerFirst, innerLast)
		cur.ConnectEpsilon(innerFirst)
		innerLast.ConnectEpsilon(last)
		innerLast.ConnectEpsilon(innerFirst)

	case rep.Min == rep.Max:
		// Exact count: straight-line unrolling; zero copies is a bare
		// epsilon edge.
		if rep.Min == 0 {
			first.ConnectEpsilon(last, invalidations(skipped)...)
			return
		}
		cur := first
		for i := 0; i < rep.Min-1; i++ {
			next := g.NewNode()
			translate(g, rep.Inner, cur, next)
			cur = next
		}
		translate(g, rep.Inner, cur, last)

	case rep.Min < rep.Max:
		// Bounded range: Min mandatory copies, then Max-Min optional
		// copies each with its own bypass straight to last.
		cur := first
		for i := 0; i < rep.Min; i++ {
			next := g.NewNode()
			translate(g, rep.Inner, cur, next)
			cur = next
		}
		for i := rep.Min; i < rep.Max; i++ {
			midOne, midTwo := g.NewNode(), g.NewNode()
			cur.ConnectEpsilon(midOne)
			translate(g, rep.Inner, midOne, midTwo)
			next := g.NewNode()
			midTwo.ConnectEpsilon(next)
			cur.ConnectEpsilon(last, invalidations(skipped)...)
			cur = next
		}
		cur.ConnectEpsilon(last)

	default:
		panic(fmt.Sprintf("nfa: invalid repetition counters {%d,%d}", rep.Min, rep.Max))
	}
}

// collectTags gathers every capture register a Group anywhere in h writes,
// including inside nested Concat/Disjunct/Repeat/Group structure, so a
// bypass edge skipping h entirely can invalidate all of them.
func collectTags(h hir.Hir) []uint32 {
	var tags []uint32
	var walk func(hir.Hir)
	walk = func(h hir.Hir) {
		switch n := h.(type) {
		case *hir.Group:
			tags = append(tags, uint32(n.Tag))
			walk(n.Inner)
		case *hir.Concat:
			for _, item := range n.Items {
				walk(item)
			}
		case *hir.Disjunct:
			for _, alt := range n.Alters {
				walk(alt)
			}
		case *hir.Repeat:
			walk(n.Inner)
		}
	}
	walk(h)
	return tags
}

func invalidations(tags []uint32) []Inst {
	if len(tags) == 0 {
		return nil
	}
	insts := make([]Inst, len(tags))
	for i, tag := range tags {
		insts[i] = Invalidate(tag)
	}
	return insts
}
