package dfa

import (
	"sort"

	"github.com/ctre-go/ctre/internal/sparse"
	"github.com/ctre-go/ctre/nfa"
)

// Determinize runs subset construction over g, starting from start, and
// returns the resulting complete DFA. Follows spec.md §4.7's algorithm
// directly, since original_source's own determinize() is an unimplemented
// stub (only its e_closure helper is real): compute the epsilon closure of
// the start node, then repeatedly, for each discovered state and each
// byte, union the byte-targets of every NFA node in that state and close
// the result, assigning a fresh state whenever the canonical (sorted)
// node-id set hasn't been seen before. Termination follows from there
// being at most 2^|NFA| distinct node-id sets.
func Determinize(g *nfa.Graph, start nfa.Node) *DFA {
	index := make(map[string]int)
	var states []discovered

	addState := func(ids []nfa.NodeID) int {
		key := canonicalKey(ids)
		if idx, ok := index[key]; ok {
			return idx
		}
		isFinal := false
		for _, id := range ids {
			if g.Node(id).IsFinal() {
				isFinal = true
				break
			}
		}
		idx := len(states)
		index[key] = idx
		states = append(states, discovered{ids: ids, isFinal: isFinal})
		return idx
	}

	addState(closure(g, []nfa.Node{start}))

	const sink = -1
	var raw [][256]int
	for i := 0; i < len(states); i++ {
		// states may grow while this loop runs, as new byte-targets are
		// discovered; re-reading len(states) each iteration is deliberate.
		row := [256]int{}
		for b := range row {
			row[b] = sink
		}
		raw = append(raw, row)

		byByte := make(map[byte][]nfa.NodeID)
		for _, id := range states[i].ids {
			for _, e := range g.Node(id).Edges() {
				if e.Bytes.IsEmpty() {
					continue
				}
				it := e.Bytes.Ranges()
				for it.HasNext() {
					r, _ := it.Next()
					for b := int(r.Start()); b <= int(r.Last()); b++ {
						byByte[byte(b)] = appendUnique(byByte[byte(b)], e.To)
					}
				}
			}
		}
		// visit bytes in ascending order so new states are discovered, and
		// numbered, the same way on every run
		for b := 0; b < 256; b++ {
			targetIDs, ok := byByte[byte(b)]
			if !ok {
				continue
			}
			roots := make([]nfa.Node, len(targetIDs))
			for j, id := range targetIDs {
				roots[j] = g.Node(id)
			}
			raw[i][b] = addState(closure(g, roots))
		}
	}

	return renumber(states, raw)
}

func appendUnique(ids []nfa.NodeID, id nfa.NodeID) []nfa.NodeID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// discovered is one subset-construction state found during Determinize's
// discovery pass, before final state numbering is assigned.
type discovered struct {
	ids     []nfa.NodeID
	isFinal bool
}

// renumber assigns final states the lowest indices [0,F), non-final states
// [F,S), and the sink S, rewriting raw's sink-marked (-1) cells to S along
// the way.
func renumber(states []discovered, raw [][256]int) *DFA {
	newIndex := make([]StateID, len(states))
	var finals, nonFinals []int
	for i, st := range states {
		if st.isFinal {
			finals = append(finals, i)
		} else {
			nonFinals = append(nonFinals, i)
		}
	}
	for newIdx, oldIdx := range finals {
		newIndex[oldIdx] = StateID(newIdx)
	}
	for k, oldIdx := range nonFinals {
		newIndex[oldIdx] = StateID(len(finals) + k)
	}

	sinkID := StateID(len(states))
	transitions := make([][256]StateID, len(states))
	for oldIdx := range states {
		newIdx := newIndex[oldIdx]
		var row [256]StateID
		for b := 0; b < 256; b++ {
			target := raw[oldIdx][b]
			if target < 0 {
				row[b] = sinkID
			} else {
				row[b] = newIndex[target]
			}
		}
		transitions[newIdx] = row
	}

	return &DFA{
		Start:         newIndex[0],
		FirstNonFinal: StateID(len(finals)),
		Invalid:       sinkID,
		Transitions:   transitions,
	}
}

// closure computes the epsilon closure of roots: the least node-id set
// containing roots, closed under "follow every epsilon edge". Walks each
// root through nfa.VisitEdges, which worklists rather than recurses, so a
// deeply looping pattern (Kleene star/plus) cannot overflow the call
// stack; add tracks membership across every root's walk so a node shared
// by two roots is only ever explored once.
func closure(g *nfa.Graph, roots []nfa.Node) []nfa.NodeID {
	seen := sparse.New(uint32(g.Len()))
	var out []nfa.NodeID
	add := func(n nfa.Node) bool {
		if seen.Contains(uint32(n.ID())) {
			return false
		}
		seen.Insert(uint32(n.ID()))
		out = append(out, n.ID())
		return true
	}

	for _, r := range roots {
		if !add(r) {
			continue
		}
		nfa.VisitEdges(r, func(from nfa.Node, edge nfa.Edge, to nfa.Node) nfa.VisitResult {
			if !edge.Epsilon {
				return nfa.Continue
			}
			if add(to) {
				return nfa.Recurse
			}
			return nfa.Continue
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// canonicalKey builds a map key from a sorted node-id set so that two
// equal sets (the DFA-state identity subset construction is keyed on)
// compare equal regardless of discovery order.
func canonicalKey(ids []nfa.NodeID) string {
	buf := make([]byte, 0, len(ids)*4)
	for _, id := range ids {
		buf = append(buf, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
	}
	return string(buf)
}
