// Package nfa builds Thompson-style NFA graphs from hir.Hir trees and
// provides the worklist-based traversal primitives (VisitNodes,
// VisitEdges) that the dfa package's epsilon-closure walk is built on.
package nfa

import (
	"fmt"
	"strings"

	"github.com/ctre-go/ctre/charset"
)

// NodeID identifies a node within its owning Graph, stable for the graph's
// lifetime.
type NodeID uint32

// Edge is the label on a connection from one node to another. An edge may
// carry an epsilon flag, a byte-range set, or both at once (a node pair can
// be joined by a single spontaneous transition and a single consuming one,
// merged into this one record since at most one edge exists per ordered
// node pair). Insts are capture-group instructions attached to the epsilon
// half of the edge; they are empty on ordinary edges.
type Edge struct {
	To      NodeID
	Epsilon bool
	Bytes   charset.ByteSet
	Insts   []Inst
}

type node struct {
	isFinal bool
	edges   []Edge
}

// Graph owns every node of one NFA. Node handles are only valid for the
// Graph that produced them; connecting handles from two different graphs
// panics.
type Graph struct {
	nodes []node
}

// NewGraph returns an empty graph, ready to have nodes allocated into it.
func NewGraph() *Graph {
	return &Graph{}
}

// NewNode allocates a fresh, non-final node and returns a handle to it.
// Node identifiers are assigned in allocation order and never reused.
func (g *Graph) NewNode() Node {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{})
	return Node{g: g, id: id}
}

// Len reports how many nodes have been allocated in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the handle for the node identified by id. id must have come
// from a node allocated in this graph.
func (g *Graph) Node(id NodeID) Node {
	return Node{g: g, id: id}
}

// Nodes returns every node currently in the graph, in allocation order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i := range g.nodes {
		out[i] = Node{g: g, id: NodeID(i)}
	}
	return out
}

// String renders every node and its outgoing edges, one block per node,
// in allocation order.
func (g *Graph) String() string {
	var b strings.Builder
	for i := range g.nodes {
		n := Node{g: g, id: NodeID(i)}
		fmt.Fprintf(&b, "%s {\n", n)
		for _, e := range g.nodes[i].edges {
			if e.Epsilon {
				fmt.Fprintf(&b, "    [EPSILON] -> node(%d)", e.To)
				for _, inst := range e.Insts {
					fmt.Fprintf(&b, " %s", inst)
				}
				b.WriteByte('\n')
			}
			if !e.Bytes.IsEmpty() {
				fmt.Fprintf(&b, "    %s -> node(%d)\n", e.Bytes, e.To)
			}
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// Node is a lightweight handle into a Graph. Two handles denote the same
// node iff they share both a graph and an id.
type Node struct {
	g  *Graph
	id NodeID
}

// ID returns the node's identifier, unique within its owning graph.
func (n Node) ID() NodeID { return n.id }

// IsFinal reports whether reaching n completes a match.
func (n Node) IsFinal() bool { return n.g.nodes[n.id].isFinal }

// Finalize marks n as an accepting node and returns it.
func (n Node) Finalize() Node {
	n.g.nodes[n.id].isFinal = true
	return n
}

// Definalize clears n's accepting flag and returns it.
func (n Node) Definalize() Node {
	n.g.nodes[n.id].isFinal = false
	return n
}

// Edges returns n's outgoing edges, in the order they were first connected.
func (n Node) Edges() []Edge {
	return n.g.nodes[n.id].edges
}

// EpsilonTargets returns the nodes reachable from n by a single epsilon
// edge.
func (n Node) EpsilonTargets() []Node {
	var out []Node
	for _, e := range n.g.nodes[n.id].edges {
		if e.Epsilon {
			out = append(out, Node{g: n.g, id: e.To})
		}
	}
	return out
}

func (n Node) edgeTo(to NodeID) *Edge {
	edges := n.g.nodes[n.id].edges
	for i := range edges {
		if edges[i].To == to {
			return &edges[i]
		}
	}
	return nil
}

// ConnectEpsilon adds (or reuses) an epsilon edge from n to to, appending
// insts to whatever instructions the edge already carries.
func (n Node) ConnectEpsilon(to Node, insts ...Inst) {
	n.assertSameGraph(to)
	if e := n.edgeTo(to.id); e != nil {
		e.Epsilon = true
		e.Insts = append(e.Insts, insts...)
		return
	}
	n.g.nodes[n.id].edges = append(n.g.nodes[n.id].edges, Edge{To: to.id, Epsilon: true, Insts: insts})
}

// ConnectBytes adds (or unions into) a byte-range edge from n to to.
func (n Node) ConnectBytes(to Node, set charset.ByteSet) {
	n.assertSameGraph(to)
	if e := n.edgeTo(to.id); e != nil {
		e.Bytes = e.Bytes.Union(set)
		return
	}
	n.g.nodes[n.id].edges = append(n.g.nodes[n.id].edges, Edge{To: to.id, Bytes: set})
}

func (n Node) assertSameGraph(to Node) {
	if n.g != to.g {
		panic("nfa: cannot connect nodes belonging to different graphs")
	}
}

func (n Node) String() string {
	if n.IsFinal() {
		return fmt.Sprintf("node((%d))", n.id)
	}
	return fmt.Sprintf("node(%d)", n.id)
}
