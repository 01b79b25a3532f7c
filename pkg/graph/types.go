// Package graph defines the core structural data model for orbitrank.
// A Model is a directed, weighted graph with per-node layer and cluster
// metadata. Models are immutable once handed to the ranking engine;
// weight variants are derived as new Models, never edited in place.
package graph

import "fmt"

// Layer bounds for the strategic-tone tier attached to every node.
const (
	MinLayer = 1
	MaxLayer = 7
)

// Node is a single entity in the network graph.
type Node struct {
	ID      string  `json:"id"`
	Layer   int     `json:"layer"`   // strategic-tone tier, MinLayer..MaxLayer
	Cluster string  `json:"cluster"` // cluster label, e.g. "research"
	Weight  float64 `json:"weight"`  // base weight, > 0
	URI     string  `json:"uri,omitempty"`
	Path    string  `json:"path,omitempty"` // local checkout path, if any
}

// Edge is a directed weighted link between two nodes.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"` // > 0
}

// IntegrityError reports a structurally invalid graph operation:
// an edge referencing an absent node, a duplicate edge, a non-positive
// weight, or a layer outside the allowed range.
type IntegrityError struct {
	Op     string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("graph integrity: %s: %s", e.Op, e.Detail)
}

func integrityErr(op, format string, args ...any) error {
	return &IntegrityError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Model is the in-memory graph. Construct it with AddNode/AddEdge, then
// treat it as read-only: the ranking passes share Models across
// goroutines without locking.
type Model struct {
	nodes map[string]Node
	out   map[string][]Edge
	order []string // node ids in insertion order, for deterministic iteration
	edges int
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{
		nodes: make(map[string]Node),
		out:   make(map[string][]Edge),
	}
}

// AddNode inserts a node. The id must be unique, the weight positive and
// the layer within [MinLayer, MaxLayer].
func (m *Model) AddNode(n Node) error {
	if n.ID == "" {
		return integrityErr("add node", "empty node id")
	}
	if _, exists := m.nodes[n.ID]; exists {
		return integrityErr("add node", "duplicate node %q", n.ID)
	}
	if n.Weight <= 0 {
		return integrityErr("add node", "node %q has non-positive weight %g", n.ID, n.Weight)
	}
	if n.Layer < MinLayer || n.Layer > MaxLayer {
		return integrityErr("add node", "node %q layer %d outside [%d,%d]", n.ID, n.Layer, MinLayer, MaxLayer)
	}
	m.nodes[n.ID] = n
	m.order = append(m.order, n.ID)
	return nil
}

// AddEdge inserts a directed edge. Both endpoints must already exist and
// the weight must be positive. At most one edge per ordered pair;
// self-loops are allowed but the solver excludes them from transition
// normalization.
func (m *Model) AddEdge(from, to string, weight float64) error {
	if _, ok := m.nodes[from]; !ok {
		return integrityErr("add edge", "unknown source node %q", from)
	}
	if _, ok := m.nodes[to]; !ok {
		return integrityErr("add edge", "unknown target node %q", to)
	}
	if weight <= 0 {
		return integrityErr("add edge", "edge %s -> %s has non-positive weight %g", from, to, weight)
	}
	for _, e := range m.out[from] {
		if e.To == to {
			return integrityErr("add edge", "duplicate edge %s -> %s", from, to)
		}
	}
	m.out[from] = append(m.out[from], Edge{From: from, To: to, Weight: weight})
	m.edges++
	return nil
}

// Node returns the node with the given id.
func (m *Model) Node(id string) (Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Has reports whether a node with the given id exists.
func (m *Model) Has(id string) bool {
	_, ok := m.nodes[id]
	return ok
}

// NodeIDs returns node ids in insertion order. The order is stable across
// repeated calls, which the solver relies on for reproducible results.
func (m *Model) NodeIDs() []string {
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids
}

// Nodes returns all nodes in insertion order.
func (m *Model) Nodes() []Node {
	nodes := make([]Node, 0, len(m.order))
	for _, id := range m.order {
		nodes = append(nodes, m.nodes[id])
	}
	return nodes
}

// Outgoing returns the outgoing edges of a node. The returned slice is
// owned by the Model and must not be modified.
func (m *Model) Outgoing(id string) []Edge {
	return m.out[id]
}

// Edges returns every edge, grouped by source node in insertion order.
func (m *Model) Edges() []Edge {
	edges := make([]Edge, 0, m.edges)
	for _, id := range m.order {
		edges = append(edges, m.out[id]...)
	}
	return edges
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return m.edges }

// Reverse returns a new Model with every edge flipped and weights
// preserved. The result shares no mutable state with the receiver, so
// both can be ranked concurrently. Reversing twice restores the original
// edge set.
func (m *Model) Reverse() *Model {
	rev := m.cloneNodes()
	for _, id := range m.order {
		for _, e := range m.out[id] {
			rev.out[e.To] = append(rev.out[e.To], Edge{From: e.To, To: e.From, Weight: e.Weight})
			rev.edges++
		}
	}
	return rev
}

// Reweight returns a new Model with the same nodes and edges, where each
// edge weight is transformed by fn(from, to, weight). It is the pure
// counterpart to mutating edge weights in place: the receiver is never
// touched.
func (m *Model) Reweight(fn func(from, to Node, weight float64) float64) *Model {
	derived := m.cloneNodes()
	for _, id := range m.order {
		for _, e := range m.out[id] {
			w := fn(m.nodes[e.From], m.nodes[e.To], e.Weight)
			derived.out[id] = append(derived.out[id], Edge{From: e.From, To: e.To, Weight: w})
			derived.edges++
		}
	}
	return derived
}

func (m *Model) cloneNodes() *Model {
	c := NewModel()
	c.order = make([]string, len(m.order))
	copy(c.order, m.order)
	for id, n := range m.nodes {
		c.nodes[id] = n
	}
	return c
}
