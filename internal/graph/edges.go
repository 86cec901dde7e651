// SPDX-License-Identifier: MPL-2.0

package graph

// Edges is the import relation between modules. An edge from A to B means
// A imports B. Nodes keep their insertion order so listings are stable.
type Edges struct {
	// out maps each module to the modules it imports.
	out map[string][]string
	// in maps each module to the modules importing it.
	in map[string][]string
	// nodes tracks all nodes in insertion order for deterministic output.
	nodes []string
	// nodeSet provides O(1) lookup for node existence.
	nodeSet map[string]bool
}

// NewEdges creates an empty import relation.
func NewEdges() *Edges {
	return &Edges{
		out:     make(map[string][]string),
		in:      make(map[string][]string),
		nodeSet: make(map[string]bool),
	}
}

// AddNode adds a module. If it already exists, this is a no-op.
func (e *Edges) AddNode(name string) {
	if e.nodeSet[name] {
		return
	}
	e.nodeSet[name] = true
	e.nodes = append(e.nodes, name)
}

// AddEdge records that from imports to. Repeated edges are kept once.
func (e *Edges) AddEdge(from, to string) {
	e.AddNode(from)
	e.AddNode(to)
	for _, existing := range e.out[from] {
		if existing == to {
			return
		}
	}
	e.out[from] = append(e.out[from], to)
	e.in[to] = append(e.in[to], from)
}

// Imports returns the distinct modules imported by name, in first-seen order.
func (e *Edges) Imports(name string) []string {
	return append([]string(nil), e.out[name]...)
}

// Importers returns the modules importing name, in the order they were
// recorded.
func (e *Edges) Importers(name string) []string {
	return append([]string(nil), e.in[name]...)
}

// Nodes returns every module in insertion order.
func (e *Edges) Nodes() []string {
	return append([]string(nil), e.nodes...)
}
