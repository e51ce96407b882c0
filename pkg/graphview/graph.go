package graphview

import (
	"github.com/dd0wney/cluso-diagramviews/pkg/model"
)

// Graph is the read-only node map and edge list a run selects from.
type Graph struct {
	Nodes map[string]model.Node
	Edges []model.Edge

	// Dangling holds input edges that referenced a node missing from the
	// node map. They take no part in adjacency, selection or rendering.
	Dangling []model.Edge
}

// NewGraph restricts edges to those whose endpoints both exist in nodes.
// Edge order and duplicates are preserved.
func NewGraph(nodes map[string]model.Node, edges []model.Edge) *Graph {
	g := &Graph{
		Nodes: nodes,
		Edges: make([]model.Edge, 0, len(edges)),
	}
	if g.Nodes == nil {
		g.Nodes = map[string]model.Node{}
	}
	for _, e := range edges {
		if g.HasNode(e.From) && g.HasNode(e.To) {
			g.Edges = append(g.Edges, e)
		} else {
			g.Dangling = append(g.Dangling, e)
		}
	}
	return g
}

// FromModel builds the graph of a loaded model.
func FromModel(m *model.Model) *Graph {
	return NewGraph(m.Nodes, m.Edges)
}

// HasNode reports whether id is in the node map.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// NodeIDs returns every node id.
func (g *Graph) NodeIDs() NodeSet {
	s := make(NodeSet, len(g.Nodes))
	for id := range g.Nodes {
		s.Add(id)
	}
	return s
}

// EdgeKeys returns every edge as an ordered pair.
func (g *Graph) EdgeKeys() EdgeSet {
	s := make(EdgeSet, len(g.Edges))
	for _, e := range g.Edges {
		s.Add(KeyOf(e))
	}
	return s
}
