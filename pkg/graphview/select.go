package graphview

import (
	"github.com/dd0wney/cluso-diagramviews/pkg/model"
)

// Select materializes one view of g:
//
//  1. seed nodes from explicit ids and node tags
//  2. edges matching edge tags become the explicit edge set; their
//     endpoints join the node set
//  3. if nothing matched, take the whole graph
//  4. expand: neighbours first, then outbound/inbound from the result of
//     the neighbours walk
//  5. without explicit edges, the edge set is the induced subgraph
//  6. drop node ids missing from the node map
func Select(g *Graph, adj *Adjacency, spec model.ViewSpec) Selection {
	nodes := NewNodeSet(spec.Include.Nodes...)

	nodeTags := NewNodeSet(spec.Include.Tags...)
	if len(nodeTags) > 0 {
		for id, n := range g.Nodes {
			if intersects(n.Tags, nodeTags) {
				nodes.Add(id)
			}
		}
	}

	explicit := make(EdgeSet)
	edgeTags := NewNodeSet(spec.Include.EdgeTags...)
	if len(edgeTags) > 0 {
		for _, e := range g.Edges {
			if intersects(e.Tags, edgeTags) {
				explicit.Add(KeyOf(e))
				nodes.Add(e.From)
				nodes.Add(e.To)
			}
		}
	}

	sel := Selection{}
	if len(nodes) == 0 && len(explicit) == 0 {
		nodes = g.NodeIDs()
		explicit = g.EdgeKeys()
		sel.Fallback = true
	}

	if spec.Expand.Neighbours != nil {
		nodes = ExpandNeighbours(nodes, adj, model.Hops(spec.Expand.Neighbours))
	}
	if spec.Expand.Directional() {
		nodes = ExpandDirectional(nodes, adj, model.Hops(spec.Expand.Outbound), model.Hops(spec.Expand.Inbound))
	}

	if len(explicit) == 0 {
		explicit = InducedEdges(g.Edges, nodes)
	} else if !sel.Fallback {
		sel.ExplicitEdges = true
	}

	for id := range nodes {
		if !g.HasNode(id) {
			delete(nodes, id)
		}
	}

	sel.Nodes = nodes
	sel.Edges = explicit
	return sel
}

// InducedEdges returns every edge whose endpoints are both in nodes.
func InducedEdges(edges []model.Edge, nodes NodeSet) EdgeSet {
	induced := make(EdgeSet)
	for _, e := range edges {
		if nodes.Has(e.From) && nodes.Has(e.To) {
			induced.Add(KeyOf(e))
		}
	}
	return induced
}

func intersects(tags []string, want NodeSet) bool {
	for _, t := range tags {
		if want.Has(t) {
			return true
		}
	}
	return false
}
