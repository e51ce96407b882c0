package graphview

import (
	"github.com/dd0wney/cluso-diagramviews/pkg/model"
)

// Adjacency indexes direct successors and predecessors of every node.
type Adjacency struct {
	Forward map[string]NodeSet // id → successors
	Reverse map[string]NodeSet // id → predecessors
}

// BuildAdjacency indexes edges in both directions.
func BuildAdjacency(edges []model.Edge) *Adjacency {
	adj := &Adjacency{
		Forward: make(map[string]NodeSet),
		Reverse: make(map[string]NodeSet),
	}
	for _, e := range edges {
		link(adj.Forward, e.From, e.To)
		link(adj.Reverse, e.To, e.From)
	}
	return adj
}

func link(index map[string]NodeSet, from, to string) {
	set, ok := index[from]
	if !ok {
		set = make(NodeSet)
		index[from] = set
	}
	set.Add(to)
}

// Neighbours returns the ids adjacent to id in the given direction. The
// result for DirectionBoth is the union of both indexes.
func (a *Adjacency) Neighbours(id string, dir Direction) []string {
	var out []string
	if dir == DirectionOut || dir == DirectionBoth {
		for n := range a.Forward[id] {
			out = append(out, n)
		}
	}
	if dir == DirectionIn || dir == DirectionBoth {
		for n := range a.Reverse[id] {
			if dir == DirectionBoth && a.Forward[id].Has(n) {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}
