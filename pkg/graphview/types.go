package graphview

import (
	"sort"

	"github.com/dd0wney/cluso-diagramviews/pkg/model"
)

// Direction selects which adjacency a walk follows.
type Direction int

const (
	// DirectionOut follows edges from source to target
	DirectionOut Direction = iota
	// DirectionIn follows edges from target back to source
	DirectionIn
	// DirectionBoth treats the graph as undirected
	DirectionBoth
)

// NodeSet is a set of node ids.
type NodeSet map[string]struct{}

// NewNodeSet builds a set from ids.
func NewNodeSet(ids ...string) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id.
func (s NodeSet) Add(id string) { s[id] = struct{}{} }

// Has reports membership; safe on a nil set.
func (s NodeSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// AddAll merges other into s.
func (s NodeSet) AddAll(other NodeSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Clone returns an independent copy.
func (s NodeSet) Clone() NodeSet {
	c := make(NodeSet, len(s))
	c.AddAll(s)
	return c
}

// Sorted returns the ids in lexicographic order.
func (s NodeSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EdgeKey is an ordered (source, target) pair.
type EdgeKey struct {
	From string
	To   string
}

// EdgeSet is a set of ordered pairs. Parallel input edges between the same
// pair collapse to one entry here.
type EdgeSet map[EdgeKey]struct{}

// Add inserts k.
func (s EdgeSet) Add(k EdgeKey) { s[k] = struct{}{} }

// Has reports membership.
func (s EdgeSet) Has(k EdgeKey) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the pairs ordered by (From, To).
func (s EdgeSet) Sorted() []EdgeKey {
	keys := make([]EdgeKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})
	return keys
}

// KeyOf returns the ordered pair of an edge.
func KeyOf(e model.Edge) EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// Selection is the outcome of selecting one view.
type Selection struct {
	Nodes NodeSet
	Edges EdgeSet

	// Fallback is set when no selector matched and the full graph was taken.
	Fallback bool
	// ExplicitEdges is set when edge tags chose the edge set directly.
	ExplicitEdges bool
}
