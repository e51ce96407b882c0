package graphview

import (
	"testing"

	"github.com/dd0wney/cluso-diagramviews/pkg/model"
)

func chain(ids ...string) *Adjacency {
	var edges []model.Edge
	for i := 0; i+1 < len(ids); i++ {
		edges = append(edges, edge(ids[i], ids[i+1]))
	}
	return BuildAdjacency(edges)
}

func TestBuildAdjacency(t *testing.T) {
	adj := BuildAdjacency([]model.Edge{edge("A", "B"), edge("A", "C"), edge("A", "B")})

	assertNodes(t, adj.Forward["A"], "B", "C")
	assertNodes(t, adj.Reverse["B"], "A")
	assertNodes(t, adj.Reverse["C"], "A")
	if len(adj.Forward["B"]) != 0 {
		t.Errorf("B has no successors, got %v", adj.Forward["B"].Sorted())
	}
}

func TestNeighbours_BothIsUnion(t *testing.T) {
	// A <-> B plus C -> A
	adj := BuildAdjacency([]model.Edge{edge("A", "B"), edge("B", "A"), edge("C", "A")})

	got := NewNodeSet(adj.Neighbours("A", DirectionBoth)...)
	assertNodes(t, got, "B", "C")
	if len(adj.Neighbours("A", DirectionBoth)) != 2 {
		t.Error("a node adjacent both ways should be listed once")
	}
}

func TestExpandNeighbours_Hops(t *testing.T) {
	adj := chain("A", "B", "C", "D")

	tests := []struct {
		k    int
		want []string
	}{
		{-1, []string{"B"}},
		{0, []string{"B"}},
		{1, []string{"A", "B", "C"}},
		{2, []string{"A", "B", "C", "D"}},
		{10, []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		got := ExpandNeighbours(NewNodeSet("B"), adj, tt.k)
		assertNodes(t, got, tt.want...)
	}
}

func TestExpandNeighbours_DoesNotMutateSeed(t *testing.T) {
	seed := NewNodeSet("B")
	ExpandNeighbours(seed, chain("A", "B", "C"), 2)
	assertNodes(t, seed, "B")
}

func TestExpandDirectional(t *testing.T) {
	adj := chain("A", "B", "C", "D")

	assertNodes(t, ExpandDirectional(NewNodeSet("B"), adj, 1, 0), "B", "C")
	assertNodes(t, ExpandDirectional(NewNodeSet("B"), adj, 2, 0), "B", "C", "D")
	assertNodes(t, ExpandDirectional(NewNodeSet("C"), adj, 0, 1), "B", "C")
	assertNodes(t, ExpandDirectional(NewNodeSet("C"), adj, 1, 2), "A", "B", "C", "D")
	assertNodes(t, ExpandDirectional(NewNodeSet("C"), adj, 0, 0), "C")
}

func TestExpandDirectional_WalksAreIndependent(t *testing.T) {
	// S -> X, X -> S, W -> X. The outbound walk reaches X first; the inbound
	// walk must still pass through X to reach W.
	adj := BuildAdjacency([]model.Edge{edge("S", "X"), edge("X", "S"), edge("W", "X")})

	got := ExpandDirectional(NewNodeSet("S"), adj, 1, 2)
	assertNodes(t, got, "S", "W", "X")
}

func TestExpand_Cycle(t *testing.T) {
	adj := BuildAdjacency([]model.Edge{edge("A", "B"), edge("B", "C"), edge("C", "A")})

	assertNodes(t, ExpandDirectional(NewNodeSet("A"), adj, 100, 0), "A", "B", "C")
	assertNodes(t, ExpandNeighbours(NewNodeSet("A"), adj, 100), "A", "B", "C")
}
