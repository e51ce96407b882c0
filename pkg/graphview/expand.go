package graphview

type bfsEntry struct {
	nodeID string
	hop    int
}

// walk runs a multi-source BFS from every seed, up to maxHops levels, and
// returns the seeds together with everything discovered. Each call owns its
// visited set.
func walk(seed NodeSet, adj *Adjacency, dir Direction, maxHops int) NodeSet {
	visited := seed.Clone()
	if maxHops <= 0 {
		return visited
	}

	queue := make([]bfsEntry, 0, len(seed))
	for id := range seed {
		queue = append(queue, bfsEntry{nodeID: id, hop: 0})
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= maxHops {
			continue
		}

		for _, neighborID := range adj.Neighbours(current.nodeID, dir) {
			if visited.Has(neighborID) {
				continue
			}
			visited.Add(neighborID)
			queue = append(queue, bfsEntry{nodeID: neighborID, hop: current.hop + 1})
		}
	}

	return visited
}

// ExpandNeighbours adds every node within k hops of the seed over the
// undirected union of forward and reverse adjacency. k <= 0 returns a copy
// of the seed.
func ExpandNeighbours(seed NodeSet, adj *Adjacency, k int) NodeSet {
	return walk(seed, adj, DirectionBoth, k)
}

// ExpandDirectional walks outbound hops along forward adjacency and inbound
// hops along reverse adjacency. Both walks start from the same seed and are
// independent of each other; their results are unioned with the seed.
func ExpandDirectional(seed NodeSet, adj *Adjacency, outbound, inbound int) NodeSet {
	result := seed.Clone()
	result.AddAll(walk(seed, adj, DirectionOut, outbound))
	result.AddAll(walk(seed, adj, DirectionIn, inbound))
	return result
}
