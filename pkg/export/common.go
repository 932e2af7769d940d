package export

import (
	"sort"

	"github.com/codeprop/codeprop/pkg/graph"
)

// edgeIDsInOrder collects every edge ID in the graph, ascending, since
// *graph.Graph exposes edges only via per-node adjacency lookups.
func edgeIDsInOrder(g *graph.Graph) []graph.EdgeID {
	seen := make(map[graph.EdgeID]struct{})
	var ids []graph.EdgeID
	for _, nodeID := range g.AllNodeIDs() {
		for _, e := range g.OutgoingEdges(nodeID) {
			if _, ok := seen[e.ID]; ok {
				continue
			}
			seen[e.ID] = struct{}{}
			ids = append(ids, e.ID)
		}
	}
	sortEdgeIDs(ids)
	return ids
}

func sortEdgeIDs(ids []graph.EdgeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
