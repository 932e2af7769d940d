// Package deps implements the dependency-analysis helpers layered over
// pkg/graph and pkg/algo (spec layer L6): caller/callee lookups, file
// dependency edges, transitive closures, and circular-dependency
// detection.
package deps

import (
	"github.com/codeprop/codeprop/pkg/algo"
	"github.com/codeprop/codeprop/pkg/graph"
)

// Callers returns every node with a Calls edge into fn.
func Callers(g *graph.Graph, fn graph.NodeID) ([]graph.NodeID, error) {
	return neighborsByEdgeTypes(g, fn, graph.Incoming, []graph.EdgeType{graph.EdgeCalls})
}

// Callees returns every node fn has a Calls edge into.
func Callees(g *graph.Graph, fn graph.NodeID) ([]graph.NodeID, error) {
	return neighborsByEdgeTypes(g, fn, graph.Outgoing, []graph.EdgeType{graph.EdgeCalls})
}

// FunctionsInFile returns every Function node contained directly in
// fileID.
func FunctionsInFile(g *graph.Graph, fileID graph.NodeID) ([]graph.NodeID, error) {
	neighbors, err := g.GetNeighbors(fileID, graph.Outgoing)
	if err != nil {
		return nil, err
	}
	var out []graph.NodeID
	for _, id := range neighbors {
		n, err := g.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n.NodeType == graph.NodeFunction {
			out = append(out, id)
		}
	}
	return out, nil
}

// importEdgeTypes is the sub-relation §4.7 defines file dependencies over:
// an import can be recorded as either Imports or ImportsFrom depending on
// the source language's import style (whole-module vs. named-symbol).
var importEdgeTypes = []graph.EdgeType{graph.EdgeImports, graph.EdgeImportsFrom}

// FileDependencies returns every file fileID imports from directly, via
// either an Imports or an ImportsFrom edge.
func FileDependencies(g *graph.Graph, fileID graph.NodeID) ([]graph.NodeID, error) {
	return neighborsByEdgeTypes(g, fileID, graph.Outgoing, importEdgeTypes)
}

// FileDependents returns every file that imports fileID directly, via
// either an Imports or an ImportsFrom edge.
func FileDependents(g *graph.Graph, fileID graph.NodeID) ([]graph.NodeID, error) {
	return neighborsByEdgeTypes(g, fileID, graph.Incoming, importEdgeTypes)
}

// TransitiveDependencies returns every file reachable from fileID by
// following Imports/ImportsFrom edges outward, bounded by maxDepth hops
// (0 means unbounded). It is built on algo.BFS restricted to the
// Imports/ImportsFrom sub-relation (§4.7).
func TransitiveDependencies(g *graph.Graph, fileID graph.NodeID, maxDepth int) ([]graph.NodeID, error) {
	return bfsByEdgeTypes(g, fileID, graph.Outgoing, importEdgeTypes, maxDepth)
}

// TransitiveDependents returns every file that transitively imports
// fileID, following Imports/ImportsFrom edges inward.
func TransitiveDependents(g *graph.Graph, fileID graph.NodeID, maxDepth int) ([]graph.NodeID, error) {
	return bfsByEdgeTypes(g, fileID, graph.Incoming, importEdgeTypes, maxDepth)
}

// CallChain enumerates every simple call path from caller to callee, up to
// maxDepth Calls edges, restricted to the Calls edge subgraph.
func CallChain(g *graph.Graph, caller, callee graph.NodeID, maxDepth int) ([][]graph.NodeID, error) {
	return algo.FindAllPaths(edgeTypeView{g: g, edgeTypes: []graph.EdgeType{graph.EdgeCalls}}, caller, callee, maxDepth)
}

// CircularDeps reports every group of two or more files that import each
// other in a cycle, restricted to the Imports/ImportsFrom edge subgraph:
// the strongly connected components that hold at least two CodeFile nodes.
func CircularDeps(g *graph.Graph) ([][]graph.NodeID, error) {
	sccs, err := algo.StronglyConnectedComponents(edgeTypeView{g: g, edgeTypes: importEdgeTypes})
	if err != nil {
		return nil, err
	}
	var out [][]graph.NodeID
	for _, comp := range sccs {
		files := 0
		for _, id := range comp {
			if n, err := g.GetNode(id); err == nil && n.NodeType == graph.NodeCodeFile {
				files++
			}
		}
		if files >= 2 {
			out = append(out, comp)
		}
	}
	return out, nil
}

func neighborsByEdgeTypes(g *graph.Graph, id graph.NodeID, direction graph.Direction, edgeTypes []graph.EdgeType) ([]graph.NodeID, error) {
	neighbors, err := g.GetNeighbors(id, direction)
	if err != nil {
		return nil, err
	}
	var out []graph.NodeID
	for _, n := range neighbors {
		var edges []*graph.Edge
		if direction == graph.Outgoing {
			edges, err = g.GetEdgesBetween(id, n)
		} else {
			edges, err = g.GetEdgesBetween(n, id)
		}
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if matchesAny(e.EdgeType, edgeTypes) {
				out = append(out, n)
				break
			}
		}
	}
	return out, nil
}

func bfsByEdgeTypes(g *graph.Graph, start graph.NodeID, direction graph.Direction, edgeTypes []graph.EdgeType, maxDepth int) ([]graph.NodeID, error) {
	return algo.BFS(edgeTypeView{g: g, edgeTypes: edgeTypes}, start, direction, maxDepth)
}

func matchesAny(t graph.EdgeType, candidates []graph.EdgeType) bool {
	for _, c := range candidates {
		if t == c {
			return true
		}
	}
	return false
}

// edgeTypeView adapts a *graph.Graph into an algo.NodeSource exposing only
// neighbors reached via one of a set of edge types, so BFS and Tarjan can
// be reused for edge-type-scoped queries (transitive imports, call chains,
// import cycles) without a general subgraph type in pkg/graph.
type edgeTypeView struct {
	g         *graph.Graph
	edgeTypes []graph.EdgeType
}

func (v edgeTypeView) AllNodeIDs() []graph.NodeID {
	return v.g.AllNodeIDs()
}

func (v edgeTypeView) GetNeighbors(id graph.NodeID, direction graph.Direction) ([]graph.NodeID, error) {
	return neighborsByEdgeTypes(v.g, id, direction, v.edgeTypes)
}
