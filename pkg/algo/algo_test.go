package algo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeprop/codeprop/pkg/algo"
	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/kv"
	"github.com/codeprop/codeprop/pkg/prop"
)

func newTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Open(kv.NewMemoryBackend(), nil)
	require.NoError(t, err)
	return g
}

func mustNode(t *testing.T, g *graph.Graph) graph.NodeID {
	t.Helper()
	id, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)
	return id
}

func mustEdge(t *testing.T, g *graph.Graph, a, b graph.NodeID) {
	t.Helper()
	_, err := g.AddEdge(a, b, graph.EdgeReferences, prop.New())
	require.NoError(t, err)
}

func TestBFS_SimpleChain(t *testing.T) {
	g := newTestGraph(t)
	a, b, c, d := mustNode(t, g), mustNode(t, g), mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)
	mustEdge(t, g, c, d)

	order, err := algo.BFS(g, a, graph.Outgoing, 0)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{b, c, d}, order)
}

func TestBFS_RespectsMaxDepth(t *testing.T) {
	g := newTestGraph(t)
	a, b, c := mustNode(t, g), mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)

	order, err := algo.BFS(g, a, graph.Outgoing, 1)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{b}, order)
}

func TestBFS_ExcludesStart(t *testing.T) {
	g := newTestGraph(t)
	a := mustNode(t, g)
	order, err := algo.BFS(g, a, graph.Outgoing, 0)
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestDFS_SimpleChain(t *testing.T) {
	g := newTestGraph(t)
	a, b, c := mustNode(t, g), mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)

	order, err := algo.DFS(g, a, graph.Outgoing, 0)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{b, c}, order)
}

func TestDFS_RespectsMaxDepth(t *testing.T) {
	g := newTestGraph(t)
	a, b, c := mustNode(t, g), mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)

	order, err := algo.DFS(g, a, graph.Outgoing, 1)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{b}, order)
}

func TestFindAllPaths_DiamondHasTwoPaths(t *testing.T) {
	g := newTestGraph(t)
	a, b, c, d := mustNode(t, g), mustNode(t, g), mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)
	mustEdge(t, g, a, c)
	mustEdge(t, g, b, d)
	mustEdge(t, g, c, d)

	paths, err := algo.FindAllPaths(g, a, d, 0)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.ElementsMatch(t, [][]graph.NodeID{{a, b, d}, {a, c, d}}, paths)
}

func TestFindAllPaths_SourceEqualsTarget(t *testing.T) {
	g := newTestGraph(t)
	a := mustNode(t, g)
	paths, err := algo.FindAllPaths(g, a, a, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]graph.NodeID{{a}}, paths)
}

func TestFindAllPaths_CycleDoesNotLoopForever(t *testing.T) {
	g := newTestGraph(t)
	a, b, c := mustNode(t, g), mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)
	mustEdge(t, g, c, a)

	paths, err := algo.FindAllPaths(g, a, c, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]graph.NodeID{{a, b, c}}, paths)
}

func TestFindAllPaths_MaxDepthBoundsSearch(t *testing.T) {
	g := newTestGraph(t)
	a, b, c := mustNode(t, g), mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)

	paths, err := algo.FindAllPaths(g, a, c, 1)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStronglyConnectedComponents_FindsCycle(t *testing.T) {
	g := newTestGraph(t)
	a, b, c, d := mustNode(t, g), mustNode(t, g), mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)
	mustEdge(t, g, c, a)
	mustEdge(t, g, a, d)

	sccs, err := algo.StronglyConnectedComponents(g)
	require.NoError(t, err)
	require.Len(t, sccs, 1)
	assert.ElementsMatch(t, []graph.NodeID{a, b, c}, sccs[0])
}

func TestStronglyConnectedComponents_NoSingletons(t *testing.T) {
	g := newTestGraph(t)
	a, b := mustNode(t, g), mustNode(t, g)
	mustEdge(t, g, a, b)

	sccs, err := algo.StronglyConnectedComponents(g)
	require.NoError(t, err)
	assert.Empty(t, sccs)
}
