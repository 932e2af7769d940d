package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/kv"
	"github.com/codeprop/codeprop/pkg/prop"
)

func openTestGraph(t *testing.T) (*graph.Graph, kv.Backend) {
	t.Helper()
	backend := kv.NewMemoryBackend()
	g, err := graph.Open(backend, nil)
	require.NoError(t, err)
	return g, backend
}

// Scenario A: minimal call graph.
func TestScenarioA_MinimalCallGraph(t *testing.T) {
	g, _ := openTestGraph(t)

	fileID, err := g.AddFile("main.py", "python")
	require.NoError(t, err)
	assert.Equal(t, graph.NodeID(0), fileID)

	callerID, err := g.AddFunction(fileID, "caller", 1, 5)
	require.NoError(t, err)
	calleeID, err := g.AddFunction(fileID, "callee", 7, 10)
	require.NoError(t, err)

	_, err = g.AddCall(callerID, calleeID, 3)
	require.NoError(t, err)

	callers, err := callersOf(g, calleeID)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{callerID}, callers)

	callees, err := calleesOf(g, callerID)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{calleeID}, callees)

	funcs, err := functionsInFile(g, fileID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []graph.NodeID{callerID, calleeID}, funcs)
}

func callersOf(g *graph.Graph, fn graph.NodeID) ([]graph.NodeID, error) {
	incoming, err := g.GetNeighbors(fn, graph.Incoming)
	if err != nil {
		return nil, err
	}
	var out []graph.NodeID
	for _, n := range incoming {
		edges, err := g.GetEdgesBetween(n, fn)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if e.EdgeType == graph.EdgeCalls {
				out = append(out, n)
				break
			}
		}
	}
	return out, nil
}

func calleesOf(g *graph.Graph, fn graph.NodeID) ([]graph.NodeID, error) {
	outgoing, err := g.GetNeighbors(fn, graph.Outgoing)
	if err != nil {
		return nil, err
	}
	var out []graph.NodeID
	for _, n := range outgoing {
		edges, err := g.GetEdgesBetween(fn, n)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if e.EdgeType == graph.EdgeCalls {
				out = append(out, n)
				break
			}
		}
	}
	return out, nil
}

func functionsInFile(g *graph.Graph, fileID graph.NodeID) ([]graph.NodeID, error) {
	neighbors, err := g.GetNeighbors(fileID, graph.Outgoing)
	if err != nil {
		return nil, err
	}
	var out []graph.NodeID
	for _, n := range neighbors {
		node, err := g.GetNode(n)
		if err != nil {
			return nil, err
		}
		if node.NodeType == graph.NodeFunction {
			out = append(out, n)
		}
	}
	return out, nil
}

// Scenario B: persistence across close/reopen.
func TestScenarioB_Persistence(t *testing.T) {
	dir := t.TempDir()
	backend, err := kv.OpenBadgerBackend(dir)
	require.NoError(t, err)

	g1, err := graph.Open(backend, nil)
	require.NoError(t, err)

	props := prop.New().With("name", prop.StringValue("x")).With("line", prop.IntValue(42))
	id, err := g1.AddNode(graph.NodeVariable, props)
	require.NoError(t, err)
	require.NoError(t, g1.Close())

	backend2, err := kv.OpenBadgerBackend(dir)
	require.NoError(t, err)
	g2, err := graph.Open(backend2, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g2.Close() })

	node, err := g2.GetNode(id)
	require.NoError(t, err)
	name, ok := node.Properties.GetString("name")
	require.True(t, ok)
	assert.Equal(t, "x", name)
	line, ok := node.Properties.GetInt("line")
	require.True(t, ok)
	assert.Equal(t, int64(42), line)

	// Counter should continue from 1, not collide with id 0.
	nextID, err := g2.AddNode(graph.NodeVariable, prop.New())
	require.NoError(t, err)
	assert.Equal(t, graph.NodeID(1), nextID)
}

// Scenario C: cascade delete.
func TestScenarioC_CascadeDelete(t *testing.T) {
	g, _ := openTestGraph(t)

	a, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)
	b, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)
	c, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)

	_, err = g.AddEdge(a, b, graph.EdgeReferences, prop.New())
	require.NoError(t, err)
	_, err = g.AddEdge(a, c, graph.EdgeReferences, prop.New())
	require.NoError(t, err)
	bcEdge, err := g.AddEdge(b, c, graph.EdgeReferences, prop.New())
	require.NoError(t, err)

	require.NoError(t, g.DeleteNode(a))

	_, err = g.GetNode(a)
	assert.Error(t, err)

	_, err = g.GetNode(b)
	assert.NoError(t, err)
	_, err = g.GetNode(c)
	assert.NoError(t, err)

	edges, err := g.GetEdgesBetween(b, c)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, bcEdge, edges[0].ID)

	neighbors, err := g.GetNeighbors(b, graph.Incoming)
	require.NoError(t, err)
	assert.Empty(t, neighbors)
}

func TestAddEdge_MissingEndpointReturnsNodeNotFound(t *testing.T) {
	g, _ := openTestGraph(t)
	a, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)

	_, err = g.AddEdge(a, graph.NodeID(999), graph.EdgeUses, prop.New())
	var nfErr *graph.NodeNotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestSelfLoopsAndParallelEdgesGetDistinctIDs(t *testing.T) {
	g, _ := openTestGraph(t)
	a, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)

	e1, err := g.AddEdge(a, a, graph.EdgeReferences, prop.New())
	require.NoError(t, err)
	e2, err := g.AddEdge(a, a, graph.EdgeReferences, prop.New())
	require.NoError(t, err)
	assert.NotEqual(t, e1, e2)

	edges, err := g.GetEdgesBetween(a, a)
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestUpdateNodePropertiesMerges(t *testing.T) {
	g, _ := openTestGraph(t)
	id, err := g.AddNode(graph.NodeVariable, prop.New().With("a", prop.IntValue(1)))
	require.NoError(t, err)

	require.NoError(t, g.UpdateNodeProperties(id, prop.New().With("b", prop.IntValue(2))))

	node, err := g.GetNode(id)
	require.NoError(t, err)
	a, _ := node.Properties.GetInt("a")
	b, _ := node.Properties.GetInt("b")
	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(2), b)
}

func TestClearResetsEverything(t *testing.T) {
	g, _ := openTestGraph(t)
	a, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)
	b, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)
	_, err = g.AddEdge(a, b, graph.EdgeUses, prop.New())
	require.NoError(t, err)

	require.NoError(t, g.Clear())

	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())

	id, err := g.AddNode(graph.NodeGeneric, prop.New())
	require.NoError(t, err)
	assert.Equal(t, graph.NodeID(0), id)
}

func TestAddNodesBatchAtomic(t *testing.T) {
	g, _ := openTestGraph(t)
	ids, err := g.AddNodesBatch([]graph.NewNode{
		{NodeType: graph.NodeFunction, Properties: prop.New().With("name", prop.StringValue("a"))},
		{NodeType: graph.NodeFunction, Properties: prop.New().With("name", prop.StringValue("b"))},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, 2, g.NodeCount())
}
