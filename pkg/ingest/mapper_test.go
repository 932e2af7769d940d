package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/ingest"
	"github.com/codeprop/codeprop/pkg/kv"
)

func newTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Open(kv.NewMemoryBackend(), nil)
	require.NoError(t, err)
	return g
}

func TestIngestFile_CreatesFileAndFunctionNodes(t *testing.T) {
	g := newTestGraph(t)
	m := ingest.NewMapper(g, nil)

	fileID, err := m.IngestFile(ingest.FileRecord{
		Path:     "src/math.ts",
		Language: "typescript",
		Functions: []ingest.FunctionRecord{
			{Name: "add", LineStart: 1, LineEnd: 3},
			{Name: "sub", LineStart: 5, LineEnd: 7},
		},
	})
	require.NoError(t, err)

	neighbors, err := g.GetNeighbors(fileID, graph.Outgoing)
	require.NoError(t, err)
	assert.Len(t, neighbors, 2)
}

func TestIngestFile_ClassMethodsUseCanonicalContainsDirection(t *testing.T) {
	g := newTestGraph(t)
	m := ingest.NewMapper(g, nil)

	_, err := m.IngestFile(ingest.FileRecord{
		Path: "src/widget.ts",
		Classes: []ingest.ClassRecord{
			{
				Name:      "Widget",
				LineStart: 1,
				LineEnd:   20,
				Methods: []ingest.FunctionRecord{
					{Name: "render", LineStart: 5, LineEnd: 10},
				},
			},
		},
	})
	require.NoError(t, err)

	var classID graph.NodeID
	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		require.NoError(t, err)
		if n.NodeType == graph.NodeClass {
			classID = id
		}
	}

	neighbors, err := g.GetNeighbors(classID, graph.Outgoing)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	method, err := g.GetNode(neighbors[0])
	require.NoError(t, err)
	assert.Equal(t, graph.NodeFunction, method.NodeType)
	name, _ := method.Properties.GetString("name")
	assert.Equal(t, "render", name)
}

func TestIngestFile_ResolvesCallWithinSameFile(t *testing.T) {
	g := newTestGraph(t)
	m := ingest.NewMapper(g, nil)

	_, err := m.IngestFile(ingest.FileRecord{
		Path: "src/a.ts",
		Functions: []ingest.FunctionRecord{
			{Name: "caller", LineStart: 1, LineEnd: 5},
			{Name: "callee", LineStart: 7, LineEnd: 10},
		},
		Calls: []ingest.CallRecord{
			{Caller: "caller", Callee: "callee", CallSiteLine: 3},
		},
	})
	require.NoError(t, err)

	var callerID, calleeID graph.NodeID
	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		require.NoError(t, err)
		name, _ := n.Properties.GetString("name")
		switch name {
		case "caller":
			callerID = id
		case "callee":
			calleeID = id
		}
	}

	edges, err := g.GetEdgesBetween(callerID, calleeID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, graph.EdgeCalls, edges[0].EdgeType)
}

func TestIngestFile_UnresolvedCallDefersAndResolvesAcrossFiles(t *testing.T) {
	g := newTestGraph(t)
	m := ingest.NewMapper(g, nil)

	_, err := m.IngestFile(ingest.FileRecord{
		Path: "src/a.ts",
		Functions: []ingest.FunctionRecord{
			{Name: "caller", LineStart: 1, LineEnd: 5},
		},
		Calls: []ingest.CallRecord{
			{Caller: "caller", Callee: "helper", CallSiteLine: 2},
		},
	})
	require.NoError(t, err)

	var callerID graph.NodeID
	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		require.NoError(t, err)
		if name, _ := n.Properties.GetString("name"); name == "caller" {
			callerID = id
		}
	}
	callerNode, err := g.GetNode(callerID)
	require.NoError(t, err)
	unresolved, ok := callerNode.Properties.GetString("unresolved_calls")
	require.True(t, ok)
	assert.Equal(t, "helper", unresolved)

	_, err = m.IngestFile(ingest.FileRecord{
		Path: "src/b.ts",
		Functions: []ingest.FunctionRecord{
			{Name: "helper", LineStart: 1, LineEnd: 3},
		},
	})
	require.NoError(t, err)

	require.NoError(t, m.ResolvePendingCalls())

	var helperID graph.NodeID
	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		require.NoError(t, err)
		if name, _ := n.Properties.GetString("name"); name == "helper" {
			helperID = id
		}
	}

	edges, err := g.GetEdgesBetween(callerID, helperID)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestIngestFile_RelativeImportResolvesToIngestedFile(t *testing.T) {
	g := newTestGraph(t)
	m := ingest.NewMapper(g, nil)

	toolManagerID, err := m.IngestFile(ingest.FileRecord{Path: "src/toolManager.ts", Language: "typescript"})
	require.NoError(t, err)

	extensionID, err := m.IngestFile(ingest.FileRecord{
		Path:     "src/extension.ts",
		Language: "typescript",
		Imports: []ingest.ImportRecord{
			{Importer: "src/extension.ts", Imported: "./toolManager", Symbols: []string{"ToolManager"}},
		},
	})
	require.NoError(t, err)

	edges, err := g.GetEdgesBetween(extensionID, toolManagerID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, graph.EdgeImports, edges[0].EdgeType)
	symbols, ok := edges[0].Properties.GetStringList("symbols")
	require.True(t, ok)
	assert.Equal(t, []string{"ToolManager"}, symbols)
}

func TestIngestFile_UnresolvableImportCreatesExternalModulePlaceholder(t *testing.T) {
	g := newTestGraph(t)
	m := ingest.NewMapper(g, nil)

	fileID, err := m.IngestFile(ingest.FileRecord{
		Path:     "src/app.ts",
		Language: "typescript",
		Imports: []ingest.ImportRecord{
			{Importer: "src/app.ts", Imported: "react", Symbols: []string{"useState"}},
		},
	})
	require.NoError(t, err)

	neighbors, err := g.GetNeighbors(fileID, graph.Outgoing)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	moduleNode, err := g.GetNode(neighbors[0])
	require.NoError(t, err)
	assert.Equal(t, graph.NodeModule, moduleNode.NodeType)
	external, ok := moduleNode.Properties.GetBool("external")
	require.True(t, ok)
	assert.True(t, external)
}

func TestIngestFile_InheritanceCreatesExtendsEdge(t *testing.T) {
	g := newTestGraph(t)
	m := ingest.NewMapper(g, nil)

	_, err := m.IngestFile(ingest.FileRecord{
		Path: "src/shapes.ts",
		Classes: []ingest.ClassRecord{
			{Name: "Base", LineStart: 1, LineEnd: 5},
			{Name: "Circle", LineStart: 7, LineEnd: 12},
		},
		Inheritance: []ingest.InheritanceRecord{
			{Child: "Circle", Parent: "Base", Order: 0},
		},
	})
	require.NoError(t, err)

	var baseID, circleID graph.NodeID
	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		require.NoError(t, err)
		name, _ := n.Properties.GetString("name")
		switch name {
		case "Base":
			baseID = id
		case "Circle":
			circleID = id
		}
	}

	edges, err := g.GetEdgesBetween(circleID, baseID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, graph.EdgeExtends, edges[0].EdgeType)
}
