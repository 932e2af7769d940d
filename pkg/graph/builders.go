package graph

import "github.com/codeprop/codeprop/pkg/prop"

// FunctionMetadata carries the extended properties AddFunctionWithMetadata
// attaches to a function node beyond the bare name/line range.
type FunctionMetadata struct {
	Name       string
	LineStart  int64
	LineEnd    int64
	Visibility string
	Signature  string
	IsAsync    bool
	IsTest     bool
}

// AddFile creates a CodeFile node with path and language properties.
func (g *Graph) AddFile(path, language string) (NodeID, error) {
	props := prop.New().With("path", prop.StringValue(path)).With("language", prop.StringValue(language))
	return g.AddNode(NodeCodeFile, props)
}

// AddFunction creates a Function node and a Contains edge from fileID to
// it.
func (g *Graph) AddFunction(fileID NodeID, name string, lineStart, lineEnd int64) (NodeID, error) {
	props := prop.New().
		With("name", prop.StringValue(name)).
		With("line_start", prop.IntValue(lineStart)).
		With("line_end", prop.IntValue(lineEnd))
	funcID, err := g.AddNode(NodeFunction, props)
	if err != nil {
		return 0, err
	}
	if _, err := g.AddEdge(fileID, funcID, EdgeContains, prop.New()); err != nil {
		return 0, err
	}
	return funcID, nil
}

// AddFunctionWithMetadata creates a Function node carrying visibility,
// signature, and async/test flags, plus a Contains edge from fileID.
func (g *Graph) AddFunctionWithMetadata(fileID NodeID, meta FunctionMetadata) (NodeID, error) {
	props := prop.New().
		With("name", prop.StringValue(meta.Name)).
		With("line_start", prop.IntValue(meta.LineStart)).
		With("line_end", prop.IntValue(meta.LineEnd)).
		With("visibility", prop.StringValue(meta.Visibility)).
		With("signature", prop.StringValue(meta.Signature)).
		With("is_async", prop.BoolValue(meta.IsAsync)).
		With("is_test", prop.BoolValue(meta.IsTest))
	funcID, err := g.AddNode(NodeFunction, props)
	if err != nil {
		return 0, err
	}
	if _, err := g.AddEdge(fileID, funcID, EdgeContains, prop.New()); err != nil {
		return 0, err
	}
	return funcID, nil
}

// AddClass creates a Class node and a Contains edge from fileID.
func (g *Graph) AddClass(fileID NodeID, name string, lineStart, lineEnd int64) (NodeID, error) {
	props := prop.New().
		With("name", prop.StringValue(name)).
		With("line_start", prop.IntValue(lineStart)).
		With("line_end", prop.IntValue(lineEnd))
	classID, err := g.AddNode(NodeClass, props)
	if err != nil {
		return 0, err
	}
	if _, err := g.AddEdge(fileID, classID, EdgeContains, prop.New()); err != nil {
		return 0, err
	}
	return classID, nil
}

// AddMethod creates a Function node for a method and a Contains edge from
// classID — the canonical direction for class members (§3 invariant 7).
func (g *Graph) AddMethod(classID NodeID, name string, lineStart, lineEnd int64) (NodeID, error) {
	props := prop.New().
		With("name", prop.StringValue(name)).
		With("line_start", prop.IntValue(lineStart)).
		With("line_end", prop.IntValue(lineEnd))
	methodID, err := g.AddNode(NodeFunction, props)
	if err != nil {
		return 0, err
	}
	if _, err := g.AddEdge(classID, methodID, EdgeContains, prop.New()); err != nil {
		return 0, err
	}
	return methodID, nil
}

// AddModule creates a Module node with name and path properties.
func (g *Graph) AddModule(name, path string) (NodeID, error) {
	props := prop.New().With("name", prop.StringValue(name)).With("path", prop.StringValue(path))
	return g.AddNode(NodeModule, props)
}

// AddCall creates a Calls edge from callerID to calleeID carrying the
// call-site line number.
func (g *Graph) AddCall(callerID, calleeID NodeID, line int64) (EdgeID, error) {
	props := prop.New().With("line", prop.IntValue(line))
	return g.AddEdge(callerID, calleeID, EdgeCalls, props)
}

// AddImport creates an Imports edge from fromFileID to toFileID carrying
// the list of imported symbol names.
func (g *Graph) AddImport(fromFileID, toFileID NodeID, symbols []string) (EdgeID, error) {
	props := prop.New().With("symbols", prop.StringListValue(symbols))
	return g.AddEdge(fromFileID, toFileID, EdgeImports, props)
}

// LinkToFile creates a generic Contains edge between any container and
// contained node — the same edge AddFunction/AddClass/AddMethod create
// through AddEdge.
func (g *Graph) LinkToFile(containerID, containedID NodeID) (EdgeID, error) {
	return g.AddEdge(containerID, containedID, EdgeContains, prop.New())
}
