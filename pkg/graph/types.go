// Package graph implements the monotonic-ID node/edge index (spec layer
// L2): the in-memory adjacency structure, its durability discipline
// against a kv.Backend, and the builder helpers (AddFile, AddFunction, ...)
// that higher layers use to populate it.
package graph

import (
	"fmt"

	"github.com/codeprop/codeprop/pkg/prop"
)

// NodeID and EdgeID are monotonic identifiers assigned by the graph, never
// chosen by the caller.
type NodeID uint64

// EdgeID is the edge counterpart of NodeID.
type EdgeID uint64

// NodeType classifies what kind of code entity a node represents.
type NodeType int

const (
	NodeCodeFile NodeType = iota
	NodeFunction
	NodeClass
	NodeModule
	NodeVariable
	NodeTypeAlias // type alias or primitive type
	NodeInterface
	NodeGeneric
)

func (t NodeType) String() string {
	switch t {
	case NodeCodeFile:
		return "CodeFile"
	case NodeFunction:
		return "Function"
	case NodeClass:
		return "Class"
	case NodeModule:
		return "Module"
	case NodeVariable:
		return "Variable"
	case NodeTypeAlias:
		return "Type"
	case NodeInterface:
		return "Interface"
	case NodeGeneric:
		return "Generic"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// EdgeType classifies the relationship an edge represents.
type EdgeType int

const (
	EdgeImports EdgeType = iota
	EdgeImportsFrom
	EdgeContains
	EdgeCalls
	EdgeInvokes
	EdgeInstantiates
	EdgeExtends
	EdgeImplements
	EdgeUses
	EdgeDefines
	EdgeReferences
)

func (t EdgeType) String() string {
	switch t {
	case EdgeImports:
		return "Imports"
	case EdgeImportsFrom:
		return "ImportsFrom"
	case EdgeContains:
		return "Contains"
	case EdgeCalls:
		return "Calls"
	case EdgeInvokes:
		return "Invokes"
	case EdgeInstantiates:
		return "Instantiates"
	case EdgeExtends:
		return "Extends"
	case EdgeImplements:
		return "Implements"
	case EdgeUses:
		return "Uses"
	case EdgeDefines:
		return "Defines"
	case EdgeReferences:
		return "References"
	default:
		return fmt.Sprintf("EdgeType(%d)", int(t))
	}
}

// Direction selects which adjacency index a traversal follows.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Both
)

// Node is a code entity: a file, function, class, and so on.
type Node struct {
	ID         NodeID
	NodeType   NodeType
	Properties *prop.Map
}

// GetProperty returns the value at key, if present.
func (n *Node) GetProperty(key string) (prop.Value, bool) {
	if n.Properties == nil {
		return prop.Value{}, false
	}
	return n.Properties.Get(key)
}

// SetProperty sets key to value on the node, creating the property map if
// needed.
func (n *Node) SetProperty(key string, value prop.Value) {
	if n.Properties == nil {
		n.Properties = prop.New()
	}
	n.Properties.Insert(key, value)
}

// Edge is a directed labelled relationship between two nodes.
type Edge struct {
	ID         EdgeID
	SourceID   NodeID
	TargetID   NodeID
	EdgeType   EdgeType
	Properties *prop.Map
}

func (e *Edge) GetProperty(key string) (prop.Value, bool) {
	if e.Properties == nil {
		return prop.Value{}, false
	}
	return e.Properties.Get(key)
}

func (e *Edge) SetProperty(key string, value prop.Value) {
	if e.Properties == nil {
		e.Properties = prop.New()
	}
	e.Properties.Insert(key, value)
}
