package graph

import (
	"encoding/json"
	"fmt"
)

// NodeType (de)serialises as its variant name, matching how the original
// Rust implementation's serde-derived enums encode (the bare variant
// string, e.g. "CodeFile") rather than a numeric discriminant — persisted
// records and export output should read the same way.
func (t NodeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *NodeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	nt, ok := parseNodeType(s)
	if !ok {
		return fmt.Errorf("graph: unknown node type %q", s)
	}
	*t = nt
	return nil
}

func parseNodeType(s string) (NodeType, bool) {
	switch s {
	case "CodeFile":
		return NodeCodeFile, true
	case "Function":
		return NodeFunction, true
	case "Class":
		return NodeClass, true
	case "Module":
		return NodeModule, true
	case "Variable":
		return NodeVariable, true
	case "Type":
		return NodeTypeAlias, true
	case "Interface":
		return NodeInterface, true
	case "Generic":
		return NodeGeneric, true
	default:
		return 0, false
	}
}

func (t EdgeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *EdgeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	et, ok := parseEdgeType(s)
	if !ok {
		return fmt.Errorf("graph: unknown edge type %q", s)
	}
	*t = et
	return nil
}

func parseEdgeType(s string) (EdgeType, bool) {
	switch s {
	case "Imports":
		return EdgeImports, true
	case "ImportsFrom":
		return EdgeImportsFrom, true
	case "Contains":
		return EdgeContains, true
	case "Calls":
		return EdgeCalls, true
	case "Invokes":
		return EdgeInvokes, true
	case "Instantiates":
		return EdgeInstantiates, true
	case "Extends":
		return EdgeExtends, true
	case "Implements":
		return EdgeImplements, true
	case "Uses":
		return EdgeUses, true
	case "Defines":
		return EdgeDefines, true
	case "References":
		return EdgeReferences, true
	default:
		return 0, false
	}
}
