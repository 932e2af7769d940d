package graph

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/codeprop/codeprop/pkg/prop"
)

const (
	nodePrefix    = "node:"
	edgePrefix    = "edge:"
	countersKey   = "meta:counters"
)

func nodeKey(id NodeID) []byte {
	return []byte(nodePrefix + strconv.FormatUint(uint64(id), 10))
}

func edgeKey(id EdgeID) []byte {
	return []byte(edgePrefix + strconv.FormatUint(uint64(id), 10))
}

func parseNodeKeyID(key []byte) (NodeID, bool) {
	s := strings.TrimPrefix(string(key), nodePrefix)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return NodeID(id), true
}

func parseEdgeKeyID(key []byte) (EdgeID, bool) {
	s := strings.TrimPrefix(string(key), edgePrefix)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return EdgeID(id), true
}

type nodeRecord struct {
	ID         NodeID   `json:"id"`
	NodeType   NodeType `json:"node_type"`
	Properties *prop.Map `json:"properties"`
}

type edgeRecord struct {
	ID         EdgeID   `json:"id"`
	SourceID   NodeID   `json:"source_id"`
	TargetID   NodeID   `json:"target_id"`
	EdgeType   EdgeType `json:"edge_type"`
	Properties *prop.Map `json:"properties"`
}

type countersRecord struct {
	NodeCounter uint64 `json:"node_counter"`
	EdgeCounter uint64 `json:"edge_counter"`
}

func encodeNode(n *Node) ([]byte, error) {
	return json.Marshal(nodeRecord{ID: n.ID, NodeType: n.NodeType, Properties: n.Properties})
}

func decodeNode(data []byte) (*Node, error) {
	var rec nodeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &Node{ID: rec.ID, NodeType: rec.NodeType, Properties: rec.Properties}, nil
}

func encodeEdge(e *Edge) ([]byte, error) {
	return json.Marshal(edgeRecord{ID: e.ID, SourceID: e.SourceID, TargetID: e.TargetID, EdgeType: e.EdgeType, Properties: e.Properties})
}

func decodeEdge(data []byte) (*Edge, error) {
	var rec edgeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &Edge{ID: rec.ID, SourceID: rec.SourceID, TargetID: rec.TargetID, EdgeType: rec.EdgeType, Properties: rec.Properties}, nil
}

func encodeCounters(c countersRecord) ([]byte, error) {
	return json.Marshal(c)
}

func decodeCounters(data []byte) (countersRecord, error) {
	var c countersRecord
	err := json.Unmarshal(data, &c)
	return c, err
}
