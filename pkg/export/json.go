package export

import (
	"encoding/json"

	"github.com/codeprop/codeprop/internal/logging"
	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/prop"
)

type jsonNode struct {
	ID         graph.NodeID   `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

type jsonLink struct {
	ID         graph.EdgeID   `json:"id"`
	Source     graph.NodeID   `json:"source"`
	Target     graph.NodeID   `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Links []jsonLink `json:"links"`
}

// JSON renders g in the D3.js force-directed-layout shape: a top-level
// object with "nodes" and "links" arrays (§4.8).
func JSON(g *graph.Graph, logger *logging.Logger, guard SizeGuard) ([]byte, error) {
	if err := checkSize(g, logger, "json", guard); err != nil {
		return nil, err
	}

	out := jsonGraph{}
	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		if err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, jsonNode{ID: id, Type: n.NodeType.String(), Properties: propsToAny(n.Properties)})
	}

	for _, id := range edgeIDsInOrder(g) {
		e, err := g.GetEdge(id)
		if err != nil {
			return nil, err
		}
		out.Links = append(out.Links, jsonLink{
			ID:         id,
			Source:     e.SourceID,
			Target:     e.TargetID,
			Type:       e.EdgeType.String(),
			Properties: propsToAny(e.Properties),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

// JSONFiltered renders only nodes matching filter, plus — if includeEdges
// is true — every edge whose endpoints both survive the filter (§4.8).
func JSONFiltered(g *graph.Graph, logger *logging.Logger, guard SizeGuard, filter func(*graph.Node) bool, includeEdges bool) ([]byte, error) {
	if err := checkSize(g, logger, "json", guard); err != nil {
		return nil, err
	}

	out := jsonGraph{}
	kept := make(map[graph.NodeID]struct{})
	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		if err != nil {
			return nil, err
		}
		if !filter(n) {
			continue
		}
		kept[id] = struct{}{}
		out.Nodes = append(out.Nodes, jsonNode{ID: id, Type: n.NodeType.String(), Properties: propsToAny(n.Properties)})
	}

	if includeEdges {
		for _, id := range edgeIDsInOrder(g) {
			e, err := g.GetEdge(id)
			if err != nil {
				return nil, err
			}
			_, srcOK := kept[e.SourceID]
			_, dstOK := kept[e.TargetID]
			if !srcOK || !dstOK {
				continue
			}
			out.Links = append(out.Links, jsonLink{
				ID:         id,
				Source:     e.SourceID,
				Target:     e.TargetID,
				Type:       e.EdgeType.String(),
				Properties: propsToAny(e.Properties),
			})
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

func propsToAny(m *prop.Map) map[string]any {
	out := make(map[string]any)
	if m == nil {
		return out
	}
	m.Each(func(key string, v prop.Value) {
		switch v.Kind() {
		case prop.KindString:
			s, _ := v.AsString()
			out[key] = s
		case prop.KindInt:
			i, _ := v.AsInt()
			out[key] = i
		case prop.KindFloat:
			f, _ := v.AsFloat()
			out[key] = f
		case prop.KindBool:
			b, _ := v.AsBool()
			out[key] = b
		case prop.KindStringList:
			list, _ := v.AsStringList()
			out[key] = list
		case prop.KindIntList:
			list, _ := v.AsIntList()
			out[key] = list
		default:
			out[key] = nil
		}
	})
	return out
}
