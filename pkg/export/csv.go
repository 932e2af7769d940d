package export

import (
	"sort"
	"strconv"
	"strings"

	"github.com/codeprop/codeprop/internal/logging"
	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/prop"
)

// CSVNodes renders the graph's nodes as CSV: fixed leading columns
// "id,type" followed by the union of every property key present on any
// node, sorted lexicographically (§4.8).
func CSVNodes(g *graph.Graph, logger *logging.Logger, guard SizeGuard) (string, error) {
	if err := checkSize(g, logger, "csv", guard); err != nil {
		return "", err
	}

	ids := g.AllNodeIDs()
	nodes := make([]*graph.Node, 0, len(ids))
	keySet := make(map[string]struct{})
	for _, id := range ids {
		n, err := g.GetNode(id)
		if err != nil {
			return "", err
		}
		nodes = append(nodes, n)
		for _, k := range n.Properties.Keys() {
			keySet[k] = struct{}{}
		}
	}
	keys := sortedKeys(keySet)

	var b strings.Builder
	b.WriteString("id,type")
	for _, k := range keys {
		b.WriteByte(',')
		b.WriteString(k)
	}
	b.WriteByte('\n')

	for _, n := range nodes {
		b.WriteString(strconv.FormatUint(uint64(n.ID), 10))
		b.WriteByte(',')
		b.WriteString(n.NodeType.String())
		for _, k := range keys {
			b.WriteByte(',')
			if v, ok := n.Properties.Get(k); ok {
				b.WriteString(escapeCSV(formatPropertyValue(v)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// CSVEdges renders the graph's edges as CSV: fixed leading columns
// "id,source,target,type" followed by the sorted union of edge property
// keys.
func CSVEdges(g *graph.Graph, logger *logging.Logger, guard SizeGuard) (string, error) {
	if err := checkSize(g, logger, "csv", guard); err != nil {
		return "", err
	}

	edgeIDs := edgeIDsInOrder(g)
	edges := make([]*graph.Edge, 0, len(edgeIDs))
	keySet := make(map[string]struct{})
	for _, id := range edgeIDs {
		e, err := g.GetEdge(id)
		if err != nil {
			return "", err
		}
		edges = append(edges, e)
		for _, k := range e.Properties.Keys() {
			keySet[k] = struct{}{}
		}
	}
	keys := sortedKeys(keySet)

	var b strings.Builder
	b.WriteString("id,source,target,type")
	for _, k := range keys {
		b.WriteByte(',')
		b.WriteString(k)
	}
	b.WriteByte('\n')

	for _, e := range edges {
		b.WriteString(strconv.FormatUint(uint64(e.ID), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.SourceID), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(e.TargetID), 10))
		b.WriteByte(',')
		b.WriteString(e.EdgeType.String())
		for _, k := range keys {
			b.WriteByte(',')
			if v, ok := e.Properties.Get(k); ok {
				b.WriteString(escapeCSV(formatPropertyValue(v)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatPropertyValue renders a value the way it appears in a CSV cell:
// lists join with ";" rather than ",", to avoid colliding with the
// column separator.
func formatPropertyValue(v prop.Value) string {
	switch v.Kind() {
	case prop.KindString:
		s, _ := v.AsString()
		return s
	case prop.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case prop.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case prop.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case prop.KindStringList:
		list, _ := v.AsStringList()
		return strings.Join(list, ";")
	case prop.KindIntList:
		list, _ := v.AsIntList()
		parts := make([]string, len(list))
		for i, n := range list {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return strings.Join(parts, ";")
	default:
		return ""
	}
}

// escapeCSV quotes a value if it contains a comma, quote, or newline,
// doubling any internal quote.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
