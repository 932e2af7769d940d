package export

import (
	"sort"
	"strconv"
	"strings"

	"github.com/codeprop/codeprop/internal/logging"
	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/prop"
)

// Triples renders the graph as N-Triples: one `<subject> <predicate>
// object .` line per node-type fact, property, and edge (§4.8).
func Triples(g *graph.Graph, logger *logging.Logger, guard SizeGuard) (string, error) {
	if err := checkSize(g, logger, "ntriples", guard); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		if err != nil {
			return "", err
		}
		idStr := strconv.FormatUint(uint64(id), 10)
		b.WriteString("<node:" + idStr + "> <rdf:type> <type:" + n.NodeType.String() + "> .\n")

		for _, key := range sortedPropertyKeys(n.Properties) {
			v, _ := n.Properties.Get(key)
			b.WriteString("<node:" + idStr + "> <prop:" + key + "> " + formatTripleObject(v) + " .\n")
		}
	}

	for _, id := range edgeIDsInOrder(g) {
		e, err := g.GetEdge(id)
		if err != nil {
			return "", err
		}
		edgeIDStr := strconv.FormatUint(uint64(id), 10)
		b.WriteString("<node:" + strconv.FormatUint(uint64(e.SourceID), 10) + "> <edge:" + e.EdgeType.String() + "> <node:" + strconv.FormatUint(uint64(e.TargetID), 10) + "> .\n")

		for _, key := range sortedPropertyKeys(e.Properties) {
			v, _ := e.Properties.Get(key)
			b.WriteString("<edge:" + edgeIDStr + "> <prop:" + key + "> " + formatTripleObject(v) + " .\n")
		}
	}
	return b.String(), nil
}

func sortedPropertyKeys(m *prop.Map) []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}

// formatTripleObject renders a value as an RDF object literal, with XSD
// datatype suffixes for everything but strings.
func formatTripleObject(v prop.Value) string {
	switch v.Kind() {
	case prop.KindString:
		s, _ := v.AsString()
		return `"` + escapeTripleString(s) + `"`
	case prop.KindInt:
		i, _ := v.AsInt()
		return `"` + strconv.FormatInt(i, 10) + `"^^<xsd:integer>`
	case prop.KindFloat:
		f, _ := v.AsFloat()
		return `"` + strconv.FormatFloat(f, 'g', -1, 64) + `"^^<xsd:double>`
	case prop.KindBool:
		bv, _ := v.AsBool()
		return `"` + strconv.FormatBool(bv) + `"^^<xsd:boolean>`
	case prop.KindStringList:
		list, _ := v.AsStringList()
		return `"[` + escapeTripleString(strings.Join(list, ",")) + `]"`
	case prop.KindIntList:
		list, _ := v.AsIntList()
		parts := make([]string, len(list))
		for i, n := range list {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return `"[` + strings.Join(parts, ",") + `]"^^<xsd:array>`
	default:
		return `"null"`
	}
}

func escapeTripleString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
