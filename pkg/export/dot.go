package export

import (
	"sort"
	"strconv"
	"strings"

	"github.com/codeprop/codeprop/internal/logging"
	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/prop"
)

// DotOptions controls DOT rendering: whether nodes are colorized by type
// and whether node/edge properties are rendered as a tooltip attribute
// (§4.8).
type DotOptions struct {
	Colorize          bool
	IncludeProperties bool
}

var nodeTypeColors = map[graph.NodeType]string{
	graph.NodeCodeFile:  "lightblue",
	graph.NodeFunction:  "lightgreen",
	graph.NodeClass:     "lightyellow",
	graph.NodeModule:    "lightgray",
	graph.NodeVariable:  "white",
	graph.NodeTypeAlias: "lavender",
	graph.NodeInterface: "lightpink",
	graph.NodeGeneric:   "lightcyan",
}

// Dot renders the graph as a single Graphviz digraph, with DotOptions
// honoured, under the default options (no colorize, no properties).
func Dot(g *graph.Graph, logger *logging.Logger, guard SizeGuard) (string, error) {
	return DotStyled(g, logger, guard, DotOptions{})
}

// DotStyled renders the graph as a Graphviz digraph with opts applied.
func DotStyled(g *graph.Graph, logger *logging.Logger, guard SizeGuard, opts DotOptions) (string, error) {
	if err := checkSize(g, logger, "dot", guard); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("digraph codegraph {\n")

	for _, id := range g.AllNodeIDs() {
		n, err := g.GetNode(id)
		if err != nil {
			return "", err
		}
		label := n.NodeType.String()
		if name, ok := n.Properties.GetString("name"); ok {
			label = name + "\\n(" + label + ")"
		}
		attrs := []string{"label=\"" + escapeDot(label) + "\""}
		if opts.Colorize {
			color, ok := nodeTypeColors[n.NodeType]
			if !ok {
				color = "white"
			}
			attrs = append(attrs, "style=filled", "fillcolor=\""+color+"\"")
		}
		if opts.IncludeProperties && !n.Properties.IsEmpty() {
			attrs = append(attrs, "tooltip=\""+escapeDot(propertiesTooltip(n.Properties))+"\"")
		}
		b.WriteString("  " + strconv.FormatUint(uint64(id), 10) + " [" + strings.Join(attrs, ", ") + "];\n")
	}

	for _, id := range edgeIDsInOrder(g) {
		e, err := g.GetEdge(id)
		if err != nil {
			return "", err
		}
		attrs := []string{"label=\"" + escapeDot(e.EdgeType.String()) + "\""}
		if opts.IncludeProperties && !e.Properties.IsEmpty() {
			attrs = append(attrs, "tooltip=\""+escapeDot(propertiesTooltip(e.Properties))+"\"")
		}
		b.WriteString("  " + strconv.FormatUint(uint64(e.SourceID), 10) + " -> " + strconv.FormatUint(uint64(e.TargetID), 10) + " [" + strings.Join(attrs, ", ") + "];\n")
	}

	b.WriteString("}\n")
	return b.String(), nil
}

func propertiesTooltip(m *prop.Map) string {
	keys := m.Keys()
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := m.Get(k)
		parts = append(parts, k+"="+formatPropertyValue(v))
	}
	return strings.Join(parts, "\\n")
}

func escapeDot(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
