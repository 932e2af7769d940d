package query

import (
	"math"
	"strings"

	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/prop"
)

const floatEpsilon = 1e-9

// predicate is one conjunctive filter over a candidate node.
type predicate func(n *graph.Node) bool

// Builder accumulates predicates over a graph and a couple of
// specialised slots (in-file scope, result limit) before execute/count/
// exists evaluate them (§4.5).
type Builder struct {
	g *graph.Graph

	predicates []predicate
	inFile     string
	haveInFile bool
	limit      int
	haveLimit  bool
}

// New starts a query chain over g.
func New(g *graph.Graph) *Builder {
	return &Builder{g: g}
}

// NodeType restricts results to nodes of the given type.
func (b *Builder) NodeType(t graph.NodeType) *Builder {
	b.predicates = append(b.predicates, func(n *graph.Node) bool {
		return n.NodeType == t
	})
	return b
}

// InFile restricts the search domain to the nodes directly contained (via
// an outgoing Contains edge) in the CodeFile node whose path property
// equals filePath. Only one InFile scope is honoured; the most recent call
// wins.
func (b *Builder) InFile(filePath string) *Builder {
	b.inFile = filePath
	b.haveInFile = true
	return b
}

// FilePattern restricts results to nodes whose path property (or, when
// there is none, file property) matches the glob pattern (§4.5 glob
// semantics).
func (b *Builder) FilePattern(pattern string) *Builder {
	b.predicates = append(b.predicates, func(n *graph.Node) bool {
		path, ok := n.Properties.GetString("path")
		if !ok {
			path, ok = n.Properties.GetString("file")
		}
		if !ok {
			return false
		}
		return globMatch(pattern, path)
	})
	return b
}

// Property restricts results to nodes whose property key exactly equals
// value, with float comparisons using an epsilon tolerance.
func (b *Builder) Property(key string, value prop.Value) *Builder {
	b.predicates = append(b.predicates, func(n *graph.Node) bool {
		existing, ok := n.Properties.Get(key)
		if !ok {
			return false
		}
		if existing.Kind() != value.Kind() {
			return false
		}
		if value.Kind() == prop.KindFloat {
			a, _ := existing.AsFloat()
			bv, _ := value.AsFloat()
			return math.Abs(a-bv) < floatEpsilon
		}
		return existing.Equal(value)
	})
	return b
}

// PropertyExists restricts results to nodes that carry the given property
// key, regardless of its value.
func (b *Builder) PropertyExists(key string) *Builder {
	b.predicates = append(b.predicates, func(n *graph.Node) bool {
		return n.Properties.Has(key)
	})
	return b
}

// NameContains restricts results to nodes whose name property contains
// substr, case-insensitively.
func (b *Builder) NameContains(substr string) *Builder {
	lowered := strings.ToLower(substr)
	b.predicates = append(b.predicates, func(n *graph.Node) bool {
		name, ok := n.Properties.GetString("name")
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(name), lowered)
	})
	return b
}

// NameMatches restricts results to nodes whose name property matches the
// narrow anchored pattern described in §4.5.
func (b *Builder) NameMatches(pattern string) *Builder {
	b.predicates = append(b.predicates, func(n *graph.Node) bool {
		name, ok := n.Properties.GetString("name")
		if !ok {
			return false
		}
		return regexMatch(pattern, name)
	})
	return b
}

// Custom adds an arbitrary predicate to the conjunction.
func (b *Builder) Custom(pred func(n *graph.Node) bool) *Builder {
	b.predicates = append(b.predicates, pred)
	return b
}

// Limit caps the number of results returned by Execute.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	b.haveLimit = true
	return b
}

func (b *Builder) matches(n *graph.Node) bool {
	for _, pred := range b.predicates {
		if !pred(n) {
			return false
		}
	}
	return true
}

// candidateIDs returns the search domain: the nodes the matching CodeFile
// node directly contains if InFile was set, otherwise every node in the
// graph.
func (b *Builder) candidateIDs() ([]graph.NodeID, error) {
	if b.haveInFile {
		return b.nodesInFile(b.inFile)
	}
	return b.g.AllNodeIDs(), nil
}

// nodesInFile linear-scans for a CodeFile node whose path property equals
// filePath, then returns the targets of its outgoing Contains edges —
// mirroring get_nodes_in_file's scan-then-neighbor-walk shape.
func (b *Builder) nodesInFile(filePath string) ([]graph.NodeID, error) {
	var fileID graph.NodeID
	found := false
	for _, id := range b.g.AllNodeIDs() {
		n, err := b.g.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n.NodeType != graph.NodeCodeFile {
			continue
		}
		path, ok := n.Properties.GetString("path")
		if ok && path == filePath {
			fileID = id
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}
	var out []graph.NodeID
	seen := make(map[graph.NodeID]struct{})
	for _, e := range b.g.OutgoingEdges(fileID) {
		if e.EdgeType != graph.EdgeContains {
			continue
		}
		if _, dup := seen[e.TargetID]; dup {
			continue
		}
		seen[e.TargetID] = struct{}{}
		out = append(out, e.TargetID)
	}
	return out, nil
}

// Execute runs the query and returns matching node IDs, in candidate-scan
// order, capped at Limit if one was set.
func (b *Builder) Execute() ([]graph.NodeID, error) {
	candidates, err := b.candidateIDs()
	if err != nil {
		return nil, err
	}
	var out []graph.NodeID
	for _, id := range candidates {
		if b.haveLimit && len(out) >= b.limit {
			break
		}
		n, err := b.g.GetNode(id)
		if err != nil {
			return nil, err
		}
		if b.matches(n) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Count runs the query and returns the number of matches, honouring Limit
// as a cap.
func (b *Builder) Count() (int, error) {
	ids, err := b.Execute()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Exists reports whether at least one node matches the query.
func (b *Builder) Exists() (bool, error) {
	candidates, err := b.candidateIDs()
	if err != nil {
		return false, err
	}
	for _, id := range candidates {
		n, err := b.g.GetNode(id)
		if err != nil {
			return false, err
		}
		if b.matches(n) {
			return true, nil
		}
	}
	return false, nil
}
