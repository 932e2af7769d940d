// Package algo implements the graph traversal and structural algorithms
// layered over pkg/graph (spec layer L5): breadth-first and depth-first
// traversal, strongly connected components, and bounded path enumeration.
package algo

import "github.com/codeprop/codeprop/pkg/graph"

// DefaultMaxDepth bounds FindAllPaths when the caller does not specify one
// (§4.6).
const DefaultMaxDepth = 100

// NodeSource is the read surface the algorithms need. *graph.Graph
// satisfies it directly; callers that need to scope traversal to a subset
// of edge types (pkg/deps) can supply their own narrower implementation
// instead of filtering a whole graph.
type NodeSource interface {
	AllNodeIDs() []graph.NodeID
	GetNeighbors(id graph.NodeID, direction graph.Direction) ([]graph.NodeID, error)
}

// BFS performs an iterative breadth-first traversal from start in the
// given direction, excluding start itself from the result, and never
// visiting a node more than maxDepth hops away. A maxDepth of 0 means
// unbounded.
func BFS(g NodeSource, start graph.NodeID, direction graph.Direction, maxDepth int) ([]graph.NodeID, error) {
	type item struct {
		id    graph.NodeID
		depth int
	}

	visited := map[graph.NodeID]struct{}{start: {}}
	queue := []item{{id: start, depth: 0}}
	var order []graph.NodeID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		neighbors, err := g.GetNeighbors(cur.id, direction)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = struct{}{}
			order = append(order, n)
			queue = append(queue, item{id: n, depth: cur.depth + 1})
		}
	}
	return order, nil
}

// DFS performs an iterative (non-recursive) depth-first traversal from
// start, excluding start itself, bounded by maxDepth hops (0 means
// unbounded).
func DFS(g NodeSource, start graph.NodeID, direction graph.Direction, maxDepth int) ([]graph.NodeID, error) {
	type item struct {
		id    graph.NodeID
		depth int
	}

	visited := map[graph.NodeID]struct{}{start: {}}
	stack := []item{{id: start, depth: 0}}
	var order []graph.NodeID

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		neighbors, err := g.GetNeighbors(cur.id, direction)
		if err != nil {
			return nil, err
		}
		// Push in reverse so the first neighbor is explored first, matching
		// the natural recursive-DFS visit order.
		for i := len(neighbors) - 1; i >= 0; i-- {
			n := neighbors[i]
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = struct{}{}
			order = append(order, n)
			stack = append(stack, item{id: n, depth: cur.depth + 1})
		}
	}
	return order, nil
}

// FindAllPaths enumerates every simple path from source to target, up to
// maxDepth edges long. A maxDepth <= 0 uses DefaultMaxDepth. The depth
// bound is checked before the target-match check, so a path that reaches
// target exactly at maxDepth is still included but none longer are
// explored (§4.6).
func FindAllPaths(g NodeSource, source, target graph.NodeID, maxDepth int) ([][]graph.NodeID, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var paths [][]graph.NodeID
	visiting := map[graph.NodeID]struct{}{source: {}}
	current := []graph.NodeID{source}

	var walk func(node graph.NodeID) error
	walk = func(node graph.NodeID) error {
		if len(current)-1 >= maxDepth {
			return nil
		}
		neighbors, err := g.GetNeighbors(node, graph.Outgoing)
		if err != nil {
			return err
		}
		for _, n := range neighbors {
			if n == target {
				found := make([]graph.NodeID, len(current)+1)
				copy(found, current)
				found[len(current)] = target
				paths = append(paths, found)
				continue
			}
			if _, seen := visiting[n]; seen {
				continue
			}
			visiting[n] = struct{}{}
			current = append(current, n)
			if err := walk(n); err != nil {
				return err
			}
			current = current[:len(current)-1]
			delete(visiting, n)
		}
		return nil
	}

	if source == target {
		return [][]graph.NodeID{{source}}, nil
	}
	if err := walk(source); err != nil {
		return nil, err
	}
	return paths, nil
}

// StronglyConnectedComponents runs Tarjan's algorithm over every node in
// the graph and returns only components with two or more members — single
// nodes are never returned, even when they have a self-loop (§4.6).
func StronglyConnectedComponents(g NodeSource) ([][]graph.NodeID, error) {
	t := &tarjan{
		g:       g,
		index:   make(map[graph.NodeID]int),
		lowlink: make(map[graph.NodeID]int),
		onStack: make(map[graph.NodeID]bool),
	}

	for _, id := range g.AllNodeIDs() {
		if _, visited := t.index[id]; !visited {
			if err := t.strongconnect(id); err != nil {
				return nil, err
			}
		}
	}

	var out [][]graph.NodeID
	for _, comp := range t.components {
		if len(comp) >= 2 {
			out = append(out, comp)
		}
	}
	return out, nil
}

type tarjan struct {
	g          NodeSource
	index      map[graph.NodeID]int
	lowlink    map[graph.NodeID]int
	onStack    map[graph.NodeID]bool
	stack      []graph.NodeID
	counter    int
	components [][]graph.NodeID
}

func (t *tarjan) strongconnect(v graph.NodeID) error {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	neighbors, err := t.g.GetNeighbors(v, graph.Outgoing)
	if err != nil {
		return err
	}
	for _, w := range neighbors {
		if _, visited := t.index[w]; !visited {
			if err := t.strongconnect(w); err != nil {
				return err
			}
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []graph.NodeID
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, comp)
	}
	return nil
}
