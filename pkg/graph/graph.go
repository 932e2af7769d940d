package graph

import (
	"sort"
	"sync"

	"github.com/codeprop/codeprop/internal/logging"
	"github.com/codeprop/codeprop/pkg/kv"
	"github.com/codeprop/codeprop/pkg/prop"
)

// Graph is the in-memory node/edge index backed by a kv.Backend. It is not
// safe to mutate from multiple goroutines concurrently; concurrent reads
// are safe while no mutation is in flight (§5).
type Graph struct {
	mu sync.RWMutex

	backend kv.Backend
	logger  *logging.Logger

	nodes map[NodeID]*Node
	edges map[EdgeID]*Edge

	outAdjacency map[NodeID]map[EdgeID]struct{}
	inAdjacency  map[NodeID]map[EdgeID]struct{}

	nextNodeID uint64
	nextEdgeID uint64
}

// Open rebuilds a Graph's in-memory state from backend, per the open
// procedure in §4.3: load counters, scan nodes, scan edges, ready.
func Open(backend kv.Backend, logger *logging.Logger) (*Graph, error) {
	if logger == nil {
		logger = logging.New("[graph] ")
	}
	g := &Graph{
		backend:      backend,
		logger:       logger,
		nodes:        make(map[NodeID]*Node),
		edges:        make(map[EdgeID]*Edge),
		outAdjacency: make(map[NodeID]map[EdgeID]struct{}),
		inAdjacency:  make(map[NodeID]map[EdgeID]struct{}),
	}
	if err := g.rebuildFromStorage(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) rebuildFromStorage() error {
	var counters countersRecord
	data, found, err := g.backend.Get([]byte(countersKey))
	if err != nil {
		return storageErr("load counters", err)
	}
	if found {
		counters, err = decodeCounters(data)
		if err != nil {
			return storageErr("decode counters", err)
		}
	}

	nodeKVs, err := g.backend.ScanPrefix([]byte(nodePrefix))
	if err != nil {
		return storageErr("scan nodes", err)
	}
	var maxNodeSeen uint64
	haveNode := false
	for _, pair := range nodeKVs {
		n, err := decodeNode(pair.Value)
		if err != nil {
			return storageErr("decode node", err)
		}
		g.nodes[n.ID] = n
		if !haveNode || uint64(n.ID) > maxNodeSeen {
			maxNodeSeen = uint64(n.ID)
			haveNode = true
		}
	}

	edgeKVs, err := g.backend.ScanPrefix([]byte(edgePrefix))
	if err != nil {
		return storageErr("scan edges", err)
	}
	var maxEdgeSeen uint64
	haveEdge := false
	for _, pair := range edgeKVs {
		e, err := decodeEdge(pair.Value)
		if err != nil {
			return storageErr("decode edge", err)
		}
		g.edges[e.ID] = e
		g.indexEdge(e)
		if !haveEdge || uint64(e.ID) > maxEdgeSeen {
			maxEdgeSeen = uint64(e.ID)
			haveEdge = true
		}
	}

	// Counter durability rule (§9): guard against a crash that skipped
	// Flush by taking the larger of the persisted counter and one past
	// the highest ID actually observed in storage.
	g.nextNodeID = counters.NodeCounter
	if haveNode && maxNodeSeen+1 > g.nextNodeID {
		g.nextNodeID = maxNodeSeen + 1
	}
	g.nextEdgeID = counters.EdgeCounter
	if haveEdge && maxEdgeSeen+1 > g.nextEdgeID {
		g.nextEdgeID = maxEdgeSeen + 1
	}
	return nil
}

func (g *Graph) indexEdge(e *Edge) {
	if g.outAdjacency[e.SourceID] == nil {
		g.outAdjacency[e.SourceID] = make(map[EdgeID]struct{})
	}
	g.outAdjacency[e.SourceID][e.ID] = struct{}{}
	if g.inAdjacency[e.TargetID] == nil {
		g.inAdjacency[e.TargetID] = make(map[EdgeID]struct{})
	}
	g.inAdjacency[e.TargetID][e.ID] = struct{}{}
}

func (g *Graph) unindexEdge(e *Edge) {
	if m, ok := g.outAdjacency[e.SourceID]; ok {
		delete(m, e.ID)
		if len(m) == 0 {
			delete(g.outAdjacency, e.SourceID)
		}
	}
	if m, ok := g.inAdjacency[e.TargetID]; ok {
		delete(m, e.ID)
		if len(m) == 0 {
			delete(g.inAdjacency, e.TargetID)
		}
	}
}

// AddNode allocates an ID, persists the node, and caches it.
func (g *Graph) AddNode(nodeType NodeType, props *prop.Map) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := NodeID(g.nextNodeID)
	node := &Node{ID: id, NodeType: nodeType, Properties: clonedOrEmpty(props)}

	data, err := encodeNode(node)
	if err != nil {
		return 0, storageErr("encode node", err)
	}
	if err := g.backend.Put(nodeKey(id), data); err != nil {
		return 0, storageErr("put node", err)
	}
	g.nextNodeID++
	g.nodes[id] = node
	return id, nil
}

// AddEdge validates both endpoints exist, allocates an ID, persists the
// edge, and updates both adjacency indexes atomically with persistence:
// after this returns successfully the edge is both stored and indexed, or
// neither is (§5).
func (g *Graph) AddEdge(source, target NodeID, edgeType EdgeType, props *prop.Map) (EdgeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[source]; !ok {
		return 0, &NodeNotFoundError{ID: source}
	}
	if _, ok := g.nodes[target]; !ok {
		return 0, &NodeNotFoundError{ID: target}
	}

	id := EdgeID(g.nextEdgeID)
	edge := &Edge{ID: id, SourceID: source, TargetID: target, EdgeType: edgeType, Properties: clonedOrEmpty(props)}

	data, err := encodeEdge(edge)
	if err != nil {
		return 0, storageErr("encode edge", err)
	}
	if err := g.backend.Put(edgeKey(id), data); err != nil {
		return 0, storageErr("put edge", err)
	}
	g.nextEdgeID++
	g.edges[id] = edge
	g.indexEdge(edge)
	return id, nil
}

// GetNode returns a copy of the node at id.
func (g *Graph) GetNode(id NodeID) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return nil, &NodeNotFoundError{ID: id}
	}
	return copyNode(n), nil
}

// GetEdge returns a copy of the edge at id.
func (g *Graph) GetEdge(id EdgeID) (*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[id]
	if !ok {
		return nil, &EdgeNotFoundError{ID: id}
	}
	return copyEdge(e), nil
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// AllNodeIDs returns every node ID in counter order (ascending), the
// iteration domain the query builder uses when there is no in-file filter.
func (g *Graph) AllNodeIDs() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sortNodeIDs(ids)
	return ids
}

// UpdateNodeProperties merges patch into the node's properties, inserted
// keys overwriting existing ones (§4.3).
func (g *Graph) UpdateNodeProperties(id NodeID, patch *prop.Map) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[id]
	if !ok {
		return &NodeNotFoundError{ID: id}
	}
	merged := node.Properties.Clone()
	merged.Merge(patch)
	updated := &Node{ID: node.ID, NodeType: node.NodeType, Properties: merged}

	data, err := encodeNode(updated)
	if err != nil {
		return storageErr("encode node", err)
	}
	if err := g.backend.Put(nodeKey(id), data); err != nil {
		return storageErr("put node", err)
	}
	g.nodes[id] = updated
	return nil
}

// DeleteNode removes every incident edge (both directions) before removing
// the node itself (§3 invariant 4).
func (g *Graph) DeleteNode(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return &NodeNotFoundError{ID: id}
	}

	incident := make(map[EdgeID]struct{})
	for eid := range g.outAdjacency[id] {
		incident[eid] = struct{}{}
	}
	for eid := range g.inAdjacency[id] {
		incident[eid] = struct{}{}
	}
	for eid := range incident {
		if err := g.deleteEdgeLocked(eid); err != nil {
			return err
		}
	}

	if err := g.backend.Delete(nodeKey(id)); err != nil {
		return storageErr("delete node", err)
	}
	delete(g.nodes, id)
	return nil
}

// DeleteEdge removes edge id from both adjacency indexes and storage.
func (g *Graph) DeleteEdge(id EdgeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.edges[id]; !ok {
		return &EdgeNotFoundError{ID: id}
	}
	return g.deleteEdgeLocked(id)
}

func (g *Graph) deleteEdgeLocked(id EdgeID) error {
	e, ok := g.edges[id]
	if !ok {
		return nil
	}
	if err := g.backend.Delete(edgeKey(id)); err != nil {
		return storageErr("delete edge", err)
	}
	g.unindexEdge(e)
	delete(g.edges, id)
	return nil
}

// GetNeighbors collects the de-duplicated set of node IDs reachable from id
// in the given direction via a single edge hop.
func (g *Graph) GetNeighbors(id NodeID, direction Direction) ([]NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.nodes[id]; !ok {
		return nil, &NodeNotFoundError{ID: id}
	}

	seen := make(map[NodeID]struct{})
	var out []NodeID
	add := func(nid NodeID) {
		if _, ok := seen[nid]; !ok {
			seen[nid] = struct{}{}
			out = append(out, nid)
		}
	}

	if direction == Outgoing || direction == Both {
		for eid := range g.outAdjacency[id] {
			add(g.edges[eid].TargetID)
		}
	}
	if direction == Incoming || direction == Both {
		for eid := range g.inAdjacency[id] {
			add(g.edges[eid].SourceID)
		}
	}
	return out, nil
}

// GetEdgesBetween returns every edge whose endpoints are exactly
// (source, target).
func (g *Graph) GetEdgesBetween(source, target NodeID) ([]*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Edge
	for eid := range g.outAdjacency[source] {
		e := g.edges[eid]
		if e.TargetID == target {
			out = append(out, copyEdge(e))
		}
	}
	return out, nil
}

// OutgoingEdges returns every edge whose source is id.
func (g *Graph) OutgoingEdges(id NodeID) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, 0, len(g.outAdjacency[id]))
	for eid := range g.outAdjacency[id] {
		out = append(out, copyEdge(g.edges[eid]))
	}
	return out
}

// IncomingEdges returns every edge whose target is id.
func (g *Graph) IncomingEdges(id NodeID) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, 0, len(g.inAdjacency[id]))
	for eid := range g.inAdjacency[id] {
		out = append(out, copyEdge(g.edges[eid]))
	}
	return out
}

// NewNode is one node to add in a batch call.
type NewNode struct {
	NodeType   NodeType
	Properties *prop.Map
}

// NewEdge is one edge to add in a batch call.
type NewEdge struct {
	Source     NodeID
	Target     NodeID
	EdgeType   EdgeType
	Properties *prop.Map
}

// AddNodesBatch persists every node via one atomic backend write batch and
// updates in-memory caches only after that batch commits (§5's
// update-after-success discipline).
func (g *Graph) AddNodesBatch(specs []NewNode) ([]NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]NodeID, len(specs))
	nodes := make([]*Node, len(specs))
	ops := make([]kv.BatchOp, 0, len(specs))
	nextID := g.nextNodeID

	for i, spec := range specs {
		id := NodeID(nextID)
		nextID++
		node := &Node{ID: id, NodeType: spec.NodeType, Properties: clonedOrEmpty(spec.Properties)}
		data, err := encodeNode(node)
		if err != nil {
			return nil, storageErr("encode node", err)
		}
		ops = append(ops, kv.Put(nodeKey(id), data))
		ids[i] = id
		nodes[i] = node
	}

	if err := g.backend.WriteBatch(ops); err != nil {
		return nil, storageErr("write node batch", err)
	}

	g.nextNodeID = nextID
	for _, n := range nodes {
		g.nodes[n.ID] = n
	}
	return ids, nil
}

// AddEdgesBatch validates every endpoint before touching storage, then
// persists all edges via one atomic write batch. Like AddNodesBatch, caches
// update only once the batch commits.
func (g *Graph) AddEdgesBatch(specs []NewEdge) ([]EdgeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, spec := range specs {
		if _, ok := g.nodes[spec.Source]; !ok {
			return nil, &NodeNotFoundError{ID: spec.Source}
		}
		if _, ok := g.nodes[spec.Target]; !ok {
			return nil, &NodeNotFoundError{ID: spec.Target}
		}
	}

	ids := make([]EdgeID, len(specs))
	edges := make([]*Edge, len(specs))
	ops := make([]kv.BatchOp, 0, len(specs))
	nextID := g.nextEdgeID

	for i, spec := range specs {
		id := EdgeID(nextID)
		nextID++
		edge := &Edge{ID: id, SourceID: spec.Source, TargetID: spec.Target, EdgeType: spec.EdgeType, Properties: clonedOrEmpty(spec.Properties)}
		data, err := encodeEdge(edge)
		if err != nil {
			return nil, storageErr("encode edge", err)
		}
		ops = append(ops, kv.Put(edgeKey(id), data))
		ids[i] = id
		edges[i] = edge
	}

	if err := g.backend.WriteBatch(ops); err != nil {
		return nil, storageErr("write edge batch", err)
	}

	g.nextEdgeID = nextID
	for _, e := range edges {
		g.edges[e.ID] = e
		g.indexEdge(e)
	}
	return ids, nil
}

// Clear deletes every node (cascading its edges) and resets counters to
// zero.
func (g *Graph) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for id := range g.edges {
		if err := g.backend.Delete(edgeKey(id)); err != nil {
			return storageErr("delete edge", err)
		}
	}
	for id := range g.nodes {
		if err := g.backend.Delete(nodeKey(id)); err != nil {
			return storageErr("delete node", err)
		}
	}
	g.nodes = make(map[NodeID]*Node)
	g.edges = make(map[EdgeID]*Edge)
	g.outAdjacency = make(map[NodeID]map[EdgeID]struct{})
	g.inAdjacency = make(map[NodeID]map[EdgeID]struct{})
	g.nextNodeID = 0
	g.nextEdgeID = 0

	data, err := encodeCounters(countersRecord{})
	if err != nil {
		return storageErr("encode counters", err)
	}
	if err := g.backend.Put([]byte(countersKey), data); err != nil {
		return storageErr("put counters", err)
	}
	return nil
}

// Flush persists the current counters and then flushes the backend. This
// is the only durability checkpoint a caller must honour between logical
// operations (§5).
func (g *Graph) Flush() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.flushLocked()
}

func (g *Graph) flushLocked() error {
	data, err := encodeCounters(countersRecord{NodeCounter: g.nextNodeID, EdgeCounter: g.nextEdgeID})
	if err != nil {
		return storageErr("encode counters", err)
	}
	if err := g.backend.Put([]byte(countersKey), data); err != nil {
		return storageErr("put counters", err)
	}
	return storageErr("flush backend", g.backend.Flush())
}

// Close flushes and releases the backend. The graph must not be used
// afterward.
func (g *Graph) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.flushLocked(); err != nil {
		return err
	}
	return storageErr("close backend", g.backend.Close())
}

func clonedOrEmpty(p *prop.Map) *prop.Map {
	if p == nil {
		return prop.New()
	}
	return p.Clone()
}

func copyNode(n *Node) *Node {
	return &Node{ID: n.ID, NodeType: n.NodeType, Properties: n.Properties.Clone()}
}

func copyEdge(e *Edge) *Edge {
	return &Edge{ID: e.ID, SourceID: e.SourceID, TargetID: e.TargetID, EdgeType: e.EdgeType, Properties: e.Properties.Clone()}
}

func sortNodeIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
