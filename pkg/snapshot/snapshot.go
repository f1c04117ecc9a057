package snapshot

import (
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/graphview/pkg/graph"
)

var (
	// ErrInvalidNodeID is returned by [Snapshot.AddNode] when the node ID is
	// empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Snapshot.AddNode] when a node with
	// the same ID is already present.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Snapshot.AddEdge] when the edge ID is
	// empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Snapshot.AddEdge] when an edge with
	// the same ID is already present.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned by [Snapshot.AddEdge] when the source
	// node is not present.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Snapshot.AddEdge] when the target
	// node is not present.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownEdge is returned by [Snapshot.ReplaceEdge] when no edge with
	// the given ID exists.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrEndpointChanged is returned by [Snapshot.ReplaceEdge] when the
	// replacement has different endpoints than the stored edge.
	ErrEndpointChanged = errors.New("edge endpoints must not change")

	// ErrInvalidEdgeEndpoint is returned by [Snapshot.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// IDSet is a read-only set of element ids.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []string { return slices.Sorted(maps.Keys(s)) }

// Snapshot is the set of nodes and edges currently rendered.
//
// The zero value is not usable; use [New].
type Snapshot struct {
	nodes     map[string]*graph.VisualNode
	edges     map[string]*graph.VisualEdge
	nodeOrder []string
	edgeOrder []string
	pairs     map[string][]string // PairKey -> edge IDs in insertion order
}

// New creates an empty snapshot.
func New() *Snapshot {
	return &Snapshot{
		nodes: make(map[string]*graph.VisualNode),
		edges: make(map[string]*graph.VisualEdge),
		pairs: make(map[string][]string),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID if the ID is empty, or
// ErrDuplicateNodeID if it is already present.
func (s *Snapshot) AddNode(n graph.VisualNode) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := s.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	s.nodes[n.ID] = &n
	s.nodeOrder = append(s.nodeOrder, n.ID)
	return nil
}

// AddEdge adds an edge between two present nodes. Returns ErrInvalidEdgeID,
// ErrDuplicateEdgeID, ErrUnknownSourceNode or ErrUnknownTargetNode.
//
// AddEdge stores the edge's placement as given; recomputing the placement
// of its bundle is up to the caller.
func (s *Snapshot) AddEdge(e graph.VisualEdge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if _, exists := s.edges[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	if _, ok := s.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := s.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	s.edges[e.ID] = &e
	s.edgeOrder = append(s.edgeOrder, e.ID)
	p := e.Pair()
	s.pairs[p] = append(s.pairs[p], e.ID)
	return nil
}

// ReplaceEdge overwrites a stored edge with e, keeping its position in the
// insertion order. The endpoints must match the stored edge.
func (s *Snapshot) ReplaceEdge(e graph.VisualEdge) error {
	old, ok := s.edges[e.ID]
	if !ok {
		return ErrUnknownEdge
	}
	if old.Source != e.Source || old.Target != e.Target {
		return ErrEndpointChanged
	}
	*old = e
	return nil
}

// RemoveEdge removes the edge with the given ID if it exists.
func (s *Snapshot) RemoveEdge(id string) {
	e, ok := s.edges[id]
	if !ok {
		return
	}
	delete(s.edges, id)
	s.edgeOrder = slices.DeleteFunc(s.edgeOrder, func(x string) bool { return x == id })
	p := e.Pair()
	s.pairs[p] = slices.DeleteFunc(s.pairs[p], func(x string) bool { return x == id })
	if len(s.pairs[p]) == 0 {
		delete(s.pairs, p)
	}
}

// RemoveNode removes a node and every edge incident to it. It returns the
// IDs of the removed edges. Removal is not part of an expansion merge; it
// serves explicit user deletions.
func (s *Snapshot) RemoveNode(id string) []string {
	if _, ok := s.nodes[id]; !ok {
		return nil
	}
	var removed []string
	for _, eid := range slices.Clone(s.edgeOrder) {
		e := s.edges[eid]
		if e.Source == id || e.Target == id {
			s.RemoveEdge(eid)
			removed = append(removed, eid)
		}
	}
	delete(s.nodes, id)
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(x string) bool { return x == id })
	return removed
}

// Node returns the node with the given ID. The pointer refers to the stored
// node; changing its ID breaks the index.
func (s *Snapshot) Node(id string) (*graph.VisualNode, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID. The pointer refers to the stored
// edge; use [Snapshot.ReplaceEdge] rather than changing its ID or endpoints.
func (s *Snapshot) Edge(id string) (*graph.VisualEdge, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// HasNode reports whether a node with the given ID is present.
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// HasEdge reports whether an edge with the given ID is present.
func (s *Snapshot) HasEdge(id string) bool {
	_, ok := s.edges[id]
	return ok
}

// NodeIDs returns the set of node IDs. The set is a copy.
func (s *Snapshot) NodeIDs() IDSet {
	set := make(IDSet, len(s.nodes))
	for id := range s.nodes {
		set[id] = struct{}{}
	}
	return set
}

// EdgeIDs returns the set of edge IDs. The set is a copy.
func (s *Snapshot) EdgeIDs() IDSet {
	set := make(IDSet, len(s.edges))
	for id := range s.edges {
		set[id] = struct{}{}
	}
	return set
}

// Nodes returns copies of all nodes in insertion order.
func (s *Snapshot) Nodes() []graph.VisualNode {
	out := make([]graph.VisualNode, len(s.nodeOrder))
	for i, id := range s.nodeOrder {
		out[i] = *s.nodes[id]
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (s *Snapshot) Edges() []graph.VisualEdge {
	out := make([]graph.VisualEdge, len(s.edgeOrder))
	for i, id := range s.edgeOrder {
		out[i] = *s.edges[id]
	}
	return out
}

// PairEdges returns copies of the edges bundled under a PairKey, in
// insertion order. Returns nil if the pair has no edges.
func (s *Snapshot) PairEdges(pair string) []graph.VisualEdge {
	ids := s.pairs[pair]
	if len(ids) == 0 {
		return nil
	}
	out := make([]graph.VisualEdge, len(ids))
	for i, id := range ids {
		out[i] = *s.edges[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Empty reports whether the snapshot holds no nodes.
func (s *Snapshot) Empty() bool { return len(s.nodes) == 0 }

// Fragment returns the snapshot's contents as a fragment.
func (s *Snapshot) Fragment() graph.Fragment {
	return graph.Fragment{Nodes: s.Nodes(), Edges: s.Edges()}
}

// Clone returns a deep copy of the snapshot's indices. Property maps are
// shared with the original.
func (s *Snapshot) Clone() *Snapshot {
	c := New()
	for _, id := range s.nodeOrder {
		n := *s.nodes[id]
		c.nodes[id] = &n
	}
	for _, id := range s.edgeOrder {
		e := *s.edges[id]
		c.edges[id] = &e
	}
	c.nodeOrder = slices.Clone(s.nodeOrder)
	c.edgeOrder = slices.Clone(s.edgeOrder)
	for p, ids := range s.pairs {
		c.pairs[p] = slices.Clone(ids)
	}
	return c
}

// Validate checks that every edge connects present nodes and that the pair
// index agrees with the edge set. Returns ErrInvalidEdgeEndpoint otherwise.
func (s *Snapshot) Validate() error {
	indexed := 0
	for p, ids := range s.pairs {
		for _, id := range ids {
			e, ok := s.edges[id]
			if !ok || e.Pair() != p {
				return ErrInvalidEdgeEndpoint
			}
			indexed++
		}
	}
	if indexed != len(s.edges) {
		return ErrInvalidEdgeEndpoint
	}
	for _, e := range s.edges {
		if _, ok := s.nodes[e.Source]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := s.nodes[e.Target]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}
