// Package merge folds normalized fragments into a rendered snapshot.
//
// [Merge] compares a fragment against the snapshot's id sets and adds only
// the nodes and edges whose ids are not present yet. Existing elements are
// never removed or restyled. Because edge ids are deterministic, merging the
// same fragment twice adds nothing the second time.
//
// When new edges join a bundle that already has members in the snapshot,
// the whole bundle is re-spread with [parallel.Process] over old and new
// members together. Existing edges whose placement changed as a result are
// reported in [Delta.UpdatedEdges] so the renderer can redraw them.
//
// If a fragment contains no new node, the merge is a no-op and the delta
// carries [Delta.NothingNew]; this is the "no more neighbors" outcome of an
// expansion, not an error.
package merge

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/parallel"
	"github.com/matzehuels/graphview/pkg/snapshot"
)

// Options controls a merge.
type Options struct {
	// Parallel is the spacing used when re-spreading affected bundles.
	Parallel parallel.Options

	// AllowEdgeOnly merges new edges even when the fragment brings no new
	// node. By default such a fragment is a no-op.
	AllowEdgeOnly bool
}

// DefaultOptions returns the options used by expansion merges.
func DefaultOptions() Options {
	return Options{Parallel: parallel.DefaultOptions()}
}

// View is the read-only part of a snapshot a diff needs.
type View interface {
	HasNode(id string) bool
	HasEdge(id string) bool
}

// Delta is the outcome of a merge.
type Delta struct {
	AddedNodes   []graph.VisualNode `json:"added_nodes"`
	AddedEdges   []graph.VisualEdge `json:"added_edges"`
	UpdatedEdges []graph.VisualEdge `json:"updated_edges"` // sorted by id
	// Orphaned lists new edges that were skipped because an endpoint is
	// neither in the snapshot nor among the added nodes.
	Orphaned   []string `json:"orphaned,omitempty"`
	NothingNew bool     `json:"nothing_new"`
}

// Empty reports whether the merge changed nothing.
func (d Delta) Empty() bool {
	return len(d.AddedNodes) == 0 && len(d.AddedEdges) == 0 && len(d.UpdatedEdges) == 0
}

// NodeIDs returns the ids of the added nodes.
func (d Delta) NodeIDs() []string {
	ids := make([]string, len(d.AddedNodes))
	for i, n := range d.AddedNodes {
		ids[i] = n.ID
	}
	return ids
}

// EdgeIDs returns the ids of the added edges.
func (d Delta) EdgeIDs() []string {
	ids := make([]string, len(d.AddedEdges))
	for i, e := range d.AddedEdges {
		ids[i] = e.ID
	}
	return ids
}

// Diff returns the fragment elements whose ids are absent from v, in
// fragment order. Repeated ids within the fragment keep the first
// occurrence.
func Diff(v View, f graph.Fragment) ([]graph.VisualNode, []graph.VisualEdge) {
	var nodes []graph.VisualNode
	seen := make(map[string]struct{})
	for _, n := range f.Nodes {
		if n.ID == "" || v.HasNode(n.ID) {
			continue
		}
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		nodes = append(nodes, n)
	}

	var edges []graph.VisualEdge
	clear(seen)
	for _, e := range f.Edges {
		if e.ID == "" || v.HasEdge(e.ID) {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		edges = append(edges, e)
	}
	return nodes, edges
}

// Merge adds the new elements of f to s and returns what changed.
//
// Nodes are added first, then edges whose endpoints are present; every
// bundle that gained an edge is re-spread across all of its members.
func Merge(s *snapshot.Snapshot, f graph.Fragment, opts Options) Delta {
	nodes, edges := Diff(s, f)
	if len(nodes) == 0 && (!opts.AllowEdgeOnly || len(edges) == 0) {
		return Delta{NothingNew: true}
	}

	var d Delta
	for _, n := range nodes {
		n.Highlighted = false
		if s.AddNode(n) == nil {
			d.AddedNodes = append(d.AddedNodes, n)
		}
	}

	added := make(map[string]struct{}, len(edges))
	var order []string
	for _, e := range edges {
		e.Highlighted = false
		if err := s.AddEdge(e); err != nil {
			d.Orphaned = append(d.Orphaned, e.ID)
			continue
		}
		added[e.ID] = struct{}{}
		order = append(order, e.ID)
	}

	d.UpdatedEdges = recurve(s, added, opts.Parallel)
	for _, id := range order {
		e, _ := s.Edge(id)
		d.AddedEdges = append(d.AddedEdges, *e)
	}
	return d
}

// AddNode inserts a single node, as the "create vertex" flow does. The
// error is the snapshot's, e.g. [snapshot.ErrDuplicateNodeID].
func AddNode(s *snapshot.Snapshot, n graph.VisualNode) (Delta, error) {
	n.Highlighted = false
	if err := s.AddNode(n); err != nil {
		return Delta{}, err
	}
	return Delta{AddedNodes: []graph.VisualNode{n}}, nil
}

// AddEdge inserts a single edge between present nodes and re-spreads its
// bundle. The error is the snapshot's, e.g. [snapshot.ErrUnknownSourceNode].
func AddEdge(s *snapshot.Snapshot, e graph.VisualEdge, opts Options) (Delta, error) {
	e.Highlighted = false
	if err := s.AddEdge(e); err != nil {
		return Delta{}, err
	}
	d := Delta{UpdatedEdges: recurve(s, map[string]struct{}{e.ID: {}}, opts.Parallel)}
	stored, _ := s.Edge(e.ID)
	d.AddedEdges = []graph.VisualEdge{*stored}
	return d, nil
}

// recurve re-spreads every bundle containing an edge in added. It stores
// the new placements and returns copies of the pre-existing edges whose
// placement changed, sorted by id.
func recurve(s *snapshot.Snapshot, added map[string]struct{}, opts parallel.Options) []graph.VisualEdge {
	pairs := make(map[string]struct{})
	for id := range added {
		e, _ := s.Edge(id)
		pairs[e.Pair()] = struct{}{}
	}

	var updated []graph.VisualEdge
	for p := range pairs {
		before := s.PairEdges(p)
		after := parallel.Process(before, opts)
		for i := range after {
			if before[i].SamePlacement(&after[i]) {
				continue
			}
			// Process keeps order, ids and endpoints, so a failure here is a bug.
			if err := s.ReplaceEdge(after[i]); err != nil {
				panic(fmt.Sprintf("merge: recurve edge %s: %v", after[i].ID, err))
			}
			if _, isNew := added[after[i].ID]; !isNew {
				updated = append(updated, after[i])
			}
		}
	}
	slices.SortFunc(updated, func(a, b graph.VisualEdge) int { return cmp.Compare(a.ID, b.ID) })
	return updated
}
