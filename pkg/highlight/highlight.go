// Package highlight manages the "just added" marks on a snapshot.
//
// Each expansion goes through the same transition: clear every mark left by
// the previous merge, then mark every node and edge the new merge added.
// [Apply] performs both steps and returns the resulting [Set]. Recurved
// edges are not marked; they were already on the canvas.
package highlight

import (
	"slices"

	"github.com/matzehuels/graphview/pkg/merge"
	"github.com/matzehuels/graphview/pkg/snapshot"
)

// Set is the set of highlighted node and edge ids. The zero value is an
// empty set ready to use.
type Set struct {
	nodes map[string]struct{}
	edges map[string]struct{}
}

// FromDelta returns the set of elements added by a merge.
func FromDelta(d merge.Delta) Set {
	var s Set
	for _, n := range d.AddedNodes {
		s.MarkNode(n.ID)
	}
	for _, e := range d.AddedEdges {
		s.MarkEdge(e.ID)
	}
	return s
}

// MarkNode adds a node id to the set.
func (s *Set) MarkNode(id string) {
	if s.nodes == nil {
		s.nodes = make(map[string]struct{})
	}
	s.nodes[id] = struct{}{}
}

// MarkEdge adds an edge id to the set.
func (s *Set) MarkEdge(id string) {
	if s.edges == nil {
		s.edges = make(map[string]struct{})
	}
	s.edges[id] = struct{}{}
}

// Clear empties the set.
func (s *Set) Clear() {
	s.nodes = nil
	s.edges = nil
}

// HasNode reports whether a node id is marked.
func (s Set) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// HasEdge reports whether an edge id is marked.
func (s Set) HasEdge(id string) bool {
	_, ok := s.edges[id]
	return ok
}

// Len returns the number of marked ids.
func (s Set) Len() int { return len(s.nodes) + len(s.edges) }

// Nodes returns the marked node ids, sorted.
func (s Set) Nodes() []string { return sortedKeys(s.nodes) }

// Edges returns the marked edge ids, sorted.
func (s Set) Edges() []string { return sortedKeys(s.edges) }

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clear resets every highlight flag on the snapshot.
func Clear(snap *snapshot.Snapshot) int { return snap.ClearHighlights() }

// Mark sets the highlight flag on every element of set that is present in
// the snapshot. Ids missing from the snapshot are ignored.
func Mark(snap *snapshot.Snapshot, set Set) {
	for id := range set.nodes {
		snap.SetNodeHighlight(id, true)
	}
	for id := range set.edges {
		snap.SetEdgeHighlight(id, true)
	}
}

// Apply clears all marks on the snapshot and then marks everything the
// delta added. It returns the new highlight set.
func Apply(snap *snapshot.Snapshot, d merge.Delta) Set {
	set := FromDelta(d)
	Clear(snap)
	Mark(snap, set)
	return set
}

// Current reads the highlight set back from a snapshot.
func Current(snap *snapshot.Snapshot) Set {
	var s Set
	nodes, edges := snap.Highlighted()
	for _, id := range nodes {
		s.MarkNode(id)
	}
	for _, id := range edges {
		s.MarkEdge(id)
	}
	return s
}
