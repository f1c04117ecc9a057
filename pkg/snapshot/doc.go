// Package snapshot holds the currently rendered visual graph.
//
// # Overview
//
// A [Snapshot] is the authoritative set of nodes and edges on the canvas for
// one exploration session. It is created empty (or seeded from an initial
// query), grows through merges, and is thrown away when the session ends.
//
// Nodes and edges are keyed by id, and ids are unique within a snapshot:
// [Snapshot.AddNode] and [Snapshot.AddEdge] reject duplicates with
// [ErrDuplicateNodeID] and [ErrDuplicateEdgeID]. An edge can only be added
// once both of its endpoints are present.
//
// # Query Interface
//
// Renderers and the merge engine read the snapshot through:
//
//   - [Snapshot.NodeIDs], [Snapshot.EdgeIDs]: id sets for membership checks
//   - [Snapshot.Nodes], [Snapshot.Edges]: full collections in insertion order
//   - [Snapshot.PairEdges]: all edges bundled between one endpoint pair
//
// Iteration follows insertion order so that JSON output and renders are
// deterministic, while lookups go through id-keyed maps.
//
// # Highlight Flags
//
// Every node and edge carries a transient highlight flag used to mark the
// elements added by the latest merge. [Snapshot.ClearHighlights] and the
// Set*Highlight methods manage it; see package highlight for the full
// clear-then-mark transition.
//
// # Serialization
//
// Snapshots encode to JSON as {"nodes": [...], "edges": [...]}. Decoding
// rebuilds the indices through AddNode/AddEdge, so a decoded snapshot obeys
// the same invariants as one built in memory.
//
// # Concurrency
//
// Snapshot instances are not safe for concurrent use. The session runner
// serializes access per session; other callers must synchronize themselves.
package snapshot
