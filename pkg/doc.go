// Package pkg holds the libraries behind graphview.
//
// # Overview
//
// graphview turns raw graph query results into render-ready fragments and
// folds the results of later expansions into a persistent snapshot, adding
// only what is new and highlighting it. The data flow is:
//
//	Query/expansion payload ({vertices, edges})
//	         ↓
//	    [normalize] (drop malformed records, resolve styles, spread parallel edges)
//	         ↓
//	    [merge] (add unseen ids, re-spread affected bundles)
//	         ↓
//	    [highlight] (mark what the last expansion added)
//	         ↓
//	    [snapshot] (kept per session by [explore] in a [cache] backend)
//
// # Main Packages
//
// [graph] - Payload and visual element types, identity helpers and JSON I/O.
//
// [style] - Resolves color and icon hints against a per-label schema.
//
// [parallel] - Groups edges by endpoint pair and assigns curvature and loop
// offsets so parallel edges stay distinguishable.
//
// [normalize] - Turns a payload into a fragment plus a report of what was
// dropped or repaired.
//
// [snapshot] - The rendered element collections with id indexes.
//
// [merge] - Incremental merge of a fragment into a snapshot.
//
// [highlight] - Selection state for newly added elements.
//
// [explore] - Sessions: start, expand, expand from a database, discard.
//
// [source/neo4j] - Fetches neighbor payloads from a Neo4j database.
//
// [render/dot] - Graphviz output for snapshots.
//
// [server] - HTTP API over [explore].
//
// ## Infrastructure
//
// [cache] - File, redis and null backends with retry helpers.
//
// [config] - TOML configuration.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for session, cache and HTTP events.
//
// [buildinfo] - Version information.
package pkg
