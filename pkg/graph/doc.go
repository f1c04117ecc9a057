// Package graph defines the data model shared by every graphview component.
//
// The package sits at the boundary between the graph backend and the visual
// layer:
//
//   - [Payload], [RawVertex], [RawEdge]: raw query results as the backend
//     returns them, with presentation hints under the "~style" key
//   - [VisualNode], [VisualEdge]: render-ready elements with resolved colors,
//     icon glyphs, arrow flags and parallel-edge offsets
//   - [Fragment]: a normalized result that has not been merged into any
//     snapshot yet
//
// # Payload Format
//
// Payloads use the query API's graph_view shape:
//
//	{
//	  "vertices": [
//	    {"id": "1:marko", "label": "person", "properties": {"name": "marko"},
//	     "~style": {"color": "#5C73E6", "icon": "user", "display_fields": ["name"]}}
//	  ],
//	  "edges": [
//	    {"id": "1:marko-knows->1:vadas", "label": "knows",
//	     "source": "1:marko", "target": "1:vadas",
//	     "~style": {"with_arrow": true, "line_type": "SOLID"}}
//	  ]
//	}
//
// Vertex ids may arrive as JSON strings or numbers; both decode to string ids.
//
// # Edge Identity
//
// Edge ids are deterministic composite keys built by [EdgeID]. Two fetches that
// return the same edge produce the same id, which is what makes id-based
// deduplication work across independent fetches. [PairKey] gives the
// unordered endpoint key used to bundle parallel edges.
//
// # Concurrency
//
// All types are plain values. Functions are safe for concurrent use; the
// structures themselves are not synchronized.
package graph
