// Package normalize turns raw backend graph payloads into render-ready
// fragments.
//
// A [Normalizer] validates every record at the boundary, resolves style
// hints through a [style.Resolver], spreads parallel edges with
// [parallel.Process], and builds display labels. Malformed records are
// dropped and listed in the [Report]; they never fail the batch. A payload
// with nothing usable in it yields an empty fragment, which callers check
// with [Result.Empty].
//
// The output fragment is not merged into any snapshot. Edges whose
// endpoints are missing from the payload are kept, since they may refer to
// vertices that are already rendered; the merge step decides whether they
// can be attached.
package normalize

import (
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/parallel"
	"github.com/matzehuels/graphview/pkg/style"
)

// Reason classifies a problem found in a payload.
type Reason string

const (
	ReasonMalformed       Reason = "malformed record"
	ReasonMissingID       Reason = "missing id"
	ReasonDuplicateID     Reason = "duplicate id"
	ReasonMissingEndpoint Reason = "missing endpoint"
	ReasonUnknownStyle    Reason = "unknown style reference"
)

// Kind names the record type a problem refers to.
type Kind string

const (
	KindVertex Kind = "vertex"
	KindEdge   Kind = "edge"
)

// Problem describes one anomaly in a payload. Index is the record's
// position in the payload's vertex or edge list.
type Problem struct {
	Kind   Kind   `json:"kind"`
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason Reason `json:"reason"`
}

// Report summarizes what the normalizer had to repair or drop.
type Report struct {
	DroppedVertices int       `json:"dropped_vertices"`
	DroppedEdges    int       `json:"dropped_edges"`
	AssignedEdgeIDs int       `json:"assigned_edge_ids"`
	StyleFallbacks  int       `json:"style_fallbacks"`
	Problems        []Problem `json:"problems,omitempty"`
}

// Dropped returns the total number of dropped records.
func (r Report) Dropped() int { return r.DroppedVertices + r.DroppedEdges }

func (r *Report) add(kind Kind, index int, id string, reason Reason) {
	r.Problems = append(r.Problems, Problem{Kind: kind, Index: index, ID: id, Reason: reason})
}

// Result is the outcome of normalizing one payload.
type Result struct {
	Fragment graph.Fragment `json:"fragment"`
	Report   Report         `json:"report"`
}

// Empty reports whether normalization produced nothing to add. This is a
// normal outcome, not an error.
func (r Result) Empty() bool { return r.Fragment.Empty() }

// Normalizer converts payloads to fragments. It holds no per-call state and
// is safe for concurrent use.
type Normalizer struct {
	styles   *style.Resolver
	parallel parallel.Options
}

// New creates a normalizer. A nil resolver selects [style.Default].
func New(styles *style.Resolver, opts parallel.Options) *Normalizer {
	if styles == nil {
		styles = style.Default()
	}
	return &Normalizer{styles: styles, parallel: opts}
}

// Styles returns the resolver used by the normalizer.
func (n *Normalizer) Styles() *style.Resolver { return n.styles }

// ParallelOptions returns the edge spacing used by the normalizer.
func (n *Normalizer) ParallelOptions() parallel.Options { return n.parallel }

// Normalize converts p into a fragment.
//
// Records that failed to decode cleanly are dropped. Vertices without an
// id are dropped, and a repeated vertex id keeps its first occurrence. Edges without a source or target are dropped; edges
// without an id get [graph.EdgeID]; a repeated edge id keeps its first
// occurrence. Node and edge order follows the payload.
func (n *Normalizer) Normalize(p graph.Payload) Result {
	var res Result
	res.Fragment.Nodes = n.nodes(p.Vertices, &res.Report)
	res.Fragment.Edges = n.edges(p.Edges, &res.Report)
	return res
}

func (n *Normalizer) nodes(vertices []graph.RawVertex, rep *Report) []graph.VisualNode {
	nodes := make([]graph.VisualNode, 0, len(vertices))
	seen := make(map[string]struct{}, len(vertices))
	for i, v := range vertices {
		if v.Malformed {
			rep.DroppedVertices++
			rep.add(KindVertex, i, v.ID, ReasonMalformed)
			continue
		}
		if v.ID == "" {
			rep.DroppedVertices++
			rep.add(KindVertex, i, "", ReasonMissingID)
			continue
		}
		if _, dup := seen[v.ID]; dup {
			rep.DroppedVertices++
			rep.add(KindVertex, i, v.ID, ReasonDuplicateID)
			continue
		}
		seen[v.ID] = struct{}{}

		node := graph.NewVisualNode(v)
		res := n.styles.ResolveVertex(node.Label, node.Style)
		if res.Fallback {
			rep.StyleFallbacks++
			rep.add(KindVertex, i, v.ID, ReasonUnknownStyle)
		}
		node.FillColor = res.FillColor
		node.IconName = res.IconName
		node.IconGlyph = res.IconGlyph
		node.DisplayLabel = graph.DisplayLabel(node.ID, node.Label, node.Properties,
			n.displayFields(node.Label, node.Style.DisplayFields, true), node.Style.JoinSymbols)
		nodes = append(nodes, node)
	}
	return nodes
}

func (n *Normalizer) edges(raw []graph.RawEdge, rep *Report) []graph.VisualEdge {
	edges := make([]graph.VisualEdge, 0, len(raw))
	index := make([]int, 0, len(raw)) // payload position of each kept edge
	seen := make(map[string]struct{}, len(raw))
	for i, e := range raw {
		if e.Malformed {
			rep.DroppedEdges++
			rep.add(KindEdge, i, e.ID, ReasonMalformed)
			continue
		}
		if e.Source == "" || e.Target == "" {
			rep.DroppedEdges++
			rep.add(KindEdge, i, e.ID, ReasonMissingEndpoint)
			continue
		}
		if e.ID == "" {
			e.ID = graph.EdgeID(e.Source, e.Label, e.Target)
			rep.AssignedEdgeIDs++
		}
		if _, dup := seen[e.ID]; dup {
			rep.DroppedEdges++
			rep.add(KindEdge, i, e.ID, ReasonDuplicateID)
			continue
		}
		seen[e.ID] = struct{}{}
		edges = append(edges, graph.NewVisualEdge(e))
		index = append(index, i)
	}

	edges = parallel.Process(edges, n.parallel)

	for k := range edges {
		e := &edges[k]
		res := n.styles.ResolveEdge(e.Label, e.Style)
		if res.Fallback {
			rep.StyleFallbacks++
			rep.add(KindEdge, index[k], e.ID, ReasonUnknownStyle)
		}
		e.StrokeColor = res.StrokeColor
		e.Arrow = res.Arrow
		e.DisplayLabel = graph.DisplayLabel(e.ID, e.Label, e.Properties,
			n.displayFields(e.Label, e.Style.DisplayFields, false), e.Style.JoinSymbols)
	}
	return edges
}

func (n *Normalizer) displayFields(label string, own []string, vertex bool) []string {
	if len(own) > 0 {
		return own
	}
	return n.styles.DisplayFields(label, vertex)
}

// Normalize converts p with the default style resolver and edge spacing.
func Normalize(p graph.Payload) Result {
	return New(nil, parallel.DefaultOptions()).Normalize(p)
}
