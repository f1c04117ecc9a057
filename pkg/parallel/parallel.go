// Package parallel spreads edges that share an endpoint pair so they render
// as distinct curves instead of drawing on top of each other.
//
// Edges are grouped by their unordered endpoint pair ([graph.PairKey]), so
// a→b and b→a land in the same bundle. Within a bundle members are ordered
// by edge id and assigned a placement:
//
//   - self-loops get increasing loop offsets: LoopSpacing, 2*LoopSpacing, ...
//   - a single edge between two vertices stays straight
//   - bundles of n > 1 edges get curvatures of growing magnitude with
//     alternating sign; for odd n the first member stays straight
//
// For a bundle of 4 with PolySpacing 50 the curvatures are +50, -50, +100,
// -100; for a bundle of 3 they are 0, +50, -50. Curvature is relative to the
// PairKey direction (lower id to higher id), see
// [graph.VisualEdge.DirectedCurvature].
//
// The assignment depends only on the set of edges in a bundle, never on
// input order, so recomputing it for an unchanged bundle is idempotent.
package parallel

import (
	"cmp"
	"slices"

	"github.com/matzehuels/graphview/pkg/graph"
)

// Defaults for Options fields left at zero.
const (
	DefaultPolySpacing = 50
	DefaultLoopSpacing = 10
)

// Options controls how far bundled edges and loops are spread.
type Options struct {
	PolySpacing float64 `toml:"poly_spacing" json:"poly_spacing"`
	LoopSpacing float64 `toml:"loop_spacing" json:"loop_spacing"`
}

// DefaultOptions returns the default spacing.
func DefaultOptions() Options {
	return Options{PolySpacing: DefaultPolySpacing, LoopSpacing: DefaultLoopSpacing}
}

func (o Options) withDefaults() Options {
	if o.PolySpacing <= 0 {
		o.PolySpacing = DefaultPolySpacing
	}
	if o.LoopSpacing <= 0 {
		o.LoopSpacing = DefaultLoopSpacing
	}
	return o
}

// Process returns a copy of edges with placements assigned. The result has
// the same length and order as the input; the input is not modified.
func Process(edges []graph.VisualEdge, opts Options) []graph.VisualEdge {
	out := slices.Clone(edges)
	for _, idxs := range Groups(out) {
		assign(out, idxs, opts.withDefaults())
	}
	return out
}

// Groups partitions edges by unordered endpoint pair. Each value lists the
// indices of the bundle's members in input order.
func Groups(edges []graph.VisualEdge) map[string][]int {
	groups := make(map[string][]int)
	for i := range edges {
		p := edges[i].Pair()
		groups[p] = append(groups[p], i)
	}
	return groups
}

// assign places the members idxs of one bundle in edges.
func assign(edges []graph.VisualEdge, idxs []int, opts Options) {
	members := slices.Clone(idxs)
	slices.SortStableFunc(members, func(a, b int) int {
		return cmp.Compare(edges[a].ID, edges[b].ID)
	})

	n := len(members)
	for k, i := range members {
		e := &edges[i]
		e.GroupIndex = k
		e.GroupSize = n
		switch {
		case e.IsLoop():
			e.Shape = graph.ShapeLoop
			e.Curvature = 0
			e.LoopOffset = float64(k+1) * opts.LoopSpacing
		case n == 1:
			e.Shape = graph.ShapeLine
			e.Curvature = 0
			e.LoopOffset = 0
		default:
			e.Shape = graph.ShapeQuadratic
			e.Curvature = Curvature(k, n, opts.PolySpacing)
			e.LoopOffset = 0
		}
	}
}

// Curvature returns the curvature of member k (0-based) in a bundle of n
// non-loop edges.
func Curvature(k, n int, spacing float64) float64 {
	if n <= 1 {
		return 0
	}
	var steps int
	if n%2 == 0 {
		steps = (k + 2) / 2
	} else {
		steps = (k + 1) / 2
	}
	if steps == 0 {
		return 0
	}
	c := float64(steps) * spacing
	if (k%2 == 0) != (n%2 == 0) {
		c = -c
	}
	return c
}
