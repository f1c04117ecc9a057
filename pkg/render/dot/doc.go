// Package dot renders session snapshots as Graphviz diagrams.
//
// The browser console draws snapshots itself; this package gives the CLI
// and the HTTP API a static preview of the same state. Node fill colors,
// edge stroke colors and arrowheads come from the resolved styles on the
// snapshot, and highlighted elements are drawn with a heavier pen.
//
// # Usage
//
//	src := dot.ToDOT(snap, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src, dot.EngineDOT)
//
// Parallel edges are left to Graphviz, which spreads multi-edges on its
// own; the curvature computed for the console is not used here.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz in
// process. No external binaries are needed.
package dot
