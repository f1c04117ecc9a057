package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/snapshot"
)

// DefaultHighlightColor outlines highlighted nodes and edges.
const DefaultHighlightColor = "#ff7a45"

// Engine selects the Graphviz layout engine.
type Engine string

const (
	EngineDOT   Engine = "dot"
	EngineNeato Engine = "neato"
	EngineFDP   Engine = "fdp"
	EngineCirco Engine = "circo"
)

// Engines lists the supported layout engines.
func Engines() []Engine { return []Engine{EngineDOT, EngineNeato, EngineFDP, EngineCirco} }

// Format is an output format for [Render].
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the vertex id and sorted properties below the
	// display label.
	Detailed bool

	// HighlightColor is the outline of highlighted elements.
	// Empty selects DefaultHighlightColor.
	HighlightColor string
}

// ToDOT converts a snapshot to Graphviz DOT source. Nodes and edges are
// written in snapshot insertion order.
func ToDOT(s *snapshot.Snapshot, opts Options) string {
	hl := opts.HighlightColor
	if hl == "" {
		hl = DefaultHighlightColor
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=12, fixedsize=false];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed, hl), ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, hl), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n graph.VisualNode, detailed bool) string {
	label := n.DisplayLabel
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}
	parts := []string{label, "id: " + n.ID}
	for _, k := range slices.Sorted(maps.Keys(n.Properties)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Properties[k]))
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(n graph.VisualNode, detailed bool, hl string) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, detailed)),
		fmt.Sprintf("fillcolor=%q", n.FillColor),
	}
	if n.Highlighted {
		attrs = append(attrs, fmt.Sprintf("color=%q", hl), "penwidth=3")
	}
	return attrs
}

func edgeAttrs(e graph.VisualEdge, hl string) []string {
	color := e.StrokeColor
	if e.Highlighted {
		color = hl
	}
	attrs := []string{
		fmt.Sprintf("label=%q", e.DisplayLabel),
		fmt.Sprintf("color=%q", color),
	}
	if !e.Arrow {
		attrs = append(attrs, "arrowhead=none")
	}
	if e.Highlighted {
		attrs = append(attrs, "penwidth=2.5")
	}
	return attrs
}

// Render converts DOT source to the requested format. FormatDOT returns the
// source unchanged.
func Render(ctx context.Context, src string, format Format, engine Engine) ([]byte, error) {
	switch format {
	case FormatDOT, "":
		return []byte(src), nil
	case FormatSVG:
		return RenderSVG(ctx, src, engine)
	case FormatPNG:
		return render(ctx, src, graphviz.PNG, engine)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// RenderSVG renders DOT source to SVG. The root element is rewritten to a
// zero-origin viewBox with matching width and height.
func RenderSVG(ctx context.Context, src string, engine Engine) ([]byte, error) {
	svg, err := render(ctx, src, graphviz.SVG, engine)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

func render(ctx context.Context, src string, format graphviz.Format, engine Engine) ([]byte, error) {
	if engine == "" {
		engine = EngineDOT
	}
	if !slices.Contains(Engines(), engine) {
		return nil, fmt.Errorf("unsupported layout engine %q", engine)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
