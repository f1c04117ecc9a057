package dot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/highlight"
	"github.com/matzehuels/graphview/pkg/merge"
	"github.com/matzehuels/graphview/pkg/normalize"
	"github.com/matzehuels/graphview/pkg/snapshot"
	"github.com/matzehuels/graphview/pkg/style"
)

func sample(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	arrow := true
	styles := style.NewResolver(style.Config{
		Schema: style.Schema{
			Vertices: map[string]style.LabelStyle{"person": {Color: "#5c73e6", DisplayFields: []string{"~id"}}},
			Edges:    map[string]style.LabelStyle{"knows": {Color: "#112233", WithArrow: &arrow}},
		},
	})
	n := normalize.New(styles, merge.DefaultOptions().Parallel)

	s := snapshot.New()
	first := n.Normalize(graph.Payload{
		Vertices: []graph.RawVertex{{ID: "A", Label: "person"}, {ID: "B", Label: "person"}},
		Edges:    []graph.RawEdge{{Label: "knows", Source: "A", Target: "B"}},
	})
	merge.Merge(s, first.Fragment, merge.DefaultOptions())

	second := n.Normalize(graph.Payload{
		Vertices: []graph.RawVertex{{ID: "C", Label: "robot", Properties: map[string]any{"model": "x1"}}},
		Edges:    []graph.RawEdge{{Label: "owns", Source: "B", Target: "C"}},
	})
	highlight.Apply(s, merge.Merge(s, second.Fragment, merge.DefaultOptions()))
	return s
}

func TestToDOT(t *testing.T) {
	out := ToDOT(sample(t), Options{})

	wants := []string{
		"digraph G {",
		`"A" [label="A", fillcolor="#5c73e6"];`,
		`"C" [label="robot", fillcolor="#eeeeee", color="#ff7a45", penwidth=3];`,
		`"A" -> "B" [label="knows", color="#112233"];`,
		`"B" -> "C" [label="owns", color="#ff7a45", arrowhead=none, penwidth=2.5];`,
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("DOT missing %s\n%s", w, out)
		}
	}
	if strings.Index(out, `"A" [`) > strings.Index(out, `"C" [`) {
		t.Error("nodes not in insertion order")
	}
}

func TestToDOTDetailed(t *testing.T) {
	out := ToDOT(sample(t), Options{Detailed: true, HighlightColor: "#000000"})
	if !strings.Contains(out, `label="robot\nid: C\nmodel: x1"`) {
		t.Errorf("detailed label missing:\n%s", out)
	}
	if !strings.Contains(out, `color="#000000"`) {
		t.Error("custom highlight color not used")
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	src := ToDOT(sample(t), Options{})

	out, err := Render(ctx, src, FormatDOT, "")
	if err != nil || string(out) != src {
		t.Errorf("FormatDOT should return the source, err=%v", err)
	}
	if _, err := Render(ctx, src, "gif", ""); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := Render(ctx, src, FormatSVG, "spring"); err == nil {
		t.Error("expected error for unsupported engine")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t), Options{}), EngineDOT)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Errorf("viewBox not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.40 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.40 200.00" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s, want %s", got, want)
	}
	if string(normalizeViewBox([]byte("<svg>"))) != "<svg>" {
		t.Error("svg without viewBox should be unchanged")
	}
}
