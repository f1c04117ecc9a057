package merge

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/normalize"
	"github.com/matzehuels/graphview/pkg/snapshot"
)

func vertex(id string) graph.RawVertex { return graph.RawVertex{ID: id, Label: "person"} }

func rawEdge(src, dst string) graph.RawEdge {
	return graph.RawEdge{ID: graph.EdgeID(src, "knows", dst), Label: "knows", Source: src, Target: dst}
}

func fragment(vertices []string, edges ...graph.RawEdge) graph.Fragment {
	p := graph.Payload{Edges: edges}
	for _, v := range vertices {
		p.Vertices = append(p.Vertices, vertex(v))
	}
	return normalize.Normalize(p).Fragment
}

func seed(t *testing.T, f graph.Fragment) *snapshot.Snapshot {
	t.Helper()
	s := snapshot.New()
	d := Merge(s, f, DefaultOptions())
	if d.NothingNew {
		t.Fatal("seeding an empty snapshot should add nodes")
	}
	return s
}

func TestMergeEndToEnd(t *testing.T) {
	s := seed(t, fragment([]string{"A", "B"}, rawEdge("A", "B")))
	original, _ := s.Edge("A-knows->B")
	before := *original

	d := Merge(s, fragment([]string{"A", "B", "C"}, rawEdge("A", "B"), rawEdge("B", "C")), DefaultOptions())

	if d.NothingNew {
		t.Fatal("NothingNew = true, want false")
	}
	if got := d.NodeIDs(); len(got) != 1 || got[0] != "C" {
		t.Errorf("AddedNodes = %v, want [C]", got)
	}
	if got := d.EdgeIDs(); len(got) != 1 || got[0] != "B-knows->C" {
		t.Errorf("AddedEdges = %v, want [B-knows->C]", got)
	}
	if len(d.UpdatedEdges) != 0 {
		t.Errorf("UpdatedEdges = %v, want none", d.UpdatedEdges)
	}
	if s.NodeCount() != 3 || s.EdgeCount() != 2 {
		t.Errorf("snapshot = %d nodes, %d edges, want 3, 2", s.NodeCount(), s.EdgeCount())
	}
	if after, _ := s.Edge("A-knows->B"); !after.SamePlacement(&before) || after.StrokeColor != before.StrokeColor {
		t.Errorf("original edge was touched: %+v -> %+v", before, *after)
	}
}

func TestMergeIdempotentRetry(t *testing.T) {
	s := seed(t, fragment([]string{"A"}))
	f := fragment([]string{"A", "B", "C"}, rawEdge("A", "B"), rawEdge("A", "C"), rawEdge("C", "A"))

	first := Merge(s, f, DefaultOptions())
	if first.Empty() {
		t.Fatal("first merge should add elements")
	}
	nodes, edges := s.NodeIDs(), s.EdgeIDs()

	second := Merge(s, f, DefaultOptions())
	if !second.Empty() || !second.NothingNew {
		t.Errorf("second merge delta = %+v, want empty", second)
	}
	if len(s.NodeIDs()) != len(nodes) || len(s.EdgeIDs()) != len(edges) {
		t.Error("snapshot changed on retry")
	}

	again := Merge(s, f, Options{AllowEdgeOnly: true})
	if !again.Empty() {
		t.Errorf("edge-only retry delta = %+v, want empty", again)
	}
}

func TestMergeNothingNew(t *testing.T) {
	s := seed(t, fragment([]string{"A", "B"}))

	d := Merge(s, fragment([]string{"A", "B"}, rawEdge("A", "B")), DefaultOptions())
	if !d.NothingNew {
		t.Error("no new node should signal NothingNew")
	}
	if s.EdgeCount() != 0 {
		t.Error("NothingNew merge must not add edges")
	}

	d = Merge(s, graph.Fragment{}, DefaultOptions())
	if !d.NothingNew {
		t.Error("empty fragment should signal NothingNew")
	}
}

func TestMergeRecurvesAffectedGroups(t *testing.T) {
	tests := []struct {
		name string
		f    graph.Fragment
		opts Options
	}{
		{
			name: "WithNewNode",
			f:    fragment([]string{"a", "b", "c"}, graph.RawEdge{ID: "e2", Label: "knows", Source: "b", Target: "a"}),
			opts: DefaultOptions(),
		},
		{
			name: "EdgeOnly",
			f:    fragment(nil, graph.RawEdge{ID: "e2", Label: "knows", Source: "b", Target: "a"}),
			opts: Options{AllowEdgeOnly: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seed(t, fragment([]string{"a", "b"}, graph.RawEdge{ID: "e1", Label: "knows", Source: "a", Target: "b"}))
			e1, _ := s.Edge("e1")
			if e1.Curvature != 0 {
				t.Fatalf("single edge curvature = %v, want 0", e1.Curvature)
			}

			d := Merge(s, tt.f, tt.opts)

			if len(d.AddedEdges) != 1 || d.AddedEdges[0].ID != "e2" {
				t.Fatalf("AddedEdges = %v, want [e2]", d.EdgeIDs())
			}
			if len(d.UpdatedEdges) != 1 || d.UpdatedEdges[0].ID != "e1" {
				t.Fatalf("UpdatedEdges = %v, want [e1]", d.UpdatedEdges)
			}
			if d.UpdatedEdges[0].Curvature == 0 {
				t.Error("e1 should receive a new offset")
			}
			if d.UpdatedEdges[0].Curvature == d.AddedEdges[0].Curvature {
				t.Error("bundled edges share a curvature")
			}
			stored, _ := s.Edge("e1")
			if !stored.SamePlacement(&d.UpdatedEdges[0]) {
				t.Error("snapshot does not hold the updated placement")
			}
		})
	}
}

func TestMergeRecurveIsSetBased(t *testing.T) {
	all := []graph.RawEdge{
		{ID: "e1", Label: "l", Source: "u", Target: "v"},
		{ID: "e2", Label: "l", Source: "v", Target: "u"},
		{ID: "e3", Label: "l", Source: "u", Target: "v"},
	}

	// Everything at once.
	direct := seed(t, fragment([]string{"u", "v"}, all...))

	// One edge at a time, in a different order.
	stepwise := seed(t, fragment([]string{"u", "v"}, all[2]))
	Merge(stepwise, fragment(nil, all[0]), Options{AllowEdgeOnly: true})
	Merge(stepwise, fragment(nil, all[1]), Options{AllowEdgeOnly: true})

	for _, id := range []string{"e1", "e2", "e3"} {
		a, _ := direct.Edge(id)
		b, _ := stepwise.Edge(id)
		if !a.SamePlacement(b) {
			t.Errorf("%s: %+v vs %+v", id, a, b)
		}
	}
}

func TestMergeOrphanedEdges(t *testing.T) {
	s := seed(t, fragment([]string{"A"}))

	d := Merge(s, fragment([]string{"B"}, rawEdge("A", "B"), rawEdge("B", "Z")), DefaultOptions())

	if got := d.EdgeIDs(); len(got) != 1 || got[0] != "A-knows->B" {
		t.Errorf("AddedEdges = %v", got)
	}
	if len(d.Orphaned) != 1 || d.Orphaned[0] != "B-knows->Z" {
		t.Errorf("Orphaned = %v, want [B-knows->Z]", d.Orphaned)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestMergeKeepsIDsUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d", "e"}
	s := snapshot.New()

	for round := 0; round < 50; round++ {
		var vs []string
		var es []graph.RawEdge
		for i := 0; i < 3; i++ {
			vs = append(vs, ids[rng.Intn(len(ids))])
		}
		for i := 0; i < 4; i++ {
			es = append(es, rawEdge(ids[rng.Intn(len(ids))], ids[rng.Intn(len(ids))]))
		}
		Merge(s, fragment(vs, es...), Options{AllowEdgeOnly: round%2 == 0})

		if err := s.Validate(); err != nil {
			t.Fatalf("round %d: Validate: %v", round, err)
		}
		if got := len(s.Nodes()); got != len(s.NodeIDs()) {
			t.Fatalf("round %d: %d nodes for %d ids", round, got, len(s.NodeIDs()))
		}
		if got := len(s.Edges()); got != len(s.EdgeIDs()) {
			t.Fatalf("round %d: %d edges for %d ids", round, got, len(s.EdgeIDs()))
		}
	}
}

func TestDiff(t *testing.T) {
	s := seed(t, fragment([]string{"A", "B"}, rawEdge("A", "B")))
	f := graph.Fragment{
		Nodes: []graph.VisualNode{{ID: "A"}, {ID: "C"}, {ID: "C"}, {ID: ""}},
		Edges: []graph.VisualEdge{{ID: "A-knows->B"}, {ID: "x"}, {ID: "x"}},
	}

	nodes, edges := Diff(s, f)
	if len(nodes) != 1 || nodes[0].ID != "C" {
		t.Errorf("nodes = %v", nodes)
	}
	if len(edges) != 1 || edges[0].ID != "x" {
		t.Errorf("edges = %v", edges)
	}
}

func TestAddNodeAndEdge(t *testing.T) {
	s := seed(t, fragment([]string{"a", "b"}, graph.RawEdge{ID: "e1", Label: "l", Source: "a", Target: "b"}))

	d, err := AddNode(s, graph.VisualNode{ID: "c"})
	if err != nil || len(d.AddedNodes) != 1 {
		t.Fatalf("AddNode = %+v, %v", d, err)
	}
	if _, err := AddNode(s, graph.VisualNode{ID: "c"}); !errors.Is(err, snapshot.ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode err = %v", err)
	}

	e := graph.NewVisualEdge(graph.RawEdge{ID: "e2", Label: "l", Source: "b", Target: "a"})
	d, err = AddEdge(s, e, DefaultOptions())
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if len(d.UpdatedEdges) != 1 || d.UpdatedEdges[0].ID != "e1" {
		t.Errorf("UpdatedEdges = %v, want [e1]", d.UpdatedEdges)
	}
	if d.AddedEdges[0].Shape != graph.ShapeQuadratic {
		t.Errorf("added edge shape = %q, want quadratic", d.AddedEdges[0].Shape)
	}

	bad := graph.NewVisualEdge(graph.RawEdge{ID: "e3", Source: "a", Target: "nowhere"})
	if _, err := AddEdge(s, bad, DefaultOptions()); !errors.Is(err, snapshot.ErrUnknownTargetNode) {
		t.Errorf("dangling AddEdge err = %v", err)
	}
}

func TestMergeSelfLoops(t *testing.T) {
	s := seed(t, fragment([]string{"u"}, graph.RawEdge{ID: "l2", Label: "l", Source: "u", Target: "u"}))
	d := Merge(s, fragment([]string{"v"}, graph.RawEdge{ID: "l1", Label: "l", Source: "u", Target: "u"}), DefaultOptions())

	if len(d.UpdatedEdges) != 1 {
		t.Fatalf("UpdatedEdges = %v, want l2 re-spread", d.UpdatedEdges)
	}
	l1, _ := s.Edge("l1")
	l2, _ := s.Edge("l2")
	if l1.LoopOffset == l2.LoopOffset {
		t.Errorf("loops share offset %v", l1.LoopOffset)
	}
	if l1.Curvature != 0 || l2.Curvature != 0 {
		t.Error("loops must not receive curvature")
	}
}
